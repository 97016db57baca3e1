package iohook

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/bcomp-labs/bcompsim/pkg/machine"
)

// SubprocessDevice forwards every Notify call to a long-running child
// process over a binary pipe protocol: one fixed-size record per
// notification, no response expected. Useful for driving an external
// peripheral model (a terminal, a disk image) out of process instead
// of inside the simulator binary.
type SubprocessDevice struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser
	mu    sync.Mutex // serialize writes
}

// record is the wire layout written for each Notify call: bit (as
// uint32), then the subset of register state a peripheral model is
// likely to need.
type record struct {
	Bit uint32
	AC  uint16
	DR  uint16
	AR  uint16
	PS  uint16
	Pad uint16 // always zero; the record is 14 bytes on the wire
}

// NewSubprocessDevice starts the named binary and leaves its stdin
// open for Notify to write records to. The child's stdout/stderr are
// inherited so diagnostics reach the parent's terminal.
func NewSubprocessDevice(path string, args ...string) (*SubprocessDevice, error) {
	cmd := exec.Command(path, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("iohook: stdin pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		stdin.Close()
		return nil, fmt.Errorf("iohook: start %s: %w", path, err)
	}
	return &SubprocessDevice{cmd: cmd, stdin: stdin}, nil
}

// Notify writes one fixed-size record describing the event. Write
// errors are not returned (Device.Notify has no error return — see
// the error handling design) but are not silently discarded either:
// a write failure closes stdin so subsequent calls fail fast instead
// of hanging on a dead pipe.
func (d *SubprocessDevice) Notify(bit int, snap machine.Snapshot) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stdin == nil {
		return
	}
	rec := record{
		Bit: uint32(bit),
		AC:  snap.AC, DR: snap.DR, AR: snap.AR, PS: snap.PS,
	}
	if err := binary.Write(d.stdin, binary.LittleEndian, rec); err != nil {
		d.stdin.Close()
		d.stdin = nil
	}
}

// Close shuts down the child process.
func (d *SubprocessDevice) Close() error {
	d.mu.Lock()
	stdin := d.stdin
	d.stdin = nil
	d.mu.Unlock()
	if stdin != nil {
		stdin.Close()
	}
	return d.cmd.Wait()
}
