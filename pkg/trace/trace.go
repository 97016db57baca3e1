// Package trace observes a running machine.Machine and assembles the
// canonical per-instruction trace described by the external trace
// interface: cur_ip/cur_cr/last-modified-(AR,DR) are captured across
// several ticks and combined into one composite Line emitted at the
// end-of-instruction marker. Grounded on the teacher's pkg/result
// package (a mutex-guarded accumulator plus gob checkpointing),
// generalized from optimization rules to execution trace lines.
package trace

import (
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/bcomp-labs/bcompsim/pkg/machine"
)

// Line is one composite per-instruction trace row: the columns
// captured at instruction fetch/decode/store (cur_ip, cur_cr,
// last_mod_addr, last_mod_mem) alongside the full register snapshot
// committed when the end-of-instruction marker fired.
type Line struct {
	Cycle uint64

	CurIP uint16
	CurCR uint16

	IP, CR, AR, DR, SP, BR, AC uint16
	PS                         uint16 // low 4 bits: C,V,Z,N — see machine.PSBit*

	LastModAddr uint16
	LastModMem  uint16
}

// Recorder accumulates trace Lines across a run. It holds no pointer
// into the observed Machine — callers drive it by calling Observe
// once per tick with the Machine's pre-tick microPC and post-tick
// snapshot. Between instruction boundaries it carries cur_ip/cur_cr
// and the last-modified-(AR,DR) pair forward, per the four capture
// triggers of the trace interface.
type Recorder struct {
	mu    sync.Mutex
	lines []Line
	cycle uint64

	curIP       uint16
	curCR       uint16
	lastModAddr uint16
	lastModMem  uint16
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Seed captures cur_ip/cur_cr from the machine's state before any
// ticks have run. The first instruction of a run starts already
// sitting at microPC 1 (INFETCH) — trigger (a) never fires for it via
// Observe, since Observe only sees microPC *transitions* — so the
// caller seeds the Recorder once from the pre-tick snapshot to cover
// it.
func (r *Recorder) Seed(initial machine.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if initial.MicroPC == 1 {
		r.curIP = initial.IP
	}
}

// Observe inspects one completed tick's microPC transition and
// register state. prevPC is the microPC before the tick; snap is the
// machine's snapshot after the tick.
//
// Trigger (d) — a branch taken to microaddress 1, i.e. prevPC != 1 and
// the new microPC == 1 — closes out the instruction that just ran and
// emits its composite Line before cur_ip is overwritten for the
// instruction now being fetched. Triggers (a)-(c) then update the
// running cur_ip/cur_cr/last_mod_addr/last_mod_mem for the next Line.
func (r *Recorder) Observe(prevPC uint8, snap machine.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cycle++

	if prevPC != 1 && snap.MicroPC == 1 {
		r.lines = append(r.lines, Line{
			Cycle: r.cycle,
			CurIP: r.curIP, CurCR: r.curCR,
			IP: snap.IP, CR: snap.CR, AR: snap.AR, DR: snap.DR,
			SP: snap.SP, BR: snap.BR, AC: snap.AC, PS: snap.PS & 0xF,
			LastModAddr: r.lastModAddr, LastModMem: r.lastModMem,
		})
	}

	if snap.MicroPC == 1 {
		r.curIP = snap.IP
	}
	if snap.MicroPC == 4 {
		r.curCR = snap.CR
	}
	if snap.Stored {
		r.lastModAddr, r.lastModMem = snap.LastModAddr, snap.LastModMem
	}
}

// Lines returns a copy of every recorded Line.
func (r *Recorder) Lines() []Line {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Line, len(r.lines))
	copy(out, r.lines)
	return out
}

// Len returns the number of recorded Lines.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.lines)
}

// WriteText renders every recorded Line as one human-readable row with
// the twelve documented columns.
func (r *Recorder) WriteText(w io.Writer) error {
	for _, l := range r.Lines() {
		_, err := fmt.Fprintf(w,
			"%6d cur_ip=%04X cur_cr=%04X IP=%04X CR=%04X AR=%03X DR=%04X SP=%03X BR=%04X AC=%04X PS=%01X last_mod_addr=%03X last_mod_mem=%04X\n",
			l.Cycle, l.CurIP, l.CurCR, l.IP, l.CR, l.AR, l.DR, l.SP, l.BR, l.AC, l.PS, l.LastModAddr, l.LastModMem)
		if err != nil {
			return err
		}
	}
	return nil
}

// Session is the gob-serializable form of a recorded run, used to
// persist a trace for later inspection without re-running the
// machine.
type Session struct {
	Lines []Line
}

// SaveSession writes the recorder's lines to path via gob.
func (r *Recorder) SaveSession(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gob.NewEncoder(f).Encode(Session{Lines: r.Lines()})
}

// LoadSession reads a previously saved trace session from path.
func LoadSession(path string) (Session, error) {
	f, err := os.Open(path)
	if err != nil {
		return Session{}, err
	}
	defer f.Close()
	var s Session
	if err := gob.NewDecoder(f).Decode(&s); err != nil {
		return Session{}, err
	}
	return s, nil
}
