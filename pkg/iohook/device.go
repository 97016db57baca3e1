// Package iohook exposes the two special control bits (IO, INTS) the
// microsequencer asserts as hooks for an external collaborator, per
// the external interfaces design: the core never implements an I/O
// bus or interrupt controller itself, it just notifies a Device each
// cycle either bit is set.
package iohook

import "github.com/bcomp-labs/bcompsim/pkg/machine"

// Implementations in this package satisfy machine.Device by method
// set (Notify(bit int, snap machine.Snapshot)) — bit is one of
// machine.HookIO / machine.HookINTS. There is no separate Device
// interface here: defining one that machine.go also depended on would
// create an import cycle, since Device.Notify must take a
// machine.Snapshot.

// NoopDevice discards every notification, the same behaviour as the
// unexported no-op device machine.NewMachine installs by default: a
// Machine with no device attached behaves exactly as if IO/INTS were
// unwired.
type NoopDevice struct{}

func (NoopDevice) Notify(int, machine.Snapshot) {}
