// Package dialog implements the open/close state shared by every console
// form and confirmation prompt.
package dialog

import (
	"errors"
	"sync"
)

var (
	// ErrClosed is returned when submitting a dialog that is not open
	ErrClosed = errors.New("dialog is closed")
	// ErrSubmitting is returned when a dialog already has a submission in flight
	ErrSubmitting = errors.New("dialog is submitting")
)

// State is the dialog state
type State int

const (
	Closed State = iota
	Open
)

func (s State) String() string {
	if s == Open {
		return "open"
	}
	return "closed"
}

// Dialog wraps a form or confirmation prompt. It is safe for concurrent use.
type Dialog struct {
	mu         sync.Mutex
	state      State
	submitting bool
	onClose    func()
}

// New creates a closed dialog. onClose, if set, runs whenever the dialog
// closes, e.g. to reset its form.
func New(onClose func()) *Dialog {
	return &Dialog{onClose: onClose}
}

// Open opens the dialog. Opening an open dialog does nothing.
func (d *Dialog) Open() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = Open
}

// Cancel closes the dialog unless a submission is in flight
func (d *Dialog) Cancel() bool {
	return d.close()
}

// Dismiss handles an outside click; it follows the same rules as Cancel
func (d *Dialog) Dismiss() bool {
	return d.close()
}

func (d *Dialog) close() bool {
	d.mu.Lock()
	if d.state == Closed || d.submitting {
		d.mu.Unlock()
		return false
	}
	d.state = Closed
	d.mu.Unlock()

	if d.onClose != nil {
		d.onClose()
	}
	return true
}

// BeginSubmit marks a submission in flight
func (d *Dialog) BeginSubmit() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == Closed {
		return ErrClosed
	}
	if d.submitting {
		return ErrSubmitting
	}
	d.submitting = true
	return nil
}

// EndSubmit finishes a submission; a successful one closes the dialog
func (d *Dialog) EndSubmit(success bool) {
	d.mu.Lock()
	d.submitting = false
	closing := success && d.state == Open
	if closing {
		d.state = Closed
	}
	d.mu.Unlock()

	if closing && d.onClose != nil {
		d.onClose()
	}
}

// State returns the current state
func (d *Dialog) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// IsOpen reports whether the dialog is open
func (d *Dialog) IsOpen() bool {
	return d.State() == Open
}

// Submitting reports whether a submission is in flight
func (d *Dialog) Submitting() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.submitting
}

// CanCancel reports whether the cancel control is enabled
func (d *Dialog) CanCancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state == Open && !d.submitting
}
