package testutil

import "sync"

// ProgressRecorder records every progress update and can simulate a
// user cancellation after a set number of Cancelled() polls.
type ProgressRecorder struct {
	mu      sync.Mutex
	updates []ProgressUpdate
	polls   int

	// CancelAfterPolls makes Cancelled() return true once it has been
	// called that many times. Zero means never cancel.
	CancelAfterPolls int
}

// ProgressUpdate is one recorded Update call.
type ProgressUpdate struct {
	Percent int
	Message string
}

func NewProgressRecorder() *ProgressRecorder {
	return &ProgressRecorder{}
}

func (r *ProgressRecorder) Update(percent int, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, ProgressUpdate{Percent: percent, Message: message})
}

func (r *ProgressRecorder) Cancelled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.CancelAfterPolls == 0 {
		return false
	}
	r.polls++
	return r.polls >= r.CancelAfterPolls
}

// Updates returns a copy of all recorded updates.
func (r *ProgressRecorder) Updates() []ProgressUpdate {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ProgressUpdate(nil), r.updates...)
}

// LastPercent returns the percent of the most recent update, or -1 if
// none were recorded.
func (r *ProgressRecorder) LastPercent() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.updates) == 0 {
		return -1
	}
	return r.updates[len(r.updates)-1].Percent
}

// TerminatorSpy records whether Terminate was called.
type TerminatorSpy struct {
	mu     sync.Mutex
	called int
}

func NewTerminatorSpy() *TerminatorSpy {
	return &TerminatorSpy{}
}

func (t *TerminatorSpy) Terminate() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.called++
}

func (t *TerminatorSpy) Called() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.called > 0
}

// NotifierRecorder records Notify calls.
type NotifierRecorder struct {
	mu            sync.Mutex
	notifications []Notification
}

// Notification is one recorded Notify call.
type Notification struct {
	Title   string
	Message string
}

func NewNotifierRecorder() *NotifierRecorder {
	return &NotifierRecorder{}
}

func (n *NotifierRecorder) Notify(title, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notifications = append(n.notifications, Notification{Title: title, Message: message})
}

// Notifications returns a copy of all recorded notifications.
func (n *NotifierRecorder) Notifications() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notification(nil), n.notifications...)
}
