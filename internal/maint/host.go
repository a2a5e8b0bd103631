package maint

// Host bridge capabilities. The core depends only on these narrow
// interfaces; the app layer injects console implementations and tests
// inject fakes. Cancellation is cooperative: long-running loops poll
// ProgressSink.Cancelled between units of work (one archive entry, one
// transfer chunk), so the interruption granularity is never mid-file.

// ProgressSink receives progress updates and answers cancellation polls.
type ProgressSink interface {
	// Update reports progress as a percentage (0-100) with a short message.
	Update(percent int, message string)

	// Cancelled reports whether the user has requested cancellation.
	Cancelled() bool
}

// ConfirmPrompt asks the user a yes/no question before destructive work.
type ConfirmPrompt interface {
	Confirm(title, message string) (bool, error)
}

// Notifier surfaces short, non-blocking status messages.
type Notifier interface {
	Notify(title, message string)
}

// Terminator forcibly ends the host process. Restore calls it after
// moving files into place so in-memory host state cannot overwrite the
// just-restored configuration on a normal shutdown.
type Terminator interface {
	Terminate()
}

// NopProgress discards updates and never cancels. Use in tests and for
// silent startup cleaning.
type NopProgress struct{}

func (NopProgress) Update(int, string) {}
func (NopProgress) Cancelled() bool    { return false }

// NopTerminator does nothing. Use in tests.
type NopTerminator struct{}

func (NopTerminator) Terminate() {}

// NopNotifier discards notifications. Use in tests.
type NopNotifier struct{}

func (NopNotifier) Notify(string, string) {}
