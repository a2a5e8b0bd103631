package host

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"

	"golang.org/x/term"

	"lazymaint/internal/maint"
)

// ConsoleProgress prints progress to stderr and treats an interrupt
// signal (Ctrl-C) as a cancellation request. Cancellation is
// cooperative: the core polls Cancelled at its defined points, so the
// signal never interrupts work mid-file.
type ConsoleProgress struct {
	title     string
	cancelled atomic.Bool
	sigCh     chan os.Signal
	lastPct   int
}

// NewConsoleProgress creates a progress sink and starts listening for
// interrupts. Call Close when the operation ends.
func NewConsoleProgress(title string) *ConsoleProgress {
	p := &ConsoleProgress{title: title, lastPct: -1}
	p.sigCh = make(chan os.Signal, 1)
	signal.Notify(p.sigCh, os.Interrupt)
	go func() {
		for range p.sigCh {
			p.cancelled.Store(true)
		}
	}()
	return p
}

// Update prints a progress line; repeated identical percentages are
// collapsed to keep the output readable.
func (p *ConsoleProgress) Update(percent int, message string) {
	if percent == p.lastPct && percent != 100 {
		return
	}
	p.lastPct = percent
	fmt.Fprintf(os.Stderr, "\r\033[K[%3d%%] %s: %s", percent, p.title, message)
	if percent >= 100 {
		fmt.Fprintln(os.Stderr)
	}
}

// Cancelled reports whether an interrupt was received.
func (p *ConsoleProgress) Cancelled() bool {
	return p.cancelled.Load()
}

// Close stops listening for interrupts and ends the progress line.
func (p *ConsoleProgress) Close() {
	signal.Stop(p.sigCh)
	close(p.sigCh)
	if p.lastPct >= 0 && p.lastPct < 100 {
		fmt.Fprintln(os.Stderr)
	}
}

// ConsolePrompt asks yes/no questions on the terminal. When stdin is
// not a terminal the prompt auto-declines: destructive operations must
// never proceed on an implicit answer.
type ConsolePrompt struct{}

func (ConsolePrompt) Confirm(title, message string) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintf(os.Stderr, "%s: declined (stdin is not a terminal; re-run interactively or pass --yes)\n", title)
		return false, nil
	}

	fmt.Fprintf(os.Stderr, "%s\n%s\nProceed? [y/N]: ", title, message)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("reading confirmation: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

// ConsoleNotifier prints short status notifications to stderr.
type ConsoleNotifier struct{}

func (ConsoleNotifier) Notify(title, message string) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", title, message)
}

// Compile-time interface checks
var (
	_ maint.ProgressSink  = (*ConsoleProgress)(nil)
	_ maint.ConfirmPrompt = ConsolePrompt{}
	_ maint.Notifier      = ConsoleNotifier{}
)
