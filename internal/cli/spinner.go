package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var spinnerFrames = []rune("⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏")

const spinnerTick = 80 * time.Millisecond

// Spinner animates a status line on stderr while an export or a generation
// request runs. After the first second it also shows the elapsed time.
// The spinner stops when Stop is called or its context ends.
type Spinner struct {
	out     io.Writer
	ctx     context.Context
	cancel  context.CancelFunc
	stop    sync.Once
	stopped chan struct{}
	started time.Time

	mu      sync.Mutex
	message string
	width   int // widest line drawn so far
}

// newSpinnerWithContext creates a spinner bound to ctx.
func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	ctx, cancel := context.WithCancel(ctx)
	return &Spinner{
		out:     os.Stderr,
		ctx:     ctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
		message: message,
	}
}

// Start begins the animation in a background goroutine.
func (s *Spinner) Start() {
	s.started = time.Now()
	go s.run()
}

func (s *Spinner) run() {
	defer close(s.stopped)
	ticker := time.NewTicker(spinnerTick)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-s.ctx.Done():
			s.clear()
			return
		case <-ticker.C:
			s.draw(spinnerFrames[i%len(spinnerFrames)])
		}
	}
}

func (s *Spinner) draw(frame rune) {
	s.mu.Lock()
	defer s.mu.Unlock()

	line := styleIconSpinner.Render(string(frame)) + " " + StyleDim.Render(s.message)
	if d := time.Since(s.started); d >= time.Second {
		line += StyleDim.Render(" " + d.Truncate(time.Second).String())
	}
	// Pad over leftovers of a longer previous line.
	if w := lipgloss.Width(line); w < s.width {
		line += strings.Repeat(" ", s.width-w)
	} else {
		s.width = w
	}
	fmt.Fprint(s.out, "\r"+line)
}

func (s *Spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", s.width))
	}
}

// Stop halts the animation and clears the line. Calling it again is a no-op.
func (s *Spinner) Stop() {
	s.stop.Do(func() {
		s.cancel()
		if !s.started.IsZero() {
			<-s.stopped
		}
	})
}

// SetMessage replaces the text shown next to the spinner.
func (s *Spinner) SetMessage(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = message
}

// StopWithSuccess stops the spinner and reports success on p.
func (s *Spinner) StopWithSuccess(p printer, message string) {
	s.Stop()
	p.success("%s", message)
}

// StopWithError stops the spinner and reports a failure on p.
func (s *Spinner) StopWithError(p printer, message string) {
	s.Stop()
	p.failure("%s", message)
}

// Cancelled reports whether the spinner's context has ended, either by
// Stop or because the parent context was cancelled.
func (s *Spinner) Cancelled() bool {
	return s.ctx.Err() != nil
}
