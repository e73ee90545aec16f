package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

var spinFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const progressBarWidth = 24

// ConfirmUpdate is the state of a confirmation wait.
type ConfirmUpdate struct {
	Hash          string
	Mined         bool
	Confirmations uint64
	Target        uint64
}

// ConfirmUpdateMsg wraps ConfirmUpdate as a Bubble Tea message.
type ConfirmUpdateMsg ConfirmUpdate

type confirmTickMsg struct{}

type confirmDoneMsg struct{}

// ConfirmModel is the Bubble Tea model for the confirmation progress line.
type ConfirmModel struct {
	State ConfirmUpdate
	Frame int
	Done  bool
}

func (m ConfirmModel) Init() tea.Cmd { return confirmTick() }

func confirmTick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(time.Time) tea.Msg {
		return confirmTickMsg{}
	})
}

func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case confirmTickMsg:
		if m.Done {
			return m, nil
		}
		m.Frame = (m.Frame + 1) % len(spinFrames)
		return m, confirmTick()

	case ConfirmUpdateMsg:
		m.State = ConfirmUpdate(msg)
		return m, nil

	case confirmDoneMsg:
		m.Done = true
		return m, tea.Quit

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.Done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m ConfirmModel) View() string {
	if m.Done {
		return ""
	}
	spin := StyleSpinner.Render(spinFrames[m.Frame])
	hash := Addr(TruncateAddr(m.State.Hash))
	if !m.State.Mined {
		return fmt.Sprintf("%s  Waiting for %s to be mined…\n", spin, hash)
	}
	return fmt.Sprintf("%s  %s %s %s\n", spin, hash,
		progressBar(m.State.Confirmations, m.State.Target, progressBarWidth),
		Meta(fmt.Sprintf("%d/%d confirmations", m.State.Confirmations, m.State.Target)))
}

// progressBar renders done/total as a fixed-width bar.
func progressBar(done, total uint64, width int) string {
	filled := width
	if total > 0 && done < total {
		filled = int(done * uint64(width) / total)
	}
	return StyleSuccess.Render(strings.Repeat("█", filled)) +
		StyleMeta.Render(strings.Repeat("░", width-filled))
}

// ConfirmTracker shows confirmation progress on out. Interactive trackers
// drive a Bubble Tea program; others print one plain line per change.
type ConfirmTracker struct {
	out         io.Writer
	interactive bool

	mu      sync.Mutex
	prog    *tea.Program
	done    chan struct{}
	last    ConfirmUpdate
	started bool
}

// NewConfirmTracker creates a tracker writing to out.
func NewConfirmTracker(out io.Writer, interactive bool) *ConfirmTracker {
	return &ConfirmTracker{out: out, interactive: interactive}
}

// Update reports new progress. Safe for concurrent use.
func (t *ConfirmTracker) Update(u ConfirmUpdate) {
	t.mu.Lock()
	changed := !t.started || u != t.last
	t.last = u
	if !t.interactive {
		t.started = true
		t.mu.Unlock()
		if changed {
			fmt.Fprintln(t.out, plainProgress(u))
		}
		return
	}
	if !t.started {
		t.started = true
		t.prog = tea.NewProgram(ConfirmModel{State: u},
			tea.WithOutput(t.out), tea.WithInput(nil), tea.WithoutSignalHandler())
		t.done = make(chan struct{})
		go func(p *tea.Program, done chan struct{}) {
			defer close(done)
			_, _ = p.Run()
		}(t.prog, t.done)
	}
	p := t.prog
	t.mu.Unlock()
	p.Send(ConfirmUpdateMsg(u))
}

// Stop ends the display and waits for the program to restore the terminal.
func (t *ConfirmTracker) Stop() {
	t.mu.Lock()
	p, done := t.prog, t.done
	t.mu.Unlock()
	if p == nil {
		return
	}
	p.Send(confirmDoneMsg{})
	<-done
}

func plainProgress(u ConfirmUpdate) string {
	if !u.Mined {
		return fmt.Sprintf("waiting for %s to be mined", u.Hash)
	}
	return fmt.Sprintf("%s: %d/%d confirmations", u.Hash, u.Confirmations, u.Target)
}
