package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	red    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

const barWidth = 40

type stepMsg struct {
	step, total int
	at          time.Time
}

type doneMsg struct{ err error }

type model struct {
	title    string
	step     int
	total    int
	start    time.Time
	last     time.Time
	done     bool
	canceled bool
	err      error
	cancel   context.CancelFunc
}

func newModel(title string, total int, cancel context.CancelFunc) model {
	now := time.Now()
	return model{
		title:  title,
		total:  total,
		start:  now,
		last:   now,
		cancel: cancel,
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.canceled = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}
	case stepMsg:
		m.step, m.total, m.last = msg.step, msg.total, msg.at
	case doneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m model) fraction() float64 {
	if m.total <= 0 {
		return 1
	}
	return float64(m.step) / float64(m.total)
}

func (m model) rate() float64 {
	elapsed := m.last.Sub(m.start).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return float64(m.step) / elapsed
}

func (m model) eta() time.Duration {
	r := m.rate()
	if r <= 0 {
		return 0
	}
	return time.Duration(float64(m.total-m.step) / r * float64(time.Second))
}

func (m model) View() string {
	var b strings.Builder

	frac := m.fraction()
	filled := int(frac * barWidth)
	if filled > barWidth {
		filled = barWidth
	}

	b.WriteString("  " + cyan.Render(m.title) + "\n\n")
	b.WriteString("  " + green.Render(strings.Repeat("█", filled)) +
		dimmer.Render(strings.Repeat("░", barWidth-filled)))
	b.WriteString(white.Render(fmt.Sprintf(" %5.1f%%", frac*100)) + "\n")
	b.WriteString(dim.Render(fmt.Sprintf("  %d/%d steps  %s steps/s  eta %s",
		m.step, m.total, formatRate(m.rate()), m.eta().Round(time.Second))) + "\n")

	switch {
	case m.err != nil:
		b.WriteString("  " + red.Render(m.err.Error()) + "\n")
	case m.canceled:
		b.WriteString("  " + red.Render("canceled") + "\n")
	case !m.done:
		b.WriteString(dimmer.Render("  q to cancel") + "\n")
	}
	return b.String()
}

func formatRate(r float64) string {
	switch {
	case r >= 1e6:
		return fmt.Sprintf("%.2fM", r/1e6)
	case r >= 1e3:
		return fmt.Sprintf("%.1fk", r/1e3)
	default:
		return fmt.Sprintf("%.0f", r)
	}
}

// Progress is a full-screen progress bar for a running simulation.
type Progress struct {
	program *tea.Program
}

// NewProgress prepares the bar. Pressing q or ctrl+c calls cancel.
func NewProgress(title string, total int, cancel context.CancelFunc, opts ...tea.ProgramOption) *Progress {
	return &Progress{program: tea.NewProgram(newModel(title, total, cancel), opts...)}
}

// Run blocks until Done is called or the user cancels.
func (p *Progress) Run() error {
	_, err := p.program.Run()
	return err
}

// Done ends the program once the run has returned.
func (p *Progress) Done(err error) {
	p.program.Send(doneMsg{err: err})
}

// Observer forwards step updates to the bar at most every interval.
func (p *Progress) Observer(interval time.Duration) *Observer {
	return NewObserver(p.program, interval)
}

type sender interface {
	Send(msg tea.Msg)
}

type Observer struct {
	to       sender
	interval time.Duration
	last     time.Time
	now      func() time.Time
}

func NewObserver(to sender, interval time.Duration) *Observer {
	return &Observer{to: to, interval: interval, now: time.Now}
}

func (o *Observer) OnStep(step, total int) {
	now := o.now()
	if step != total && now.Sub(o.last) < o.interval {
		return
	}
	o.last = now
	o.to.Send(stepMsg{step: step, total: total, at: now})
}
