// Package tui renders a terminal progress view for long propagation runs.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/gnlse/internal/gnlse"
)

const barWidth = 40

// SnapshotMsg carries one save point from the solver into the model.
type SnapshotMsg struct {
	Snapshot gnlse.Snapshot
}

// DoneMsg ends the view once the solver returns.
type DoneMsg struct {
	Err error
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Model is the bubbletea model of a single run.
type Model struct {
	title  string
	length float64
	total  int
	dt     float64
	cancel context.CancelFunc

	start   time.Time
	elapsed time.Duration

	z       float64
	saved   int
	energy0 float64
	energy  float64
	peak    float64
	peaks   []float64

	done      bool
	cancelled bool
	err       error
}

// NewModel builds a progress model for a fiber of the given length with
// total save points. cancel is invoked when the user quits early.
func NewModel(title string, length float64, total int, dt float64, cancel context.CancelFunc) Model {
	return Model{
		title:  title,
		length: length,
		total:  total,
		dt:     dt,
		cancel: cancel,
		start:  time.Now(),
	}
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if m.cancel != nil {
				m.cancel()
			}
			m.cancelled = true
			return m, tea.Quit
		}
	case tickMsg:
		if m.done {
			return m, nil
		}
		m.elapsed = time.Time(msg).Sub(m.start)
		return m, tick()
	case SnapshotMsg:
		m.observe(msg.Snapshot)
	case DoneMsg:
		m.done = true
		m.err = msg.Err
		m.elapsed = time.Since(m.start)
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) observe(snap gnlse.Snapshot) {
	m.z = snap.Z
	m.saved = snap.Index + 1
	m.energy = snap.At.Energy(m.dt)
	if snap.Index == 0 {
		m.energy0 = m.energy
	}
	m.peak, _ = snap.At.Peak()
	m.peaks = append(m.peaks, m.peak)
}

// Progress reports the fraction of the fiber covered so far.
func (m Model) Progress() float64 {
	if m.length <= 0 {
		return 0
	}
	return m.z / m.length
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title) + "\n\n")
	frac := m.Progress()
	b.WriteString(fmt.Sprintf("%s %5.1f%%\n\n", progressBar(frac, barWidth), 100*frac))

	row := func(label, value string) {
		b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render(fmt.Sprintf("%-10s", label)), valueStyle.Render(value)))
	}
	row("z", fmt.Sprintf("%.4g / %.4g m", m.z, m.length))
	row("saves", fmt.Sprintf("%d / %d", m.saved, m.total))
	row("energy", fmt.Sprintf("%.4g pJ", m.energy))
	if m.energy0 > 0 {
		row("drift", fmt.Sprintf("%+.2e", m.energy/m.energy0-1))
	}
	row("peak", fmt.Sprintf("%.4g W", m.peak))
	if len(m.peaks) > 1 {
		row("", sparkline(m.peaks, barWidth))
	}
	row("elapsed", m.elapsed.Round(time.Millisecond).String())

	switch {
	case m.err != nil:
		b.WriteString("\n" + errStyle.Render("failed: "+m.err.Error()) + "\n")
	case m.done:
		b.WriteString("\n" + okStyle.Render("done") + "\n")
	case m.cancelled:
		b.WriteString("\n" + errStyle.Render("cancelled") + "\n")
	default:
		b.WriteString("\n" + hintStyle.Render("q quit") + "\n")
	}

	return panelStyle.Render(b.String()) + "\n"
}

// Run propagates solver behind a progress view. observe, if non-nil, sees
// every snapshot before the view does. Quitting the view cancels the run.
func Run(ctx context.Context, title string, solver *gnlse.Solver, observe func(gnlse.Snapshot), opts ...tea.ProgramOption) (*gnlse.Solution, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	setup := solver.Setup()
	p := tea.NewProgram(NewModel(title, setup.FiberLength, setup.ZSaves, solver.Grid().Dt(), cancel), opts...)

	type result struct {
		sol *gnlse.Solution
		err error
	}
	done := make(chan result, 1)
	go func() {
		sol, err := solver.RunObserved(ctx, func(snap gnlse.Snapshot) {
			if observe != nil {
				observe(snap)
			}
			p.Send(SnapshotMsg{Snapshot: snap})
		})
		p.Send(DoneMsg{Err: err})
		done <- result{sol: sol, err: err}
	}()

	_, perr := p.Run()
	cancel()
	r := <-done
	if perr != nil && r.err == nil {
		return nil, fmt.Errorf("progress view: %w", perr)
	}
	return r.sol, r.err
}
