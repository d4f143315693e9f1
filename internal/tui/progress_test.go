package tui

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/gnlse/internal/dispersion"
	"github.com/san-kum/gnlse/internal/field"
	"github.com/san-kum/gnlse/internal/gnlse"
	"github.com/san-kum/gnlse/internal/impulse"
)

func isQuit(t *testing.T, cmd tea.Cmd) bool {
	t.Helper()
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestModel_Snapshots(t *testing.T) {
	m := NewModel("test", 2, 3, 0.5, nil)

	updated, _ := m.Update(SnapshotMsg{Snapshot: gnlse.Snapshot{Index: 0, Z: 0, At: field.Field{1, 1}}})
	m = updated.(Model)
	updated, _ = m.Update(SnapshotMsg{Snapshot: gnlse.Snapshot{Index: 1, Z: 1, At: field.Field{2, 0}}})
	m = updated.(Model)

	if got := m.Progress(); got != 0.5 {
		t.Errorf("Progress() = %g, want 0.5", got)
	}
	if m.saved != 2 {
		t.Errorf("saved = %d, want 2", m.saved)
	}
	if m.energy0 != 1 || m.energy != 2 {
		t.Errorf("energy0, energy = %g, %g, want 1, 2", m.energy0, m.energy)
	}
	if m.peak != 4 {
		t.Errorf("peak = %g, want 4", m.peak)
	}

	view := m.View()
	for _, want := range []string{"test", "2 / 3", "q quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestModel_Done(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"success", nil, "done"},
		{"failure", errors.New("boom"), "failed: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewModel("run", 1, 2, 1, nil)
			updated, cmd := m.Update(DoneMsg{Err: tt.err})
			if !isQuit(t, cmd) {
				t.Fatal("DoneMsg should quit the program")
			}
			if view := updated.View(); !strings.Contains(view, tt.want) {
				t.Errorf("View() missing %q", tt.want)
			}
		})
	}
}

func TestModel_QuitCancels(t *testing.T) {
	keys := []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyCtrlC},
		{Type: tea.KeyEsc},
	}

	for _, key := range keys {
		t.Run(key.String(), func(t *testing.T) {
			cancelled := false
			m := NewModel("run", 1, 2, 1, func() { cancelled = true })
			updated, cmd := m.Update(key)
			if !cancelled {
				t.Error("cancel was not called")
			}
			if !isQuit(t, cmd) {
				t.Error("key should quit the program")
			}
			if view := updated.View(); !strings.Contains(view, "cancelled") {
				t.Error("View() should report cancellation")
			}
		})
	}
}

func TestModel_TickStopsWhenDone(t *testing.T) {
	m := NewModel("run", 1, 2, 1, nil)
	updated, _ := m.Update(DoneMsg{})
	if _, cmd := updated.Update(tickMsg{}); cmd != nil {
		t.Error("tick after completion should not reschedule")
	}
}

func TestSparkline(t *testing.T) {
	if got := sparkline(nil, 10); got != "" {
		t.Errorf("sparkline(nil) = %q, want empty", got)
	}
	if got := sparkline([]float64{0, 1}, 10); got != "▁█" {
		t.Errorf("sparkline = %q, want ▁█", got)
	}
	if got := sparkline([]float64{5, 0, 1, 2}, 2); got != "▁█" {
		t.Errorf("sparkline keeps the newest values, got %q", got)
	}
}

func TestRun(t *testing.T) {
	pulse, err := impulse.NewGaussian(1, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	fiber, err := dispersion.NewTaylor(0, []float64{-0.01})
	if err != nil {
		t.Fatal(err)
	}
	s := gnlse.DefaultSetup()
	s.Resolution = 128
	s.TimeWindow = 2
	s.ZSaves = 5
	s.FiberLength = 0.1
	s.Impulse = pulse
	s.Dispersion = fiber

	solver, err := gnlse.New(s)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	observed := 0
	sol, err := Run(context.Background(), "test", solver, func(gnlse.Snapshot) { observed++ },
		tea.WithInput(nil), tea.WithOutput(io.Discard), tea.WithoutSignalHandler())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if sol.Len() != s.ZSaves || observed != s.ZSaves {
		t.Errorf("got %d snapshots, observed %d, want %d", sol.Len(), observed, s.ZSaves)
	}
}
