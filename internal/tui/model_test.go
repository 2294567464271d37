package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/symdrill/internal/errmodel"
	"github.com/verte-zerg/symdrill/internal/generator"
	"github.com/verte-zerg/symdrill/internal/model"
	"github.com/verte-zerg/symdrill/internal/practice"
)

type fixedGen string

func (g fixedGen) Generate(_ generator.Scorer) []rune { return []rune(string(g)) }

type fakeRounds struct {
	sessions []model.SessionAggregate
	inserted []model.SessionStats
	err      error
}

func (f *fakeRounds) InsertSession(_ context.Context, stats model.SessionStats, _ []model.CharStats) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.inserted = append(f.inserted, stats)
	return int64(len(f.inserted)), nil
}

func (f *fakeRounds) ListSessions(context.Context, model.StatsConfig) ([]model.SessionAggregate, error) {
	return f.sessions, nil
}

func newTestModel(prompt string, rounds *fakeRounds) (*Model, *errmodel.Model) {
	errs := errmodel.New(errmodel.DefaultParams())
	engine := practice.NewEngine(errs, fixedGen(prompt))
	return NewModel(model.Config{PairsShown: 2}, engine, errs, rounds, nil), errs
}

func press(m *Model, msgs ...tea.KeyMsg) {
	for _, msg := range msgs {
		m.Update(msg)
	}
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestKeyName(t *testing.T) {
	cases := []struct {
		msg  tea.KeyMsg
		want string
	}{
		{tea.KeyMsg{Type: tea.KeyBackspace}, practice.KeyBackspace},
		{tea.KeyMsg{Type: tea.KeyCtrlH}, practice.KeyBackspace},
		{tea.KeyMsg{Type: tea.KeyEnter}, practice.KeyEnter},
		{tea.KeyMsg{Type: tea.KeySpace}, " "},
		{runeKey('%'), "%"},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("ab"), Paste: true}, "ab"},
		{tea.KeyMsg{Type: tea.KeyTab}, "tab"},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}, Alt: true}, "alt+x"},
	}
	for _, tc := range cases {
		if got := keyName(tc.msg); got != tc.want {
			t.Fatalf("keyName(%v) = %q, want %q", tc.msg, got, tc.want)
		}
	}
}

func TestRoundIsRecordedOnce(t *testing.T) {
	rounds := &fakeRounds{}
	m, errs := newTestModel("a;", rounds)

	press(m, runeKey('a'), runeKey(':'))
	if len(rounds.inserted) != 1 {
		t.Fatalf("expected round to be recorded, got %d", len(rounds.inserted))
	}
	if rounds.inserted[0].Correct != 1 || rounds.inserted[0].Incorrect != 1 {
		t.Fatalf("unexpected round stats: %+v", rounds.inserted[0])
	}
	if errs.ScoreFor(';') != 10 {
		t.Fatalf("expected mistake accounted, got %d", errs.ScoreFor(';'))
	}

	press(m, runeKey('a'), tea.KeyMsg{Type: tea.KeyBackspace})
	if len(rounds.inserted) != 1 {
		t.Fatalf("expected keys on a complete round to be ignored")
	}
	if !m.hasLast {
		t.Fatalf("expected footer stats to update")
	}

	press(m, tea.KeyMsg{Type: tea.KeyEnter}, runeKey('a'), runeKey(';'))
	if len(rounds.inserted) != 2 {
		t.Fatalf("expected second round recorded, got %d", len(rounds.inserted))
	}
}

func TestSaveFailureDoesNotStopPractice(t *testing.T) {
	rounds := &fakeRounds{err: errors.New("read-only database")}
	m, _ := newTestModel("ab", rounds)
	press(m, runeKey('a'), runeKey('b'), tea.KeyMsg{Type: tea.KeyEnter}, runeKey('a'))
	if m.engine.Cursor() != 1 {
		t.Fatalf("expected practice to continue, cursor %d", m.engine.Cursor())
	}
}

func TestViewShowsMistakesAndPairs(t *testing.T) {
	m, _ := newTestModel("abc", &fakeRounds{})
	press(m, runeKey('x'), runeKey('y'), runeKey('z'))

	out := m.View()
	for _, want := range []string{"Enter to continue", "Last mistakes:", "c -> z", "Error stats:", "a -> x (1)", "Progress 100%"} {
		if !strings.Contains(out, want) {
			t.Fatalf("view missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "c -> z") > strings.Index(out, "a -> x\n") {
		t.Fatalf("expected most recent mistake first:\n%s", out)
	}
	if strings.Count(out, " (1)") != 2 {
		t.Fatalf("expected pairs limited to 2:\n%s", out)
	}
}

func TestCtrlCQuits(t *testing.T) {
	m, _ := newTestModel("ab", &fakeRounds{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestFooterFromHistory(t *testing.T) {
	rounds := &fakeRounds{sessions: []model.SessionAggregate{
		{Correct: 50, DurationMs: 60000},
		{Correct: 40, Incorrect: 10, DurationMs: 60000},
	}}
	m, _ := newTestModel("abcd", rounds)
	press(m, runeKey('a'))
	out := m.renderFooter()
	for _, want := range []string{"Progress 25%", "Last 8.0 WPM", "80.0%", "All-time 9.0 WPM", "90.0%"} {
		if !strings.Contains(out, want) {
			t.Fatalf("footer missing %q: %s", want, out)
		}
	}
}

func TestCtrlHUndoes(t *testing.T) {
	m, _ := newTestModel("ab", &fakeRounds{})
	press(m, runeKey('x'), tea.KeyMsg{Type: tea.KeyCtrlH})
	if m.engine.Cursor() != 0 {
		t.Fatalf("expected ctrl+h to act as backspace, cursor %d", m.engine.Cursor())
	}
}

func TestZeroPairsShownListsEveryPair(t *testing.T) {
	errs := errmodel.New(errmodel.DefaultParams())
	engine := practice.NewEngine(errs, fixedGen("abc"))
	m := NewModel(model.Config{}, engine, errs, &fakeRounds{}, nil)
	press(m, runeKey('x'), runeKey('y'), runeKey('z'))

	out := m.renderPairs()
	for _, want := range []string{"a -> x (1)", "b -> y (1)", "c -> z (1)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("pairs missing %q:\n%s", want, out)
		}
	}
}
