// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/symdrill/internal/errmodel"
	"github.com/verte-zerg/symdrill/internal/model"
	"github.com/verte-zerg/symdrill/internal/practice"
	statsPkg "github.com/verte-zerg/symdrill/internal/stats"
)

// RoundStore records finished rounds and lists past ones.
type RoundStore interface {
	InsertSession(ctx context.Context, stats model.SessionStats, chars []model.CharStats) (int64, error)
	ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error)
}

// PairRanker exposes the ranked confusion pairs.
type PairRanker interface {
	RankedPairs() []errmodel.PairStat
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	config model.Config
	engine *practice.Engine
	pairs  PairRanker
	store  RoundStore
	logger *zap.Logger

	keys keyMap
	help help.Model

	width  int
	height int

	lastWPM float64
	lastAcc float64
	hasLast bool

	allWPM       float64
	allAcc       float64
	allCorrect   int
	allIncorrect int
	allDuration  int64
}

var (
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cursorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Underline(true)
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	headingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0")).Bold(true)
	noticeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
)

// NewModel constructs a typing TUI model.
func NewModel(cfg model.Config, engine *practice.Engine, pairs PairRanker, store RoundStore, logger *zap.Logger) *Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Model{
		config: cfg,
		engine: engine,
		pairs:  pairs,
		store:  store,
		logger: logger,
		keys:   newKeyMap(),
		help:   help.New(),
	}
	m.syncKeys()
	m.loadFooterStats()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		m.handleKey(keyName(msg))
		return m, nil
	default:
		return m, nil
	}
}

func (m *Model) handleKey(name string) {
	wasComplete := m.engine.Complete()
	if !m.engine.HandleKey(name) {
		return
	}
	if !wasComplete && m.engine.Complete() {
		m.finishRound()
	}
	m.syncKeys()
}

func (m *Model) syncKeys() {
	m.keys.Next.SetEnabled(m.engine.Complete())
	m.keys.Undo.SetEnabled(!m.engine.Complete())
}

// View implements tea.Model.
func (m *Model) View() string {
	styled := buildStyledRunes(m.engine.Cells())
	contentWidth := 0
	if m.width > 0 {
		contentWidth = max(1, int(float64(m.width)*0.70))
	}
	sections := []string{wrapStyledRunes(styled, contentWidth)}
	if m.engine.Complete() {
		sections = append(sections, noticeStyle.Render("Enter to continue"))
	}
	sections = append(sections, "", m.renderMistakes(), "", m.renderPairs())
	content := strings.Join(sections, "\n")
	if contentWidth > 0 {
		content = lipgloss.NewStyle().Width(contentWidth).Render(content)
	}

	footer := m.renderFooter() + "\n" + m.help.View(m.keys)
	if m.width == 0 || m.height < 4 {
		return content + "\n\n" + footer
	}
	body := lipgloss.Place(m.width, m.height-2, lipgloss.Center, lipgloss.Center, content)
	footerLines := lipgloss.Place(m.width, 2, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLines
}

func (m *Model) renderMistakes() string {
	lines := []string{headingStyle.Render("Last mistakes:")}
	for _, mk := range m.engine.RecentMistakes() {
		lines = append(lines, fmt.Sprintf("%c -> %c", mk.Expected, mk.Typed))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderPairs() string {
	lines := []string{headingStyle.Render("Error stats:")}
	pairs := m.pairs.RankedPairs()
	if m.config.PairsShown > 0 && len(pairs) > m.config.PairsShown {
		pairs = pairs[:m.config.PairsShown]
	}
	for _, p := range pairs {
		lines = append(lines, fmt.Sprintf("%s (%d)", p.Pair.Key(), p.Tier))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderFooter() string {
	prompt := len(m.engine.Prompt())
	progress := 0
	if prompt > 0 {
		progress = m.engine.Cursor() * 100 / prompt
	}
	segments := []string{fmt.Sprintf("Progress %d%%", progress)}
	if m.hasLast {
		segments = append(segments, fmt.Sprintf("Last %.1f WPM · %.1f%%", m.lastWPM, m.lastAcc*100))
	}
	segments = append(segments, fmt.Sprintf("All-time %.1f WPM · %.1f%%", m.allWPM, m.allAcc*100))
	return footerStyle.Render(strings.Join(segments, "  "))
}

func (m *Model) loadFooterStats() {
	sessions, err := m.store.ListSessions(context.Background(), model.StatsConfig{})
	if err != nil {
		m.logger.Warn("failed to load round history", zap.Error(err))
		return
	}
	if len(sessions) == 0 {
		return
	}
	last := sessions[len(sessions)-1]
	m.lastWPM, _, m.lastAcc = statsPkg.SessionMetrics(last.Correct, last.Incorrect, last.DurationMs)
	m.hasLast = true

	for _, s := range sessions {
		m.allCorrect += s.Correct
		m.allIncorrect += s.Incorrect
		m.allDuration += s.DurationMs
	}
	m.recomputeAllTime()
}

func (m *Model) recomputeAllTime() {
	m.allWPM, _, m.allAcc = statsPkg.SessionMetrics(m.allCorrect, m.allIncorrect, m.allDuration)
}

func (m *Model) finishRound() {
	round, ok := m.engine.RoundResult()
	if !ok {
		return
	}
	stats := round.Stats
	if _, err := m.store.InsertSession(context.Background(), stats, round.Chars); err != nil {
		m.logger.Error("failed to save round", zap.Error(err))
	}
	m.lastWPM, _, m.lastAcc = statsPkg.SessionMetrics(stats.Correct, stats.Incorrect, stats.DurationMs)
	m.hasLast = true
	m.allCorrect += stats.Correct
	m.allIncorrect += stats.Incorrect
	m.allDuration += stats.DurationMs
	m.recomputeAllTime()
	m.logger.Info("round finished",
		zap.Int("correct", stats.Correct),
		zap.Int("incorrect", stats.Incorrect),
		zap.Int64("duration_ms", stats.DurationMs))
}
