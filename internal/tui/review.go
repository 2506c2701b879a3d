// Package tui implements the interactive duplicate-review screen. Flagged
// transactions are listed with their best existing matches; the user
// chooses per transaction whether to import it anyway or skip it.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ledgersift/ledgersift/internal/model"
)

// Decision is the user's verdict on one flagged transaction.
type Decision int

const (
	// DecisionUndecided means the user hasn't chosen yet; treated as
	// skip when the review finishes.
	DecisionUndecided Decision = iota
	// DecisionKeep imports the transaction despite the match.
	DecisionKeep
	// DecisionSkip drops the transaction.
	DecisionSkip
)

// ReviewItem is one flagged transaction with its candidate matches,
// sorted by similarity descending.
type ReviewItem struct {
	Transaction model.ParsedTransaction
	Matches     []model.DuplicateMatch
	Decision    Decision
}

// ReviewModel is the bubbletea model for the review screen.
type ReviewModel struct {
	items    []ReviewItem
	cursor   int
	keys     KeyMap
	styles   Styles
	finished bool
	aborted  bool
}

// NewReview builds a review model over the flagged transactions.
func NewReview(items []ReviewItem) ReviewModel {
	return ReviewModel{
		items:  items,
		keys:   DefaultKeyMap(),
		styles: DefaultStyles(),
	}
}

// Init implements tea.Model.
func (m ReviewModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.aborted = true
		return m, tea.Quit

	case key.Matches(keyMsg, m.keys.Accept):
		m.finished = true
		return m, tea.Quit

	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case key.Matches(keyMsg, m.keys.Keep):
		if len(m.items) > 0 {
			m.items[m.cursor].Decision = DecisionKeep
			m.advance()
		}

	case key.Matches(keyMsg, m.keys.Skip):
		if len(m.items) > 0 {
			m.items[m.cursor].Decision = DecisionSkip
			m.advance()
		}
	}

	return m, nil
}

func (m *ReviewModel) advance() {
	if m.cursor < len(m.items)-1 {
		m.cursor++
	}
}

// View implements tea.Model.
func (m ReviewModel) View() string {
	if len(m.items) == 0 {
		return m.styles.Title.Render("No duplicates to review") + "\n"
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render(
		fmt.Sprintf("Review %d possible duplicates", len(m.items))))
	b.WriteString("\n")

	for i, item := range m.items {
		line := fmt.Sprintf("%s  %-40.40s  %10.2f",
			item.Transaction.Date.Format("2006-01-02"),
			item.Transaction.Description,
			item.Transaction.Amount)

		style := m.styles.Normal
		switch item.Decision {
		case DecisionKeep:
			style = m.styles.Kept
		case DecisionSkip:
			style = m.styles.Skipped
		case DecisionUndecided:
		}
		if i == m.cursor {
			style = m.styles.Selected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")

		if i == m.cursor {
			for _, match := range item.Matches {
				b.WriteString(m.styles.Match.Render(
					fmt.Sprintf("matches %s (%.0f%%)",
						match.ExistingTransactionID, match.Similarity*100)))
				b.WriteString("\n")
			}
		}
	}

	b.WriteString(m.styles.Help.Render(
		"i import anyway • s skip • ↑/↓ move • enter finish • q abort"))
	b.WriteString("\n")
	return b.String()
}

// Decisions returns the per-item verdicts. Undecided items are skips.
func (m ReviewModel) Decisions() []Decision {
	decisions := make([]Decision, len(m.items))
	for i, item := range m.items {
		if item.Decision == DecisionUndecided {
			decisions[i] = DecisionSkip
			continue
		}
		decisions[i] = item.Decision
	}
	return decisions
}

// Aborted reports whether the user quit without finishing.
func (m ReviewModel) Aborted() bool {
	return m.aborted
}

// RunReview runs the review screen and returns the decisions in item
// order. An aborted review skips everything.
func RunReview(items []ReviewItem) ([]Decision, error) {
	if len(items) == 0 {
		return nil, nil
	}

	program := tea.NewProgram(NewReview(items))
	final, err := program.Run()
	if err != nil {
		return nil, fmt.Errorf("duplicate review failed: %w", err)
	}

	result, ok := final.(ReviewModel)
	if !ok || result.Aborted() {
		decisions := make([]Decision, len(items))
		for i := range decisions {
			decisions[i] = DecisionSkip
		}
		return decisions, nil
	}
	return result.Decisions(), nil
}
