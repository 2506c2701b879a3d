package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgersift/ledgersift/internal/model"
)

func testItems() []ReviewItem {
	return []ReviewItem{
		{
			Transaction: model.ParsedTransaction{
				Date:        time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
				Description: "SAFEWAY STORE 123",
				Amount:      -82.17,
			},
			Matches: []model.DuplicateMatch{
				{ExistingTransactionID: "tx-1", Similarity: 0.95},
			},
		},
		{
			Transaction: model.ParsedTransaction{
				Date:        time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC),
				Description: "COFFEE SHOP",
				Amount:      -4.50,
			},
			Matches: []model.DuplicateMatch{
				{ExistingTransactionID: "tx-2", Similarity: 0.88},
			},
		},
	}
}

func press(m tea.Model, keys ...string) tea.Model {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m, _ = m.Update(msg)
	}
	return m
}

func TestReviewModel_Decisions(t *testing.T) {
	m := press(NewReview(testItems()), "i", "s", "enter")

	result, ok := m.(ReviewModel)
	require.True(t, ok)
	assert.False(t, result.Aborted())
	assert.Equal(t, []Decision{DecisionKeep, DecisionSkip}, result.Decisions())
}

func TestReviewModel_UndecidedBecomesSkip(t *testing.T) {
	m := press(NewReview(testItems()), "i", "enter")

	result, ok := m.(ReviewModel)
	require.True(t, ok)
	assert.Equal(t, []Decision{DecisionKeep, DecisionSkip}, result.Decisions())
}

func TestReviewModel_CursorMovement(t *testing.T) {
	m := press(NewReview(testItems()), "down", "up", "up", "s", "enter")

	result, ok := m.(ReviewModel)
	require.True(t, ok)
	// Cursor clamped at the top, so the skip applied to the first item.
	assert.Equal(t, []Decision{DecisionSkip, DecisionSkip}, result.Decisions())
}

func TestReviewModel_Abort(t *testing.T) {
	m := press(NewReview(testItems()), "q")

	result, ok := m.(ReviewModel)
	require.True(t, ok)
	assert.True(t, result.Aborted())
}

func TestReviewModel_ViewShowsMatches(t *testing.T) {
	m := NewReview(testItems())
	view := m.View()
	assert.Contains(t, view, "SAFEWAY STORE 123")
	assert.Contains(t, view, "tx-1")
	assert.Contains(t, view, "95%")
}

func TestReviewModel_EmptyView(t *testing.T) {
	m := NewReview(nil)
	assert.Contains(t, m.View(), "No duplicates to review")
}
