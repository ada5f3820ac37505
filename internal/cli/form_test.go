package cli

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Harsh-BH/fieldtools/internal/domain"
)

func typeText(m tea.Model, s string) tea.Model {
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

func press(m tea.Model, k tea.KeyType) (tea.Model, tea.Cmd) {
	return m.Update(tea.KeyMsg{Type: k})
}

func TestForm_FillAndSubmit(t *testing.T) {
	var m tea.Model = newFormModel()
	values := []string{"42", "Jose", "567 D St", "Low Light", "Replaced bulb", "good", "2025-11-17 16:00", "2025-11-17 16:45"}

	var cmd tea.Cmd
	for _, v := range values {
		m = typeText(m, v)
		m, cmd = press(m, tea.KeyEnter)
	}

	fm := m.(formModel)
	require.True(t, fm.submitted)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	assert.Equal(t, domain.RawFields{
		ID:         "42",
		TechName:   "Jose",
		Address:    "567 D St",
		Issue:      "Low Light",
		Resolution: "Replaced bulb",
		Signal:     "good",
		StartTime:  "2025-11-17 16:00",
		EndTime:    "2025-11-17 16:45",
	}, fm.Fields())
}

func TestForm_Navigation(t *testing.T) {
	var m tea.Model = newFormModel()

	m, _ = press(m, tea.KeyShiftTab)
	assert.Equal(t, len(formFields)-1, m.(formModel).focus, "shift+tab wraps to the last field")

	m, _ = press(m, tea.KeyTab)
	assert.Equal(t, 0, m.(formModel).focus)

	m, _ = press(m, tea.KeyDown)
	m = typeText(m, "Ana")
	assert.Equal(t, "Ana", m.(formModel).Fields().TechName)
	assert.False(t, m.(formModel).submitted)
}

func TestForm_Cancel(t *testing.T) {
	var m tea.Model = newFormModel()
	m = typeText(m, "partial")

	m, cmd := press(m, tea.KeyEsc)
	fm := m.(formModel)
	assert.True(t, fm.cancelled)
	assert.False(t, fm.submitted)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestForm_View(t *testing.T) {
	view := newFormModel().View()
	for _, f := range formFields {
		assert.Contains(t, view, f.label)
	}
}
