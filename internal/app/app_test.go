package app

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/practiz/internal/router"
	"github.com/abhisek/practiz/internal/screen"
	"github.com/abhisek/practiz/internal/selection"
	"github.com/abhisek/practiz/internal/ui/layout"
)

type stubScreen struct {
	closed bool
}

func (s *stubScreen) Init() tea.Cmd                          { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                   { return "stub body" }
func (s *stubScreen) Title() string                          { return "Stub" }
func (s *stubScreen) Close()                                 { s.closed = true }

func (s *stubScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "X", Description: "Do it"}}
}

func TestStartScreenIsPushedAboveHome(t *testing.T) {
	start := &stubScreen{}
	m := newAppModel(Options{Selection: selection.Config{Limit: 10}, Start: start})

	cmd := m.Init()
	require.NotNil(t, cmd)
	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)

	for _, c := range batch {
		if c == nil {
			continue
		}
		if push, ok := c().(router.PushScreenMsg); ok {
			m.Update(push)
		}
	}
	require.Equal(t, 2, m.router.Depth())

	assert.Equal(t, "stub body", m.router.View(100, 30))
	assert.Equal(t, []layout.KeyHint{
		{Key: "X", Description: "Do it"},
		{Key: "Ctrl+C", Description: "Quit"},
	}, m.footerHints(m.router.Active()))

	_, cmd = m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	require.NotNil(t, cmd)
	m.Update(cmd())
	assert.Equal(t, 1, m.router.Depth())
	assert.True(t, start.closed)
}

func TestEscOnHomeDoesNothing(t *testing.T) {
	m := newAppModel(Options{Selection: selection.Config{Limit: 10}})
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.Nil(t, cmd)
	assert.Equal(t, 1, m.router.Depth())
	assert.Equal(t, "Navigate", m.footerHints(m.router.Active())[0].Description)
}
