package ui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatterm/model"
	"chatterm/provider/testutil"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

func startView(t *testing.T, completer model.Completer) (AppView, *model.Controller, *testutil.RecordingStore) {
	t.Helper()

	store := testutil.NewRecordingStore(nil)
	ctrl := model.NewController(completer, store)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = ctrl.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	view := NewAppView(ctrl, ProviderInfo{Name: "Mock", Model: "mock-1"})
	next, _ := view.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(AppView), ctrl, store
}

func press(t *testing.T, a AppView, msgs ...tea.KeyMsg) AppView {
	t.Helper()
	for _, msg := range msgs {
		next, _ := a.Update(msg)
		a = next.(AppView)
	}
	return a
}

func typeText(t *testing.T, a AppView, text string) AppView {
	t.Helper()
	for _, r := range text {
		a = press(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return a
}

// settle waits for the controller to go idle and feeds the newest snapshot to the view.
func settle(t *testing.T, a AppView, ctrl *model.Controller) AppView {
	t.Helper()
	require.Eventually(t, func() bool { return !ctrl.State().Busy }, waitFor, tick)
	next, _ := a.Update(stateMsg{State: ctrl.State()})
	return next.(AppView)
}

func stubClipboard(t *testing.T, err error) *string {
	t.Helper()
	var copied string
	orig := writeClipboard
	writeClipboard = func(text string) error {
		if err != nil {
			return err
		}
		copied = text
		return nil
	}
	t.Cleanup(func() { writeClipboard = orig })
	return &copied
}

func TestAppView_TypingUpdatesDraft(t *testing.T) {
	a, ctrl, _ := startView(t, testutil.NewMockCompleter("unused"))

	a = typeText(t, a, "hi")

	assert.Equal(t, "hi", a.textarea.Value())
	assert.Equal(t, "hi", ctrl.State().Draft)
}

func TestAppView_SendShowsReply(t *testing.T) {
	mock := testutil.NewMockCompleter("Hello from the mock")
	a, ctrl, _ := startView(t, mock)

	a = typeText(t, a, "hello")
	a = press(t, a, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Empty(t, a.textarea.Value())

	a = settle(t, a, ctrl)

	require.Len(t, a.state.Transcript, 2)
	assert.Equal(t, "hello", a.state.Transcript[0].Content)
	assert.Equal(t, "Hello from the mock", a.state.Transcript[1].Content)
	assert.Contains(t, a.View(), "Hello from the mock")
	assert.Equal(t, 1, mock.CallCount())
}

func TestAppView_EmptySendIsIgnored(t *testing.T) {
	mock := testutil.NewMockCompleter("unused")
	a, ctrl, _ := startView(t, mock)

	a = typeText(t, a, "   ")
	a = press(t, a, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Empty(t, ctrl.State().Transcript)
	assert.False(t, ctrl.State().Busy)
	assert.Equal(t, "   ", a.textarea.Value())
	assert.Zero(t, mock.CallCount())
}

func TestAppView_FailureShowsErrorLine(t *testing.T) {
	a, ctrl, _ := startView(t, testutil.NewFailingCompleter("boom"))

	a = typeText(t, a, "hello")
	a = press(t, a, tea.KeyMsg{Type: tea.KeyEnter})
	a = settle(t, a, ctrl)

	assert.Equal(t, "boom", a.state.LastError)
	assert.Contains(t, a.View(), "Error: boom")
}

func TestAppView_ClearChat(t *testing.T) {
	a, ctrl, _ := startView(t, testutil.NewMockCompleter("reply"))

	a = typeText(t, a, "hello")
	a = press(t, a, tea.KeyMsg{Type: tea.KeyEnter})
	a = settle(t, a, ctrl)
	require.Len(t, a.state.Transcript, 2)

	a = press(t, a, tea.KeyMsg{Type: tea.KeyCtrlL})

	assert.Empty(t, a.state.Transcript)
	assert.Contains(t, a.View(), "No messages yet")
}

func TestAppView_SettingsPanelEditsAreSaved(t *testing.T) {
	a, ctrl, store := startView(t, testutil.NewMockCompleter("unused"))

	a = press(t, a, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.True(t, a.state.PanelVisible)
	assert.Contains(t, a.View(), "Settings")

	// Focus moves from prompt mode to the system prompt field
	a = press(t, a, tea.KeyMsg{Type: tea.KeyTab})
	a = typeText(t, a, "!")

	want := model.DefaultSystemPrompt + "!"
	assert.Equal(t, want, ctrl.State().Settings.SystemPrompt)
	saved := store.Saved()
	require.NotEmpty(t, saved)
	assert.Equal(t, want, saved[len(saved)-1].SystemPrompt)

	a = press(t, a, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, a.state.PanelVisible)
}

func TestAppView_CycleModeFromChat(t *testing.T) {
	a, ctrl, _ := startView(t, testutil.NewMockCompleter("unused"))

	a = press(t, a, tea.KeyMsg{Type: tea.KeyCtrlF})

	assert.Equal(t, model.PromptModeTemplated, ctrl.State().Settings.PromptMode)
	assert.Contains(t, a.renderTitle(), "Templated")
}

func TestAppView_CopyLastReply(t *testing.T) {
	copied := stubClipboard(t, nil)
	a, ctrl, _ := startView(t, testutil.NewMockCompleter("copy me"))

	a = press(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y"), Alt: true})
	assert.Equal(t, "No reply to copy yet", a.notice)

	a = typeText(t, a, "hello")
	a = press(t, a, tea.KeyMsg{Type: tea.KeyEnter})
	a = settle(t, a, ctrl)
	a = press(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y"), Alt: true})

	assert.Equal(t, "copy me", *copied)
	assert.Equal(t, "Copied last reply", a.notice)
}

func TestAppView_CopyAllClipboardError(t *testing.T) {
	stubClipboard(t, errors.New("no display"))
	a, ctrl, _ := startView(t, testutil.NewMockCompleter("reply"))

	a = typeText(t, a, "hello")
	a = press(t, a, tea.KeyMsg{Type: tea.KeyEnter})
	a = settle(t, a, ctrl)
	a = press(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c"), Alt: true})

	assert.Equal(t, "Clipboard unavailable: no display", a.notice)
}

func TestAppView_CheckConnection(t *testing.T) {
	a, ctrl, _ := startView(t, testutil.NewMockCompleter("pong"))

	a = press(t, a, tea.KeyMsg{Type: tea.KeyCtrlT})

	require.Eventually(t, func() bool { return ctrl.State().Connection == model.ConnectionOK }, waitFor, tick)
	next, _ := a.Update(stateMsg{State: ctrl.State()})
	a = next.(AppView)
	assert.Contains(t, a.renderTitle(), "connected")
}

func TestAppView_Quit(t *testing.T) {
	a, _, _ := startView(t, testutil.NewMockCompleter("unused"))

	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestAppView_SubscriptionClosedQuits(t *testing.T) {
	a, _, _ := startView(t, testutil.NewMockCompleter("unused"))

	_, cmd := a.Update(subscriptionClosedMsg{})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestWaitForState(t *testing.T) {
	ch := make(chan model.State, 1)
	ch <- model.State{Draft: "x"}

	assert.Equal(t, stateMsg{State: model.State{Draft: "x"}}, waitForState(ch)())

	close(ch)
	assert.Equal(t, subscriptionClosedMsg{}, waitForState(ch)())
}
