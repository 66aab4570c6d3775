package ui

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"chatterm/config"
	"chatterm/model"
)

// dispatchTimeout bounds the hand-off of one intent to the controller loop.
const dispatchTimeout = 2 * time.Second

// writeClipboard is swapped out in tests.
var writeClipboard = clipboard.WriteAll

func (a AppView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.layout()
		a.ready = true
		a.updateViewportContent(true)
		return a, nil

	case stateMsg:
		// Snapshots can queue up behind a dispatch; always show the newest one
		wasBusy := a.state.Busy
		a.state = a.conv.State()
		a.updateViewportContent(true)
		cmds = append(cmds, waitForState(a.updates))
		if a.state.Busy && !wasBusy {
			cmds = append(cmds, a.loadingSpinner.Tick)
		}
		return a, tea.Batch(cmds...)

	case subscriptionClosedMsg:
		if config.DebugLog != nil {
			config.DebugLog.Printf("[UI] Controller subscription closed, quitting")
		}
		return a, tea.Quit

	case spinner.TickMsg:
		// Let the tick chain end once the request has finished
		if !a.state.Busy {
			return a, nil
		}
		var cmd tea.Cmd
		a.loadingSpinner, cmd = a.loadingSpinner.Update(msg)
		a.updateViewportContent(true)
		return a, cmd

	case tea.KeyMsg:
		if key.Matches(msg, a.keys.Quit) {
			a.cancel()
			return a, tea.Quit
		}
		if key.Matches(msg, a.keys.Settings) {
			a.toggleSettingsPanel()
			return a, nil
		}
		if a.state.PanelVisible {
			return a.handlePanelKey(msg)
		}
		return a.handleChatKey(msg)
	}

	// Forward everything else (cursor blink, mouse) to the input and viewport
	var cmd tea.Cmd
	a.textarea, cmd = a.textarea.Update(msg)
	cmds = append(cmds, cmd)
	a.viewport, cmd = a.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

func (a AppView) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a.notice = ""

	switch {
	case key.Matches(msg, a.keys.Send):
		// Push the exact draft first so Send sees what is on screen
		a.dispatch(model.UpdateInput{Text: a.textarea.Value()})
		a.dispatch(model.Send{})
		a.textarea.SetValue(a.state.Draft)
		a.updateViewportContent(true)
		if a.state.Busy {
			return a, a.loadingSpinner.Tick
		}
		return a, nil

	case key.Matches(msg, a.keys.Clear):
		a.dispatch(model.ClearChat{})
		a.updateViewportContent(true)
		return a, nil

	case key.Matches(msg, a.keys.CheckConnection):
		a.dispatch(model.CheckConnection{})
		return a, nil

	case key.Matches(msg, a.keys.CycleMode):
		a.dispatch(model.UpdateSetting{Update: model.SetPromptMode{Mode: a.state.Settings.PromptMode.Next()}})
		return a, nil

	case key.Matches(msg, a.keys.CycleFormat):
		a.dispatch(model.UpdateSetting{Update: model.SetResponseFormat{Format: a.state.Settings.ResponseFormat.Next()}})
		return a, nil

	case key.Matches(msg, a.keys.CopyLast):
		if last, ok := a.state.LastAssistantMessage(); ok {
			a.copyToClipboard(displayContent(last.Content), "Copied last reply")
		} else {
			a.notice = "No reply to copy yet"
		}
		return a, nil

	case key.Matches(msg, a.keys.CopyAll):
		if len(a.state.Transcript) == 0 {
			a.notice = "Nothing to copy yet"
			return a, nil
		}
		a.copyToClipboard(formatTranscript(a.state.Transcript), "Copied conversation")
		return a, nil

	case key.Matches(msg, a.keys.ScrollUp):
		a.viewport.HalfPageUp()
		return a, nil

	case key.Matches(msg, a.keys.ScrollDown):
		a.viewport.HalfPageDown()
		return a, nil
	}

	before := a.textarea.Value()
	var cmd tea.Cmd
	a.textarea, cmd = a.textarea.Update(msg)
	if after := a.textarea.Value(); after != before {
		a.dispatch(model.UpdateInput{Text: after})
	}
	return a, cmd
}

func (a AppView) handlePanelKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "esc":
		a.toggleSettingsPanel()
		return a, nil
	case key.Matches(msg, a.keys.NextField):
		a.panel.setFocus(a.panel.focus + 1)
		return a, nil
	case key.Matches(msg, a.keys.PrevField):
		a.panel.setFocus(a.panel.focus - 1)
		return a, nil
	case key.Matches(msg, a.keys.CycleMode):
		a.dispatch(model.UpdateSetting{Update: cycleUpdate(fieldPromptMode, a.state.Settings)})
		return a, nil
	case key.Matches(msg, a.keys.CycleFormat):
		a.dispatch(model.UpdateSetting{Update: cycleUpdate(fieldResponseFormat, a.state.Settings)})
		return a, nil
	}

	var update model.SettingUpdate
	var cmd tea.Cmd
	a.panel, update, cmd = a.panel.update(msg, a.state.Settings)
	if update != nil {
		a.dispatch(model.UpdateSetting{Update: update})
	}
	return a, cmd
}

func (a *AppView) toggleSettingsPanel() {
	a.dispatch(model.ToggleSettingsPanel{})
	if a.state.PanelVisible {
		a.panel.load(a.state.Settings)
		a.textarea.Blur()
	} else {
		a.textarea.Focus()
	}
}

// dispatch hands intent to the controller and refreshes the local snapshot so the
// synchronous effect is visible before the next key is handled.
func (a *AppView) dispatch(intent model.Intent) {
	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	if err := a.conv.Dispatch(ctx, intent); err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[UI] Dispatch %T failed: %v", intent, err)
		}
		a.notice = "Controller unavailable: " + err.Error()
		return
	}
	a.state = a.conv.State()
}

func (a *AppView) copyToClipboard(text, success string) {
	if err := writeClipboard(text); err != nil {
		a.notice = "Clipboard unavailable: " + err.Error()
		return
	}
	a.notice = success
}
