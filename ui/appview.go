package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"chatterm/model"
)

// Conversation is the controller surface the UI needs: it emits intents and
// reads snapshots, nothing else.
type Conversation interface {
	Dispatch(ctx context.Context, intent model.Intent) error
	Subscribe() (<-chan model.State, func())
	State() model.State
}

// ProviderInfo describes the completion service for the title bar.
type ProviderInfo struct {
	Name  string
	Model string
}

type AppView struct {
	conv     Conversation
	provider ProviderInfo
	keys     keyMap

	// Latest snapshot received from the controller
	state   model.State
	updates <-chan model.State
	cancel  func()

	viewport       viewport.Model
	textarea       textarea.Model
	loadingSpinner spinner.Model
	panel          settingsPanel
	cache          renderCache

	// Transient status line message (clipboard results, dispatch failures)
	notice string

	width  int
	height int
	ready  bool
}

func NewAppView(conv Conversation, provider ProviderInfo) AppView {
	ta := textarea.New()
	ta.Placeholder = "Type your message here..."
	ta.Focus()
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.SetWidth(80)

	// Alt+Enter inserts a newline, Enter alone is handled as Send
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter"))

	ta.SetPromptFunc(2, func(lineIdx int) string {
		if lineIdx == 0 {
			return "> "
		}
		return "| "
	})

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = AssistantStyle

	updates, cancel := conv.Subscribe()
	state := conv.State()
	ta.SetValue(state.Draft)

	panel := newSettingsPanel()
	panel.load(state.Settings)

	return AppView{
		conv:           conv,
		provider:       provider,
		keys:           defaultKeyMap(),
		state:          state,
		updates:        updates,
		cancel:         cancel,
		viewport:       viewport.New(0, 0),
		textarea:       ta,
		loadingSpinner: sp,
		panel:          panel,
		cache:          make(renderCache),
	}
}

func (a AppView) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		waitForState(a.updates),
	)
}

func (a AppView) View() string {
	if !a.ready {
		return "Loading chatterm..."
	}

	if a.state.PanelVisible {
		return a.panel.view(a.state.Settings, a.keys, a.width, a.height)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		a.renderTitle(),
		"",
		a.viewport.View(),
		a.renderErrorLine(),
		a.textarea.View(),
		a.renderStatusBar(),
	)
}

func (a AppView) renderTitle() string {
	name := AssistantStyle.Render("chatterm")
	providerText := a.provider.Name
	if a.provider.Model != "" {
		providerText = fmt.Sprintf("%s (%s)", a.provider.Name, a.provider.Model)
	}
	modeText := promptModeLabel(a.state.Settings.PromptMode)
	if a.state.Settings.PromptMode == model.PromptModeTemplated {
		modeText += ", " + responseFormatLabel(a.state.Settings.ResponseFormat)
	}

	title := name + TitleStyle.Render(" - "+providerText) + DimStyle.Render(" | "+modeText)
	if conn := connectionBadge(a.state); conn != "" {
		title += DimStyle.Render(" | ") + conn
	}
	return title
}

// connectionBadge summarizes the last connection check.
func connectionBadge(s model.State) string {
	switch s.Connection {
	case model.ConnectionChecking:
		return DimStyle.Render("checking connection...")
	case model.ConnectionOK:
		return OKStyle.Render("connected")
	case model.ConnectionFailed:
		return ErrorStyle.Render("connection failed: " + s.ConnectionReply)
	default:
		return ""
	}
}

func (a AppView) renderErrorLine() string {
	if !a.state.HasError() {
		return ""
	}
	return ErrorStyle.Render(truncate("Error: "+a.state.LastError, a.width))
}

func (a AppView) renderStatusBar() string {
	if a.notice != "" {
		return StatusStyle.Render(truncate(a.notice, a.width))
	}
	return StatusStyle.Render(footer(
		a.keys.Send, a.keys.Newline, a.keys.Clear, a.keys.Settings,
		a.keys.CheckConnection, a.keys.CopyLast, a.keys.Quit,
	))
}

// layout sizes the components for the current window.
func (a *AppView) layout() {
	// title (1), blank line (1), error line (1), textarea (3), status bar (1)
	a.viewport.Width = a.width
	a.viewport.Height = max(a.height-7, 1)
	a.textarea.SetWidth(a.width)
}

func (a *AppView) updateViewportContent(gotoBottom bool) {
	a.viewport.SetContent(renderTranscript(
		a.state.Transcript, a.width, a.cache, a.state.Busy, a.loadingSpinner.View(),
	))
	if gotoBottom {
		a.viewport.GotoBottom()
	}
}
