package ui

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"chatterm/model"
)

type panelField int

const (
	fieldPromptMode panelField = iota
	fieldSystemPrompt
	fieldStopWord
	fieldResponseFormat
	fieldMaxTokens
	fieldTemperature
	fieldCount
)

var fieldLabels = [fieldCount]string{
	fieldPromptMode:     "Prompt mode",
	fieldSystemPrompt:   "System prompt",
	fieldStopWord:       "Stop word",
	fieldResponseFormat: "Response format",
	fieldMaxTokens:      "Max tokens",
	fieldTemperature:    "Temperature",
}

var errInvalidTemperature = errors.New("temperature must be a number")

func (f panelField) isChoice() bool {
	return f == fieldPromptMode || f == fieldResponseFormat
}

// settingsPanel edits Settings. Text fields are edited in place and every change
// is turned into one SettingUpdate.
type settingsPanel struct {
	focus    panelField
	inputs   [fieldCount]textinput.Model
	fieldErr string
}

func newSettingsPanel() settingsPanel {
	var p settingsPanel
	for i := range p.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 0
		p.inputs[i] = ti
	}
	p.inputs[fieldStopWord].CharLimit = 64
	p.inputs[fieldMaxTokens].CharLimit = 9
	p.inputs[fieldMaxTokens].Placeholder = "unlimited"
	p.inputs[fieldTemperature].CharLimit = 5
	return p
}

// load copies s into the text fields.
func (p *settingsPanel) load(s model.Settings) {
	p.inputs[fieldSystemPrompt].SetValue(s.SystemPrompt)
	p.inputs[fieldStopWord].SetValue(s.StopWord)
	p.inputs[fieldMaxTokens].SetValue(s.MaxTokensRaw)
	p.inputs[fieldTemperature].SetValue(strconv.FormatFloat(s.Temperature, 'g', -1, 64))
	p.fieldErr = ""
	p.setFocus(p.focus)
}

func (p *settingsPanel) setFocus(f panelField) {
	p.focus = (f + fieldCount) % fieldCount
	for i := range p.inputs {
		p.inputs[i].Blur()
	}
	if !p.focus.isChoice() {
		p.inputs[p.focus].Focus()
		p.inputs[p.focus].CursorEnd()
	}
}

// update routes a key press to the focused field and reports the resulting
// setting change, if any.
func (p settingsPanel) update(msg tea.KeyMsg, current model.Settings) (settingsPanel, model.SettingUpdate, tea.Cmd) {
	if p.focus.isChoice() {
		switch msg.String() {
		case "enter", " ", "left", "right", "h", "l":
			return p, cycleUpdate(p.focus, current), nil
		}
		return p, nil, nil
	}

	before := p.inputs[p.focus].Value()
	var cmd tea.Cmd
	p.inputs[p.focus], cmd = p.inputs[p.focus].Update(msg)
	after := p.inputs[p.focus].Value()
	if after == before {
		return p, nil, cmd
	}

	update, err := textUpdate(p.focus, after)
	if err != nil {
		p.fieldErr = err.Error()
		return p, nil, cmd
	}
	p.fieldErr = ""
	return p, update, cmd
}

// cycleUpdate flips a choice field to its other value.
func cycleUpdate(f panelField, current model.Settings) model.SettingUpdate {
	switch f {
	case fieldPromptMode:
		return model.SetPromptMode{Mode: current.PromptMode.Next()}
	case fieldResponseFormat:
		return model.SetResponseFormat{Format: current.ResponseFormat.Next()}
	default:
		return nil
	}
}

// textUpdate converts an edited text field into a SettingUpdate.
// An empty or unparsable temperature is rejected and leaves the setting unchanged.
func textUpdate(f panelField, value string) (model.SettingUpdate, error) {
	switch f {
	case fieldSystemPrompt:
		return model.SetSystemPrompt{Text: value}, nil
	case fieldStopWord:
		return model.SetStopWord{Word: value}, nil
	case fieldMaxTokens:
		return model.SetMaxTokens{Raw: value}, nil
	case fieldTemperature:
		t, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || math.IsNaN(t) || math.IsInf(t, 0) {
			return nil, errInvalidTemperature
		}
		return model.SetTemperature{Value: t}, nil
	default:
		return nil, fmt.Errorf("field %d is not a text field", f)
	}
}

func promptModeLabel(m model.PromptMode) string {
	if m == model.PromptModeTemplated {
		return "Templated"
	}
	return "Free form"
}

func responseFormatLabel(f model.ResponseFormat) string {
	if f == model.ResponseFormatStructured {
		return "Structured (JSON)"
	}
	return "Plain text"
}

func (p settingsPanel) view(s model.Settings, keys keyMap, width, height int) string {
	boxWidth := min(max(width-4, 40), 100)
	for i := range p.inputs {
		p.inputs[i].Width = boxWidth - 24
	}

	labelStyle := lipgloss.NewStyle().Width(18)
	var rows []string

	for f := panelField(0); f < fieldCount; f++ {
		label := fieldLabels[f]
		var value string
		switch f {
		case fieldPromptMode:
			value = "< " + promptModeLabel(s.PromptMode) + " >"
		case fieldResponseFormat:
			value = "< " + responseFormatLabel(s.ResponseFormat) + " >"
		default:
			value = p.inputs[f].View()
		}

		cursor := "  "
		if f == p.focus {
			cursor = SelectedStyle.Render("> ")
			label = SelectedStyle.Render(label)
		}

		row := cursor + labelStyle.Render(label) + value
		if f == fieldSystemPrompt && s.PromptMode == model.PromptModeTemplated {
			row += DimStyle.Render("  (unused in templated mode)")
		}
		if f == fieldResponseFormat && s.PromptMode != model.PromptModeTemplated {
			row += DimStyle.Render("  (templated mode only)")
		}
		rows = append(rows, row)
	}

	if p.fieldErr != "" {
		rows = append(rows, "", ErrorStyle.Render(p.fieldErr))
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		HighlightStyle.Render("Settings"),
		"",
		lipgloss.JoinVertical(lipgloss.Left, rows...),
		"",
		footer(keys.NextField, keys.PrevField, keys.CycleMode, keys.CycleFormat, keys.Settings),
	)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		PanelStyle.Width(boxWidth).Render(content))
}
