package ui

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	markdown "github.com/MichaelMure/go-term-markdown"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"
	"github.com/mattn/go-runewidth"

	"chatterm/config"
	"chatterm/model"
)

var (
	inlineCodeRegex = regexp.MustCompile(`(?s)\x1b\[44;3m(.*?)\x1b\[0m`)
	mdLinkRegex     = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^\)]+)\)`)
)

const waitingText = "Waiting for response..."

// roleLabel is the display name for a message role.
func roleLabel(role model.Role) string {
	switch role {
	case model.RoleUser:
		return "You"
	case model.RoleAssistant:
		return "Assistant"
	default:
		return "System"
	}
}

// displayContent returns the text shown for an assistant reply. Structured replies
// show only their assistant_message; anything else is shown as-is.
func displayContent(content string) string {
	if reply, ok := model.ParseStructuredReply(content); ok {
		return reply.AssistantMessage
	}
	return content
}

// renderCache memoizes rendered assistant replies. Messages are immutable, so the
// timestamp, the content and the width identify a rendering.
type renderCache map[string]string

func (c renderCache) key(msg model.Message, width int) string {
	return fmt.Sprintf("%d:%d:%d", msg.Timestamp.UnixNano(), width, len(msg.Content))
}

func (c renderCache) render(msg model.Message, width int) string {
	k := c.key(msg, width)
	if rendered, ok := c[k]; ok {
		return rendered
	}
	rendered := renderMarkdown(displayContent(msg.Content), width)
	c[k] = rendered
	return rendered
}

// renderTranscript lays out the conversation for the viewport.
func renderTranscript(messages []model.Message, width int, cache renderCache, busy bool, spinnerView string) string {
	if len(messages) == 0 && !busy {
		return DimStyle.Render("No messages yet. Start chatting!")
	}

	var content strings.Builder

	for _, msg := range messages {
		timestamp := DimStyle.Render(msg.Timestamp.Format("[15:04]"))

		switch msg.Role {
		case model.RoleUser:
			content.WriteString(formatUserMessage(timestamp, UserStyle.Render(roleLabel(msg.Role)), msg.Content))
		case model.RoleAssistant:
			fmt.Fprintf(&content, "%s %s\n%s\n\n", timestamp, AssistantStyle.Render(roleLabel(msg.Role)), cache.render(msg, width))
		default:
			fmt.Fprintf(&content, "%s %s\n%s\n\n", timestamp, DimStyle.Render(roleLabel(msg.Role)), msg.Content)
		}
	}

	if busy {
		fmt.Fprintf(&content, "%s %s\n", spinnerView, DimStyle.Render(waitingText))
	}

	return content.String()
}

func formatUserMessage(timestamp, role, content string) string {
	bar := UserStyle.Render("┃")

	var result strings.Builder
	fmt.Fprintf(&result, "%s %s %s\n", bar, timestamp, role)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(&result, "%s %s\n", bar, line)
	}

	result.WriteString("\n")
	return result.String()
}

// renderMarkdown renders content for a terminal of the given width.
func renderMarkdown(content string, width int) string {
	if width < 20 {
		width = 20
	}
	start := time.Now()

	// Keep URLs plain so terminal emulators can detect them
	content = mdLinkRegex.ReplaceAllString(content, "$2")
	p := parser.NewWithExtensions(markdown.Extensions() &^ parser.Autolink)
	r := markdown.NewRenderer(width-4, 0)
	rendered := string(gomarkdown.Render(p.Parse([]byte(content)), r))

	// Inline code: blue background + italic becomes red text
	rendered = inlineCodeRegex.ReplaceAllString(rendered, "\x1b[31m$1\x1b[0m")
	rendered = strings.TrimRight(rendered, "\n")

	if config.DebugLog != nil {
		config.DebugLog.Printf("[UI] Markdown rendered %d chars in %v", len(content), time.Since(start))
	}
	return rendered
}

// formatTranscript renders the transcript as plain text for the clipboard.
func formatTranscript(messages []model.Message) string {
	var b strings.Builder
	for _, msg := range messages {
		content := msg.Content
		if msg.Role == model.RoleAssistant {
			content = displayContent(content)
		}
		fmt.Fprintf(&b, "[%s] %s:\n%s\n\n", msg.Timestamp.Format("15:04"), roleLabel(msg.Role), content)
	}
	return strings.TrimSuffix(b.String(), "\n\n")
}

// truncate shortens s to at most width terminal cells.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}
