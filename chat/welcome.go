package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/ocscaffold/ocscaffold/embed_data"
)

// RenderWelcome renders the help text of the chat for the terminal.
func RenderWelcome(width int) (string, error) {
	if width <= 0 {
		width = 80
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := renderer.Render(string(embed_data.ChatWelcome))
	if err != nil {
		return "", fmt.Errorf("failed to render welcome text: %w", err)
	}
	return out, nil
}

// FormatHistory lists the messages as "role: text" lines.
func FormatHistory(messages []Message) string {
	if len(messages) == 0 {
		return "No messages yet."
	}
	var b strings.Builder
	for i, msg := range messages {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "[%s] %s: %s", msg.At.Format("15:04:05"), msg.Role, msg.Text)
	}
	return b.String()
}
