package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ocscaffold/ocscaffold/providers/contracts"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of the session history.
type Message struct {
	ID   uuid.UUID
	Role Role
	Text string
	At   time.Time
}

// Session keeps the history of one chat and forwards messages to a provider.
type Session struct {
	mu       sync.Mutex
	provider contracts.IChatAIProvider
	messages []Message
	now      func() time.Time
}

func NewSession(provider contracts.IChatAIProvider) *Session {
	return &Session{provider: provider, now: time.Now}
}

// Send records text, streams the provider reply and records it too. The user message
// stays in the history even when the reply fails.
func (s *Session) Send(ctx context.Context, text string) (Message, error) {
	s.append(RoleUser, text)

	var reply strings.Builder
	for response := range s.provider.ChatCompletionRequest(ctx, text, "") {
		if response.Err != nil {
			return Message{}, response.Err
		}
		if response.Done {
			break
		}
		reply.WriteString(response.Content)
	}
	if err := ctx.Err(); err != nil {
		return Message{}, fmt.Errorf("chat cancelled: %w", err)
	}

	return s.append(RoleAssistant, reply.String()), nil
}

func (s *Session) append(role Role, text string) Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := Message{ID: uuid.New(), Role: role, Text: text, At: s.now()}
	s.messages = append(s.messages, msg)
	return msg
}

// History returns a copy of the messages in the order they were sent.
func (s *Session) History() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
}
