package echo

import (
	"context"
	"fmt"

	"github.com/ocscaffold/ocscaffold/providers/contracts"
	"github.com/ocscaffold/ocscaffold/providers/models"
)

// AckPrefix starts every acknowledgment.
const AckPrefix = "Message sent: "

// EchoProvider answers every message with an acknowledgment. No model is contacted.
type EchoProvider struct{}

func NewEchoChatProvider() contracts.IChatAIProvider {
	return &EchoProvider{}
}

func (p *EchoProvider) ChatCompletionRequest(ctx context.Context, userInput string, prompt string) <-chan models.StreamResponse {
	responseChan := make(chan models.StreamResponse)

	go func() {
		defer close(responseChan)

		for _, response := range []models.StreamResponse{
			{Content: AckPrefix + userInput},
			{Done: true},
		} {
			select {
			case <-ctx.Done():
				// best effort: the reader may already be gone
				select {
				case responseChan <- models.StreamResponse{Err: fmt.Errorf("request canceled: %w", ctx.Err())}:
				default:
				}
				return
			case responseChan <- response:
			}
		}
	}()

	return responseChan
}
