package notes

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAIBackend talks to any chat-completions compatible endpoint
// (Perplexity, OpenAI, local servers).
type OpenAIBackend struct {
	client openai.Client
	model  string
}

// NewOpenAIBackend targets endpoint, the full chat completions URL. The
// client does not retry.
func NewOpenAIBackend(apiKey, endpoint, model string, httpClient *http.Client) *OpenAIBackend {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(BaseURL(endpoint)),
		option.WithMaxRetries(0),
		option.WithHeader("accept", "application/json"),
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}

	return &OpenAIBackend{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

func (b *OpenAIBackend) Complete(ctx context.Context, system, prompt string) (*Reply, error) {
	resp, err := b.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(prompt),
		},
		Model: openai.ChatModel(b.model),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: chat completion: %w", ErrRemoteCall, err)
	}

	reply := &Reply{Model: resp.Model}
	for _, c := range resp.Choices {
		reply.Choices = append(reply.Choices, c.Message.Content)
	}
	return reply, nil
}

// BaseURL turns a full chat completions endpoint into the base URL the
// client appends "chat/completions" to.
func BaseURL(endpoint string) string {
	base := strings.TrimRight(endpoint, "/")
	base = strings.TrimSuffix(base, "/chat/completions")
	return base + "/"
}
