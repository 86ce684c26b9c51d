package notes

import (
	"context"
	"errors"
	log "log/slog"
)

// NoResponse is returned by ExtractText when there is nothing to save.
const NoResponse = "No response received from API"

var ErrRemoteCall = errors.New("remote call failed")

// Reply is a completion response reduced to the message text of each choice.
type Reply struct {
	Model   string
	Choices []string
}

// Backend sends one system+user exchange to a hosted model.
type Backend interface {
	Complete(ctx context.Context, system, prompt string) (*Reply, error)
}

// CallModel makes one blocking request. Failures are logged and reported as
// a nil reply; they never propagate further.
func CallModel(ctx context.Context, b Backend, prompt string) *Reply {
	reply, err := b.Complete(ctx, SystemPrompt, prompt)
	if err != nil {
		log.Error("Failed to call completion API", "err", err)
		return nil
	}
	return reply
}

// ExtractText returns the first choice's content, or NoResponse.
func ExtractText(r *Reply) string {
	if r == nil || len(r.Choices) == 0 || r.Choices[0] == "" {
		return NoResponse
	}
	return r.Choices[0]
}
