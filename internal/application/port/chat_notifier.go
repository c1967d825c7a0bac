package port

import "context"

// Block is one element of a rich chat message payload. The concrete
// layout (Slack Block Kit) is owned by the transport adapter; the
// application layer only carries blocks through.
type Block map[string]interface{}

// ChatNotifier defines the interface for posting notifications to the
// team channel (Port). Implementations return the provider's message
// identifier, which anchors follow-up messages in the same thread.
type ChatNotifier interface {
	// SendBlocks posts a rich message. An empty threadID starts a new
	// conversation; a non-empty one replies in that thread.
	SendBlocks(ctx context.Context, blocks []Block, threadID string) (string, error)

	// SendText posts a plain-text message, splitting it into threaded
	// chunks when it exceeds the provider's size limit. The identifier of
	// the first chunk is returned.
	SendText(ctx context.Context, text string, threadID string) (string, error)
}
