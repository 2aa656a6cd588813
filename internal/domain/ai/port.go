package ai

import (
	"context"

	"github.com/bryanwahyu/salvage-vision/internal/domain/inspection"
)

// VisionClient sends one multimodal inspection request (the full protocol
// text plus every downloaded image) to the chat-completion gateway and
// returns the raw textual reply. Single round trip, no retry.
type VisionClient interface {
	Inspect(ctx context.Context, images []*inspection.Image) (string, error)
}
