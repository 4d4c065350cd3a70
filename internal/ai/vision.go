package ai

import "context"

// VisionClient is the external vision-model dependency. Both methods return
// the model's raw text: the contract that the text contains a JSON object is
// soft, so decoding lives in the normalizers, not the client.
type VisionClient interface {
	RecognizeArtwork(ctx context.Context, imageData []byte, mimeType string) (string, error)
	AnalyzeCharacters(ctx context.Context, title, author, imageURL string) (string, error)
}
