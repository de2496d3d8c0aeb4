package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// TesseractEngine implements Engine on top of the gosseract client.
// A fresh client is created per call and closed after it; the engine itself
// is still not reentrant because Tesseract shares trained-data state, so it
// runs behind the recognition serializer.
type TesseractEngine struct {
	languages     []string
	clientFactory func() *gosseract.Client
}

// NewTesseract constructs a Tesseract-backed engine. Receipts here are
// bilingual, so the default language set is "heb,eng".
func NewTesseract(languages ...string) *TesseractEngine {
	if len(languages) == 0 {
		languages = []string{"heb", "eng"}
	}
	return &TesseractEngine{
		languages:     languages,
		clientFactory: gosseract.NewClient,
	}
}

// Recognize runs Tesseract over the image at path.
func (e *TesseractEngine) Recognize(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c := e.clientFactory()
	defer c.Close()

	if err := c.SetImage(path); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	if err := c.SetLanguage(e.languages...); err != nil {
		return "", fmt.Errorf("set languages: %w", err)
	}

	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// Close releases engine resources. Clients are per-call, so there is nothing
// to tear down yet.
func (e *TesseractEngine) Close() error { return nil }
