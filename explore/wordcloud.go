// Word cloud rendering via the QuickChart API.
//
// Information Hiding:
// - Request shape and rendering parameters hidden
// - Image persistence hidden

package explore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/qwizzhq/qwizz/internal/text"
)

// DefaultWordCloudURL is the public QuickChart word cloud endpoint.
const DefaultWordCloudURL = "https://quickchart.io/wordcloud"

// wordCloudRequest is the QuickChart request body.
type wordCloudRequest struct {
	Format          string  `json:"format"`
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	FontScale       float64 `json:"fontScale"`
	Scale           string  `json:"scale"`
	RemoveStopwords bool    `json:"removeStopwords"`
	MinWordLength   int     `json:"minWordLength"`
	Text            string  `json:"text"`
}

// WordCloudRenderer renders a document's text into a word cloud image
// file.
type WordCloudRenderer struct {
	url    string
	outDir string
	client *http.Client
}

// NewWordCloudRenderer creates a renderer writing images under outDir.
func NewWordCloudRenderer(url, outDir string) *WordCloudRenderer {
	if url == "" {
		url = DefaultWordCloudURL
	}
	return &WordCloudRenderer{
		url:    url,
		outDir: outDir,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Render produces a PNG word cloud for the document text and returns
// the image path. Stop words are removed locally as well so the remote
// flag cannot silently regress the cloud.
func (r *WordCloudRenderer) Render(ctx context.Context, docID, docText string) (string, error) {
	body, err := json.Marshal(wordCloudRequest{
		Format:          "png",
		Width:           600,
		Height:          600,
		FontScale:       15,
		Scale:           "linear",
		RemoveStopwords: true,
		MinWordLength:   3,
		Text:            text.RemoveStopWords(docText),
	})
	if err != nil {
		return "", fmt.Errorf("encoding word cloud request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building word cloud request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("rendering word cloud: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("word cloud service returned status %d", resp.StatusCode)
	}

	image, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading word cloud image: %w", err)
	}

	if err := os.MkdirAll(r.outDir, 0755); err != nil {
		return "", fmt.Errorf("creating word cloud directory: %w", err)
	}
	path := filepath.Join(r.outDir, docID+".png")
	if err := os.WriteFile(path, image, 0644); err != nil {
		return "", fmt.Errorf("writing word cloud image: %w", err)
	}
	return path, nil
}
