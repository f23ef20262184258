package summarize

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/amankumarsingh77/video-insight/internal/config"
	"github.com/pkg/errors"
)

const (
	generateTimeout = 30 * time.Minute

	// NDJSON lines from Ollama are normally tiny, but a one-shot response
	// arrives as a single line carrying the whole summary.
	maxLineSize = 1 << 20
)

// OllamaClient generates summaries against the Ollama HTTP API. Both modes
// are pure functions of the transcript: the client keeps no state between
// calls.
type OllamaClient struct {
	endpoint string
	model    string
	client   *http.Client
}

func NewOllamaClient(cfg *config.Config) *OllamaClient {
	return &OllamaClient{
		endpoint: cfg.Summarizer.Endpoint,
		model:    cfg.Summarizer.Model,
		client:   &http.Client{Timeout: generateTimeout},
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

// Generate produces the whole summary in one call.
func (o *OllamaClient) Generate(ctx context.Context, transcript string) (string, error) {
	resp, err := o.post(ctx, transcript, false)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var gr generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return "", errors.Wrap(err, "failed to decode summary response")
	}
	if gr.Error != "" {
		return "", errors.New(gr.Error)
	}
	return gr.Response, nil
}

// Stream produces the summary incrementally, calling onChunk once per model
// token batch. An error from onChunk stops the stream and is returned as-is.
func (o *OllamaClient) Stream(ctx context.Context, transcript string, onChunk func(chunk string) error) error {
	resp, err := o.post(ctx, transcript, true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var gr generateResponse
		if err := json.Unmarshal(line, &gr); err != nil {
			return errors.Wrap(err, "malformed stream line")
		}
		if gr.Error != "" {
			return errors.New(gr.Error)
		}
		if gr.Response != "" {
			if err := onChunk(gr.Response); err != nil {
				return err
			}
		}
		if gr.Done {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "summary stream interrupted")
	}
	return errors.New("summary stream ended without completion")
}

func (o *OllamaClient) post(ctx context.Context, transcript string, stream bool) (*http.Response, error) {
	payload, err := json.Marshal(generateRequest{
		Model:  o.model,
		Prompt: buildPrompt(transcript),
		Stream: stream,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "summarizer request failed")
	}
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, errors.Errorf("summarizer returned %d: %s", resp.StatusCode, string(b))
	}
	return resp, nil
}
