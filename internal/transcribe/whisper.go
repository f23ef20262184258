package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/amankumarsingh77/video-insight/internal/config"
	"github.com/amankumarsingh77/video-insight/internal/pipeline"
	"github.com/pkg/errors"
)

const transcribeTimeout = 30 * time.Minute

// WhisperClient transcribes audio through an OpenAI-compatible
// audio/transcriptions endpoint (whisper.cpp server, faster-whisper, or the
// hosted API all speak it).
type WhisperClient struct {
	endpoint string
	model    string
	apiKey   string
	client   *http.Client
}

func NewWhisperClient(cfg *config.Config) *WhisperClient {
	return &WhisperClient{
		endpoint: cfg.Transcriber.Endpoint,
		model:    cfg.Transcriber.Model,
		apiKey:   cfg.Transcriber.APIKey,
		client:   &http.Client{Timeout: transcribeTimeout},
	}
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

func (w *WhisperClient) Transcribe(ctx context.Context, audio pipeline.AudioResource) (string, error) {
	f, err := os.Open(audio.Path())
	if err != nil {
		return "", errors.Wrap(err, "failed to open audio file")
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("model", w.model); err != nil {
		return "", err
	}
	fw, err := mw.CreateFormFile("file", filepath.Base(audio.Path()))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(fw, f); err != nil {
		return "", errors.Wrap(err, "failed to read audio file")
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.endpoint, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if w.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+w.apiKey)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "transcription request failed")
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return "", errors.Errorf("transcriber returned %d: %s", resp.StatusCode, string(b))
	}

	var tr transcriptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", errors.Wrap(err, "failed to decode transcription response")
	}

	transcript := strings.TrimSpace(tr.Text)
	if len([]rune(transcript)) < 3 {
		return NoSpeechSentinel, nil
	}
	return transcript, nil
}
