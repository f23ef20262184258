package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/amankumarsingh77/video-insight/internal/models"
	"github.com/amankumarsingh77/video-insight/pkg/logger"
	"github.com/google/uuid"
)

// Sentinel metadata used when the fetcher cannot resolve a video. Metadata
// failure is not fatal: the run proceeds with these values.
const (
	UnknownTitle = "Unknown_Video"
	UnknownID    = "unknown_id"
)

// Metadata is the resolved title/id pair for a video URL.
type Metadata struct {
	Title string
	ID    string
}

// AudioResource is the downloaded audio artifact for one run. Release removes
// it from disk and must be safe to call exactly once on every exit path.
type AudioResource interface {
	Path() string
	Release() error
}

// MediaFetcher resolves a video URL and extracts its audio track.
type MediaFetcher interface {
	ResolveMetadata(ctx context.Context, videoURL string) (Metadata, error)
	Download(ctx context.Context, videoURL string) (AudioResource, error)
}

// Transcriber converts an audio resource into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio AudioResource) (string, error)
}

// Summarizer turns a transcript into a natural-language summary, either in
// one shot or incrementally. Stream invokes onChunk once per produced chunk
// and stops early when onChunk returns an error.
type Summarizer interface {
	Generate(ctx context.Context, transcript string) (string, error)
	Stream(ctx context.Context, transcript string, onChunk func(chunk string) error) error
}

// JobStore persists a completed job. Called at most once per run.
type JobStore interface {
	Save(ctx context.Context, job *models.VideoJob) error
}

// Orchestrator drives one video URL through download, transcription,
// incremental summarization and persistence, emitting progress events as it
// goes. Each Run owns its own job and audio artifact; an Orchestrator is safe
// for concurrent runs.
type Orchestrator struct {
	fetcher     MediaFetcher
	transcriber Transcriber
	summarizer  Summarizer
	store       JobStore
	logger      logger.Logger
	chunkDelay  time.Duration
}

func NewOrchestrator(
	fetcher MediaFetcher,
	transcriber Transcriber,
	summarizer Summarizer,
	store JobStore,
	logger logger.Logger,
	chunkDelay time.Duration,
) *Orchestrator {
	return &Orchestrator{
		fetcher:     fetcher,
		transcriber: transcriber,
		summarizer:  summarizer,
		store:       store,
		logger:      logger,
		chunkDelay:  chunkDelay,
	}
}

// Run starts a pipeline run and returns its event sequence. The channel is
// closed after the terminal event, or as soon as ctx is cancelled; cleanup
// runs on every exit path either way.
func (o *Orchestrator) Run(ctx context.Context, videoURL string, owner uuid.UUID) <-chan Event {
	events := make(chan Event)
	go func() {
		defer close(events)
		emit := func(ev Event) bool {
			select {
			case events <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}
		if err := o.run(ctx, videoURL, owner, emit); err != nil {
			emit(errorEvent(err))
		}
	}()
	return events
}

// RunSync drives the same stages without streaming and returns the final
// result, or the typed error the streaming variant would have emitted.
func (o *Orchestrator) RunSync(ctx context.Context, videoURL string, owner uuid.UUID) (*models.ProcessResult, error) {
	res := &models.ProcessResult{}
	var summary strings.Builder
	err := o.run(ctx, videoURL, owner, func(ev Event) bool {
		switch ev.Type {
		case EventTranscript:
			res.Transcript = ev.Data
		case EventSummaryChunk:
			summary.WriteString(ev.Data)
		case EventComplete:
			res.VideoTitle = ev.VideoTitle
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, newError(KindUnknown, "Processing aborted: %v", ctx.Err())
	}
	res.Summary = summary.String()
	return res, nil
}

// run executes the stage sequence, calling emit for every event except the
// terminal error, which is returned instead. emit reports false when the
// consumer is gone; remaining stages are skipped but cleanup still runs.
func (o *Orchestrator) run(ctx context.Context, videoURL string, owner uuid.UUID, emit func(Event) bool) *Error {
	videoURL = strings.TrimSpace(videoURL)
	if videoURL == "" {
		return newError(KindValidation, "Video URL is required")
	}

	var audio AudioResource
	defer func() {
		if audio == nil {
			return
		}
		if err := audio.Release(); err != nil {
			o.logger.Warnf("pipeline: failed to release audio artifact %s: %v", audio.Path(), err)
		}
	}()

	if !emit(statusEvent("Starting video processing...")) {
		return nil
	}

	if !emit(statusEvent("Getting video information...")) {
		return nil
	}
	meta, err := o.fetcher.ResolveMetadata(ctx, videoURL)
	if err != nil {
		o.logger.Warnf("pipeline: could not extract video info for %s: %v", videoURL, err)
		meta = Metadata{Title: UnknownTitle, ID: UnknownID}
	}
	if !emit(statusEvent("Found video: " + meta.Title)) {
		return nil
	}

	if !emit(statusEvent("Downloading audio...")) {
		return nil
	}
	audio, err = o.fetcher.Download(ctx, videoURL)
	if err != nil {
		return newError(KindDownload, "Audio download failed: %v", err)
	}

	if !emit(statusEvent("Transcribing audio to text...")) {
		return nil
	}
	transcript, err := o.transcriber.Transcribe(ctx, audio)
	if err != nil {
		return newError(KindTranscription, "Transcription failed: %v", err)
	}
	if !emit(transcriptEvent(transcript)) {
		return nil
	}

	if !emit(statusEvent("Generating AI summary...")) {
		return nil
	}
	summary, fatal := o.summarize(ctx, transcript, emit)
	if fatal != nil {
		return fatal
	}
	if ctx.Err() != nil {
		return nil
	}

	if !emit(statusEvent("Saving to database...")) {
		return nil
	}
	job := &models.VideoJob{
		UserID:     owner,
		VideoURL:   videoURL,
		VideoTitle: meta.Title,
		Transcript: transcript,
		Summary:    summary,
	}
	if err := o.store.Save(ctx, job); err != nil {
		return newError(KindPersistence, "Failed to save results: %v", err)
	}

	emit(completeEvent(meta.Title, "Processing completed successfully!"))
	return nil
}

// summarize emits the summary incrementally and falls back to a one-shot
// generation when the stream fails, whichever chunk it fails on. The returned
// string is exactly what the job should persist.
func (o *Orchestrator) summarize(ctx context.Context, transcript string, emit func(Event) bool) (string, *Error) {
	var acc strings.Builder
	streamErr := o.summarizer.Stream(ctx, transcript, func(chunk string) error {
		acc.WriteString(chunk)
		if !emit(summaryChunkEvent(chunk)) {
			return ctx.Err()
		}
		o.pace(ctx)
		return nil
	})
	if streamErr == nil {
		return acc.String(), nil
	}
	if ctx.Err() != nil {
		return "", nil
	}

	o.logger.Warnf("pipeline: summary streaming failed, falling back to one-shot: %v", streamErr)
	if !emit(statusEvent("Streaming failed, generating complete summary...")) {
		return "", nil
	}
	summary, err := o.summarizer.Generate(ctx, transcript)
	if err != nil {
		return "", newError(KindUnknown, "Summary generation failed: %v", err)
	}
	if !emit(summaryChunkEvent(summary)) {
		return "", nil
	}
	return summary, nil
}

func (o *Orchestrator) pace(ctx context.Context) {
	if o.chunkDelay <= 0 {
		return
	}
	t := time.NewTimer(o.chunkDelay)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
