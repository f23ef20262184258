package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/amankumarsingh77/video-insight/internal/models"
	"github.com/google/uuid"
)

type nopLogger struct{}

func (nopLogger) InitLogger()                                  {}
func (nopLogger) Debug(args ...interface{})                    {}
func (nopLogger) Debugf(template string, args ...interface{})  {}
func (nopLogger) Info(args ...interface{})                     {}
func (nopLogger) Infof(template string, args ...interface{})   {}
func (nopLogger) Warn(args ...interface{})                     {}
func (nopLogger) Warnf(template string, args ...interface{})   {}
func (nopLogger) Error(args ...interface{})                    {}
func (nopLogger) Errorf(template string, args ...interface{})  {}
func (nopLogger) DPanic(args ...interface{})                   {}
func (nopLogger) DPanicf(template string, args ...interface{}) {}
func (nopLogger) Fatal(args ...interface{})                    {}
func (nopLogger) Fatalf(template string, args ...interface{})  {}

type fakeAudio struct {
	mu       sync.Mutex
	path     string
	released int
}

func (f *fakeAudio) Path() string { return f.path }

func (f *fakeAudio) Release() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.released++
	return nil
}

func (f *fakeAudio) releaseCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.released
}

type fakeFetcher struct {
	meta      Metadata
	metaErr   error
	audio     *fakeAudio
	download  func(ctx context.Context) (AudioResource, error)
	metaCalls int
	dlCalls   int
}

func (f *fakeFetcher) ResolveMetadata(ctx context.Context, videoURL string) (Metadata, error) {
	f.metaCalls++
	if f.metaErr != nil {
		return Metadata{}, f.metaErr
	}
	return f.meta, nil
}

func (f *fakeFetcher) Download(ctx context.Context, videoURL string) (AudioResource, error) {
	f.dlCalls++
	if f.download != nil {
		return f.download(ctx)
	}
	return f.audio, nil
}

type fakeTranscriber struct {
	text  string
	err   error
	calls int
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audio AudioResource) (string, error) {
	f.calls++
	return f.text, f.err
}

type fakeSummarizer struct {
	chunks    []string
	streamErr error
	failAt    int // fail before emitting chunk at this index; -1 disables
	oneShot   string
	oneErr    error
	genCalls  int
}

func (f *fakeSummarizer) Generate(ctx context.Context, transcript string) (string, error) {
	f.genCalls++
	return f.oneShot, f.oneErr
}

func (f *fakeSummarizer) Stream(ctx context.Context, transcript string, onChunk func(string) error) error {
	for i, c := range f.chunks {
		if f.streamErr != nil && i == f.failAt {
			return f.streamErr
		}
		if err := onChunk(c); err != nil {
			return err
		}
	}
	if f.streamErr != nil && f.failAt >= len(f.chunks) {
		return f.streamErr
	}
	return nil
}

type fakeStore struct {
	mu   sync.Mutex
	jobs []*models.VideoJob
	err  error
}

func (f *fakeStore) Save(ctx context.Context, job *models.VideoJob) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, job)
	return nil
}

func (f *fakeStore) saved() []*models.VideoJob {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.jobs
}

func collect(t *testing.T, events <-chan Event) []Event {
	t.Helper()
	var out []Event
	for ev := range events {
		out = append(out, ev)
	}
	return out
}

func happyCollaborators() (*fakeFetcher, *fakeTranscriber, *fakeSummarizer, *fakeStore) {
	fetcher := &fakeFetcher{
		meta:  Metadata{Title: "Test Video", ID: "abc123"},
		audio: &fakeAudio{path: "/tmp/temp_audio_test.wav"},
	}
	transcriber := &fakeTranscriber{text: "hello world"}
	summarizer := &fakeSummarizer{chunks: []string{"This ", "is a ", "summary."}, failAt: -1}
	store := &fakeStore{}
	return fetcher, transcriber, summarizer, store
}

func newTestOrchestrator(f MediaFetcher, tr Transcriber, s Summarizer, st JobStore) *Orchestrator {
	return NewOrchestrator(f, tr, s, st, nopLogger{}, 0)
}

func TestRunHappyPath(t *testing.T) {
	fetcher, transcriber, summarizer, store := happyCollaborators()
	o := newTestOrchestrator(fetcher, transcriber, summarizer, store)

	events := collect(t, o.Run(context.Background(), "https://www.youtube.com/watch?v=abc123", uuid.New()))

	want := []Event{
		{Type: EventStatus, Message: "Starting video processing..."},
		{Type: EventStatus, Message: "Getting video information..."},
		{Type: EventStatus, Message: "Found video: Test Video"},
		{Type: EventStatus, Message: "Downloading audio..."},
		{Type: EventStatus, Message: "Transcribing audio to text..."},
		{Type: EventTranscript, Data: "hello world"},
		{Type: EventStatus, Message: "Generating AI summary..."},
		{Type: EventSummaryChunk, Data: "This "},
		{Type: EventSummaryChunk, Data: "is a "},
		{Type: EventSummaryChunk, Data: "summary."},
		{Type: EventStatus, Message: "Saving to database..."},
		{Type: EventComplete, Message: "Processing completed successfully!", VideoTitle: "Test Video"},
	}
	if len(events) != len(want) {
		t.Fatalf("event count = %d, want %d: %+v", len(events), len(want), events)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("event[%d] = %+v, want %+v", i, events[i], want[i])
		}
	}

	jobs := store.saved()
	if len(jobs) != 1 {
		t.Fatalf("saved jobs = %d, want 1", len(jobs))
	}
	if jobs[0].Summary != "This is a summary." {
		t.Fatalf("saved summary = %q", jobs[0].Summary)
	}
	if jobs[0].Transcript != "hello world" {
		t.Fatalf("saved transcript = %q", jobs[0].Transcript)
	}
	if fetcher.audio.releaseCount() != 1 {
		t.Fatalf("audio release count = %d, want 1", fetcher.audio.releaseCount())
	}
}

func TestRunEmptyURL(t *testing.T) {
	fetcher, transcriber, summarizer, store := happyCollaborators()
	o := newTestOrchestrator(fetcher, transcriber, summarizer, store)

	for _, url := range []string{"", "   ", "\t\n"} {
		events := collect(t, o.Run(context.Background(), url, uuid.New()))
		if len(events) != 1 {
			t.Fatalf("url %q: event count = %d, want 1", url, len(events))
		}
		if events[0].Type != EventError || events[0].Message != "Video URL is required" {
			t.Fatalf("url %q: event = %+v", url, events[0])
		}
	}
	if fetcher.metaCalls != 0 || fetcher.dlCalls != 0 || transcriber.calls != 0 {
		t.Fatalf("collaborators were called for invalid input")
	}
	if len(store.saved()) != 0 {
		t.Fatalf("job saved for invalid input")
	}
}

func TestRunMetadataFailureContinues(t *testing.T) {
	fetcher, transcriber, summarizer, store := happyCollaborators()
	fetcher.metaErr = errors.New("extractor blew up")
	o := newTestOrchestrator(fetcher, transcriber, summarizer, store)

	events := collect(t, o.Run(context.Background(), "https://www.youtube.com/watch?v=abc123", uuid.New()))

	last := events[len(events)-1]
	if last.Type != EventComplete {
		t.Fatalf("terminal event = %+v, want complete", last)
	}
	if last.VideoTitle != UnknownTitle {
		t.Fatalf("video title = %q, want %q", last.VideoTitle, UnknownTitle)
	}
	jobs := store.saved()
	if len(jobs) != 1 || jobs[0].VideoTitle != UnknownTitle {
		t.Fatalf("saved jobs = %+v", jobs)
	}
}

func TestRunDownloadFailure(t *testing.T) {
	fetcher, transcriber, summarizer, store := happyCollaborators()
	fetcher.download = func(ctx context.Context) (AudioResource, error) {
		return nil, errors.New("network down")
	}
	o := newTestOrchestrator(fetcher, transcriber, summarizer, store)

	events := collect(t, o.Run(context.Background(), "https://www.youtube.com/watch?v=abc123", uuid.New()))

	last := events[len(events)-1]
	if last.Type != EventError {
		t.Fatalf("terminal event = %+v, want error", last)
	}
	if !strings.HasPrefix(last.Message, "Audio download failed:") {
		t.Fatalf("error message = %q", last.Message)
	}
	if transcriber.calls != 0 {
		t.Fatalf("transcriber called after failed download")
	}
	if len(store.saved()) != 0 {
		t.Fatalf("job saved after failed download")
	}
}

func TestRunTranscriptionFailureReleasesAudio(t *testing.T) {
	fetcher, transcriber, summarizer, store := happyCollaborators()
	transcriber.err = errors.New("whisper offline")
	o := newTestOrchestrator(fetcher, transcriber, summarizer, store)

	events := collect(t, o.Run(context.Background(), "https://www.youtube.com/watch?v=abc123", uuid.New()))

	last := events[len(events)-1]
	if last.Type != EventError || !strings.HasPrefix(last.Message, "Transcription failed:") {
		t.Fatalf("terminal event = %+v", last)
	}
	if fetcher.audio.releaseCount() != 1 {
		t.Fatalf("audio release count = %d, want 1", fetcher.audio.releaseCount())
	}
}

func TestRunStreamFallback(t *testing.T) {
	fetcher, transcriber, summarizer, store := happyCollaborators()
	summarizer.streamErr = errors.New("stream reset")
	summarizer.failAt = 0
	summarizer.oneShot = "Complete fallback summary."
	o := newTestOrchestrator(fetcher, transcriber, summarizer, store)

	events := collect(t, o.Run(context.Background(), "https://www.youtube.com/watch?v=abc123", uuid.New()))

	var sawFallbackStatus bool
	var chunks []string
	var terminals int
	for _, ev := range events {
		switch ev.Type {
		case EventStatus:
			if ev.Message == "Streaming failed, generating complete summary..." {
				sawFallbackStatus = true
			}
		case EventSummaryChunk:
			chunks = append(chunks, ev.Data)
		case EventComplete, EventError:
			terminals++
		}
	}
	if !sawFallbackStatus {
		t.Fatalf("fallback status event not emitted: %+v", events)
	}
	if len(chunks) != 1 || chunks[0] != "Complete fallback summary." {
		t.Fatalf("summary chunks = %+v, want single fallback chunk", chunks)
	}
	if terminals != 1 {
		t.Fatalf("terminal events = %d, want 1", terminals)
	}
	if events[len(events)-1].Type != EventComplete {
		t.Fatalf("terminal event = %+v, want complete", events[len(events)-1])
	}
	if summarizer.genCalls != 1 {
		t.Fatalf("one-shot calls = %d, want 1", summarizer.genCalls)
	}
	jobs := store.saved()
	if len(jobs) != 1 || jobs[0].Summary != "Complete fallback summary." {
		t.Fatalf("saved jobs = %+v", jobs)
	}
}

func TestRunMidStreamFallbackDoesNotDuplicateSave(t *testing.T) {
	fetcher, transcriber, summarizer, store := happyCollaborators()
	summarizer.streamErr = errors.New("connection lost")
	summarizer.failAt = 2
	summarizer.oneShot = "Whole summary again."
	o := newTestOrchestrator(fetcher, transcriber, summarizer, store)

	events := collect(t, o.Run(context.Background(), "https://www.youtube.com/watch?v=abc123", uuid.New()))

	if events[len(events)-1].Type != EventComplete {
		t.Fatalf("terminal event = %+v", events[len(events)-1])
	}
	jobs := store.saved()
	if len(jobs) != 1 {
		t.Fatalf("saved jobs = %d, want exactly 1", len(jobs))
	}
	if jobs[0].Summary != "Whole summary again." {
		t.Fatalf("saved summary = %q, want the one-shot result", jobs[0].Summary)
	}
}

func TestRunFallbackFailure(t *testing.T) {
	fetcher, transcriber, summarizer, store := happyCollaborators()
	summarizer.streamErr = errors.New("stream reset")
	summarizer.failAt = 0
	summarizer.oneErr = errors.New("model missing")
	o := newTestOrchestrator(fetcher, transcriber, summarizer, store)

	events := collect(t, o.Run(context.Background(), "https://www.youtube.com/watch?v=abc123", uuid.New()))

	last := events[len(events)-1]
	if last.Type != EventError || !strings.HasPrefix(last.Message, "Summary generation failed:") {
		t.Fatalf("terminal event = %+v", last)
	}
	if len(store.saved()) != 0 {
		t.Fatalf("job saved after summary failure")
	}
}

func TestRunSaveFailure(t *testing.T) {
	fetcher, transcriber, summarizer, store := happyCollaborators()
	store.err = errors.New("db unreachable")
	o := newTestOrchestrator(fetcher, transcriber, summarizer, store)

	events := collect(t, o.Run(context.Background(), "https://www.youtube.com/watch?v=abc123", uuid.New()))

	last := events[len(events)-1]
	if last.Type != EventError || !strings.HasPrefix(last.Message, "Failed to save results:") {
		t.Fatalf("terminal event = %+v", last)
	}
	if fetcher.audio.releaseCount() != 1 {
		t.Fatalf("audio not released after save failure")
	}
}

func TestRunCancellationReleasesAudio(t *testing.T) {
	fetcher, transcriber, summarizer, store := happyCollaborators()
	ctx, cancel := context.WithCancel(context.Background())

	downloaded := make(chan struct{})
	fetcher.download = func(context.Context) (AudioResource, error) {
		close(downloaded)
		return fetcher.audio, nil
	}
	transcriber.err = nil
	o := NewOrchestrator(fetcher, &blockingTranscriber{unblock: ctx.Done()}, summarizer, store, nopLogger{}, 0)

	events := o.Run(ctx, "https://www.youtube.com/watch?v=abc123", uuid.New())
	go func() {
		<-downloaded
		cancel()
	}()
	for range events {
	}

	deadline := time.After(2 * time.Second)
	for fetcher.audio.releaseCount() == 0 {
		select {
		case <-deadline:
			t.Fatalf("audio not released after cancellation")
		case <-time.After(10 * time.Millisecond):
		}
	}
	if len(store.saved()) != 0 {
		t.Fatalf("job saved after cancellation")
	}
}

// blockingTranscriber waits for its signal before returning, simulating a
// slow stage the client abandons.
type blockingTranscriber struct {
	unblock <-chan struct{}
}

func (b *blockingTranscriber) Transcribe(ctx context.Context, audio AudioResource) (string, error) {
	<-b.unblock
	return "", ctx.Err()
}

func TestRunSyncReturnsAssembledResult(t *testing.T) {
	fetcher, transcriber, summarizer, store := happyCollaborators()
	o := newTestOrchestrator(fetcher, transcriber, summarizer, store)

	res, err := o.RunSync(context.Background(), "https://www.youtube.com/watch?v=abc123", uuid.New())
	if err != nil {
		t.Fatalf("RunSync() error = %v", err)
	}
	if res.VideoTitle != "Test Video" {
		t.Fatalf("video title = %q", res.VideoTitle)
	}
	if res.Transcript != "hello world" {
		t.Fatalf("transcript = %q", res.Transcript)
	}
	if res.Summary != "This is a summary." {
		t.Fatalf("summary = %q", res.Summary)
	}
}

func TestRunSyncValidationError(t *testing.T) {
	fetcher, transcriber, summarizer, store := happyCollaborators()
	o := newTestOrchestrator(fetcher, transcriber, summarizer, store)

	_, err := o.RunSync(context.Background(), "  ", uuid.New())
	if err == nil {
		t.Fatal("RunSync() error = nil, want validation error")
	}
	if KindOf(err) != KindValidation {
		t.Fatalf("error kind = %v, want validation", KindOf(err))
	}
	if StatusCode(err) != 400 {
		t.Fatalf("status code = %d, want 400", StatusCode(err))
	}
}

func TestConcurrentRunsAreIndependent(t *testing.T) {
	const runs = 4
	store := &fakeStore{}
	var wg sync.WaitGroup
	audios := make([]*fakeAudio, runs)
	for i := 0; i < runs; i++ {
		audio := &fakeAudio{path: "/tmp/temp_audio_" + uuid.NewString() + ".wav"}
		audios[i] = audio
		fetcher := &fakeFetcher{meta: Metadata{Title: "Video", ID: "id"}, audio: audio}
		o := newTestOrchestrator(fetcher, &fakeTranscriber{text: "t"}, &fakeSummarizer{chunks: []string{"s"}, failAt: -1}, store)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range o.Run(context.Background(), "https://www.youtube.com/watch?v=abc123", uuid.New()) {
			}
		}()
	}
	wg.Wait()

	if got := len(store.saved()); got != runs {
		t.Fatalf("saved jobs = %d, want %d", got, runs)
	}
	for i, audio := range audios {
		if audio.releaseCount() != 1 {
			t.Fatalf("run %d: release count = %d, want 1", i, audio.releaseCount())
		}
	}
}
