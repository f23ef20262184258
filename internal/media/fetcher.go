package media

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/amankumarsingh77/video-insight/internal/config"
	"github.com/amankumarsingh77/video-insight/internal/pipeline"
	"github.com/amankumarsingh77/video-insight/pkg/logger"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	// artifactPrefix is the reserved namespace for in-flight audio artifacts.
	// Every run claims its own uuid-suffixed name under it, so concurrent
	// runs never touch each other's files.
	artifactPrefix = "temp_audio_"

	maxTitleRunes = 50
)

// Audio is the downloaded audio artifact for one run.
type Audio struct {
	path string
}

func (a *Audio) Path() string {
	return a.path
}

func (a *Audio) Release() error {
	if err := os.Remove(a.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Fetcher resolves video metadata and extracts audio tracks by shelling out
// to yt-dlp.
type Fetcher struct {
	ytdlp    string
	workDir  string
	staleAge time.Duration
	logger   logger.Logger
}

func NewFetcher(cfg *config.Config, logger logger.Logger) *Fetcher {
	ytdlp := cfg.Pipeline.YtdlpPath
	if ytdlp == "" {
		ytdlp = "yt-dlp"
	}
	workDir := cfg.Pipeline.WorkDir
	if workDir == "" {
		workDir = os.TempDir()
	}
	return &Fetcher{
		ytdlp:    ytdlp,
		workDir:  workDir,
		staleAge: cfg.Pipeline.StaleArtifactAge(),
		logger:   logger,
	}
}

func (f *Fetcher) ResolveMetadata(ctx context.Context, videoURL string) (pipeline.Metadata, error) {
	cmd := exec.CommandContext(ctx, f.ytdlp,
		"--no-warnings",
		"--skip-download",
		"--print", "%(title)s",
		"--print", "%(id)s",
		videoURL,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return pipeline.Metadata{}, errors.Wrapf(err, "yt-dlp metadata: %s", strings.TrimSpace(stderr.String()))
	}

	lines := strings.SplitN(strings.TrimSpace(string(out)), "\n", 2)
	meta := pipeline.Metadata{Title: pipeline.UnknownTitle, ID: pipeline.UnknownID}
	if len(lines) > 0 {
		meta.Title = SanitizeTitle(lines[0])
	}
	if len(lines) > 1 {
		if id := strings.TrimSpace(lines[1]); id != "" {
			meta.ID = id
		}
	}
	return meta, nil
}

func (f *Fetcher) Download(ctx context.Context, videoURL string) (pipeline.AudioResource, error) {
	f.sweepStale()

	if err := os.MkdirAll(f.workDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create work dir")
	}

	name := artifactPrefix + uuid.New().String()
	outTemplate := filepath.Join(f.workDir, name+".%(ext)s")
	audioPath := filepath.Join(f.workDir, name+".wav")

	cmd := exec.CommandContext(ctx, f.ytdlp,
		"-f", "bestaudio/best",
		"-x",
		"--audio-format", "wav",
		"--audio-quality", "192",
		"--no-warnings",
		"-o", outTemplate,
		videoURL,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, errors.Wrapf(err, "yt-dlp download: %s", strings.TrimSpace(stderr.String()))
	}

	if _, err := os.Stat(audioPath); err != nil {
		return nil, errors.New("audio file download or conversion failed")
	}
	return &Audio{path: audioPath}, nil
}

// sweepStale removes audio artifacts left behind by interrupted runs. Only
// files older than the staleness window are touched: newer ones may belong to
// a concurrent in-flight run.
func (f *Fetcher) sweepStale() {
	matches, err := filepath.Glob(filepath.Join(f.workDir, artifactPrefix+"*"))
	if err != nil {
		return
	}
	cutoff := time.Now().Add(-f.staleAge)
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(path); err != nil {
			f.logger.Warnf("media: failed to sweep stale artifact %s: %v", path, err)
		}
	}
}

var illegalTitleChars = strings.NewReplacer(
	"<", "_", ">", "_", ":", "_", `"`, "_",
	"/", "_", `\`, "_", "|", "_", "?", "_", "*", "_",
)

// SanitizeTitle makes a video title safe to use in filenames and object keys:
// characters illegal in filenames become underscores and the result is capped
// at 50 code points.
func SanitizeTitle(title string) string {
	title = strings.TrimSpace(illegalTitleChars.Replace(strings.TrimSpace(title)))
	if title == "" {
		return pipeline.UnknownTitle
	}
	runes := []rune(title)
	if len(runes) > maxTitleRunes {
		title = string(runes[:maxTitleRunes])
	}
	return title
}
