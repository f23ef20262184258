package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/amankumarsingh77/video-insight/internal/config"
	"github.com/amankumarsingh77/video-insight/internal/models"
	"github.com/amankumarsingh77/video-insight/internal/pipeline"
	"github.com/amankumarsingh77/video-insight/internal/summaries"
	"github.com/amankumarsingh77/video-insight/pkg/logger"
	"github.com/amankumarsingh77/video-insight/pkg/utils"
)

const (
	jobListCacheTTL = 60 * time.Second
	recentJobsLimit = 100
	dailyStatsDays  = 7

	defaultMaxConcurrent = 4
)

type summariesUC struct {
	cfg          *config.Config
	repo         summaries.Repository
	redisRepo    summaries.RedisRepository
	awsRepo      summaries.AWSRepository
	logger       logger.Logger
	orchestrator *pipeline.Orchestrator
	slots        chan struct{}
}

// NewSummariesUseCase wires the pipeline collaborators together. The usecase
// itself is the pipeline's JobStore so a successful run lands in Postgres,
// invalidates the history cache, and archives its artifacts in one place.
func NewSummariesUseCase(
	cfg *config.Config,
	repo summaries.Repository,
	redisRepo summaries.RedisRepository,
	awsRepo summaries.AWSRepository,
	fetcher pipeline.MediaFetcher,
	transcriber pipeline.Transcriber,
	summarizer pipeline.Summarizer,
	log logger.Logger,
) summaries.UseCase {
	maxConcurrent := cfg.Pipeline.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrent
	}
	uc := &summariesUC{
		cfg:       cfg,
		repo:      repo,
		redisRepo: redisRepo,
		awsRepo:   awsRepo,
		logger:    log,
		slots:     make(chan struct{}, maxConcurrent),
	}
	uc.orchestrator = pipeline.NewOrchestrator(fetcher, transcriber, summarizer, uc, log, cfg.Pipeline.ChunkDelay())
	return uc
}

func (u *summariesUC) Process(ctx context.Context, input *models.ProcessInput) (*models.ProcessResult, error) {
	user, err := utils.GetUserFromCtx(ctx)
	if err != nil {
		u.logger.Errorf("Process - failed to get user from context: %v", err)
		return nil, err
	}

	release, err := u.acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	return u.orchestrator.RunSync(ctx, normalizeVideoURL(input.VideoURL), user.UserID)
}

func (u *summariesUC) ProcessStream(ctx context.Context, input *models.ProcessInput) (<-chan pipeline.Event, error) {
	user, err := utils.GetUserFromCtx(ctx)
	if err != nil {
		u.logger.Errorf("ProcessStream - failed to get user from context: %v", err)
		return nil, err
	}

	release, err := u.acquire()
	if err != nil {
		return nil, err
	}

	run := u.orchestrator.Run(ctx, normalizeVideoURL(input.VideoURL), user.UserID)
	out := make(chan pipeline.Event)
	go func() {
		defer close(out)
		defer release()
		for ev := range run {
			select {
			case out <- ev:
			case <-ctx.Done():
				// consumer is gone; keep draining so the run can finish
				// its cleanup and close the channel
			}
		}
	}()
	return out, nil
}

// Save implements pipeline.JobStore. Cache invalidation and artifact
// archiving are best-effort: only the database write decides the run's fate.
func (u *summariesUC) Save(ctx context.Context, job *models.VideoJob) error {
	saved, err := u.repo.SaveJob(ctx, job)
	if err != nil {
		return err
	}

	if err := u.redisRepo.DeleteUserJobsCtx(ctx, saved.UserID); err != nil {
		u.logger.Warnf("Save - failed to invalidate job cache for user %s: %v", saved.UserID, err)
	}

	u.archiveArtifacts(ctx, saved)
	return nil
}

func (u *summariesUC) archiveArtifacts(ctx context.Context, job *models.VideoJob) {
	if u.awsRepo == nil {
		return
	}
	stamp := time.Now().Format("20060102_150405")
	artifacts := map[string]string{
		fmt.Sprintf("transcripts/%s/%s_%s.txt", job.UserID, job.VideoTitle, stamp): job.Transcript,
		fmt.Sprintf("summaries/%s/%s_%s.txt", job.UserID, job.VideoTitle, stamp):   job.Summary,
	}
	for key, body := range artifacts {
		if err := u.awsRepo.ArchiveArtifact(ctx, key, body); err != nil {
			u.logger.Warnf("Save - failed to archive %s: %v", key, err)
		}
	}
}

func (u *summariesUC) GetUserJobs(ctx context.Context, pagination *utils.Pagination) (*models.JobList, error) {
	user, err := utils.GetUserFromCtx(ctx)
	if err != nil {
		u.logger.Errorf("GetUserJobs - failed to get user from context: %v", err)
		return nil, err
	}

	cacheKey := summaries.JobListKey(user.UserID, pagination.GetPage(), pagination.GetSize())
	if cached, err := u.redisRepo.GetJobListCtx(ctx, cacheKey); err == nil && cached != nil {
		return cached, nil
	}

	list, err := u.repo.GetUserJobs(ctx, user.UserID, pagination)
	if err != nil {
		return nil, err
	}

	if err := u.redisRepo.SetJobListCtx(ctx, cacheKey, jobListCacheTTL, list); err != nil {
		u.logger.Warnf("GetUserJobs - failed to cache job list: %v", err)
	}
	return list, nil
}

func (u *summariesUC) GetStats(ctx context.Context) (*models.Stats, error) {
	user, err := utils.GetUserFromCtx(ctx)
	if err != nil {
		u.logger.Errorf("GetStats - failed to get user from context: %v", err)
		return nil, err
	}
	return u.repo.GetStats(ctx, user.UserID)
}

func (u *summariesUC) GetDetailedStats(ctx context.Context) (*models.DetailedStats, error) {
	user, err := utils.GetUserFromCtx(ctx)
	if err != nil {
		u.logger.Errorf("GetDetailedStats - failed to get user from context: %v", err)
		return nil, err
	}

	users, err := u.repo.GetUserActivity(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := u.repo.GetRecentJobs(ctx, recentJobsLimit)
	if err != nil {
		return nil, err
	}
	totals, err := u.repo.GetStats(ctx, user.UserID)
	if err != nil {
		return nil, err
	}
	daily, err := u.repo.GetDailyCounts(ctx, dailyStatsDays)
	if err != nil {
		return nil, err
	}

	return &models.DetailedStats{
		Users:      users,
		RecentJobs: recent,
		Totals:     totals,
		DailyStats: daily,
	}, nil
}

// acquire applies admission control: a CPU ceiling (a saturated box makes
// every in-flight transcription slower) and a hard cap on concurrent runs.
func (u *summariesUC) acquire() (func(), error) {
	if u.cfg.Worker.MaxCPUUsage > 0 {
		if ok, usage := utils.CheckCPUUsage(u.cfg.Worker.MaxCPUUsage); !ok {
			u.logger.Warnf("refusing new run, CPU usage too high: %.1f%%", usage)
			return nil, summaries.ErrServerBusy
		}
	}
	select {
	case u.slots <- struct{}{}:
		return func() { <-u.slots }, nil
	default:
		return nil, summaries.ErrServerBusy
	}
}

// normalizeVideoURL accepts either a full video URL or a bare video id and
// returns something the fetcher can work with. Empty input is passed through
// so validation stays in one place.
func normalizeVideoURL(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}
	if strings.Contains(input, "youtube.com") || strings.Contains(input, "youtu.be") {
		return input
	}
	if strings.Contains(input, "://") {
		return input
	}
	return "https://www.youtube.com/watch?v=" + input
}
