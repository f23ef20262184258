package repository

import (
	"context"
	"strconv"

	"github.com/amankumarsingh77/video-insight/internal/models"
	"github.com/amankumarsingh77/video-insight/internal/summaries"
	"github.com/amankumarsingh77/video-insight/pkg/utils"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

type summariesRepo struct {
	db *sqlx.DB
}

func NewSummariesRepo(db *sqlx.DB) summaries.Repository {
	return &summariesRepo{
		db: db,
	}
}

func (r *summariesRepo) SaveJob(ctx context.Context, job *models.VideoJob) (*models.VideoJob, error) {
	saved := &models.VideoJob{}
	if err := r.db.QueryRowxContext(
		ctx,
		createJob,
		&job.UserID,
		&job.VideoURL,
		&job.VideoTitle,
		&job.Transcript,
		&job.Summary,
	).StructScan(saved); err != nil {
		return nil, errors.Wrap(err, "summariesRepo.SaveJob")
	}
	return saved, nil
}

func (r *summariesRepo) GetUserJobs(ctx context.Context, userID uuid.UUID, pagination *utils.Pagination) (*models.JobList, error) {
	var totalCount int
	if err := r.db.GetContext(ctx, &totalCount, getUserJobsCount, userID); err != nil {
		return nil, errors.Wrap(err, "summariesRepo.GetUserJobs.count")
	}

	jobs := make([]*models.VideoJob, 0, pagination.GetSize())
	if err := r.db.SelectContext(
		ctx,
		&jobs,
		getUserJobsQuery,
		userID,
		pagination.GetLimit(),
		pagination.GetOffset(),
	); err != nil {
		return nil, errors.Wrap(err, "summariesRepo.GetUserJobs.select")
	}

	return &models.JobList{
		Jobs:       jobs,
		TotalCount: totalCount,
		Page:       pagination.GetPage(),
		PageSize:   pagination.GetSize(),
		HasMore:    utils.GetHasMore(pagination.GetPage(), totalCount, pagination.GetSize()),
	}, nil
}

func (r *summariesRepo) GetStats(ctx context.Context, userID uuid.UUID) (*models.Stats, error) {
	stats := &models.Stats{}
	if err := r.db.GetContext(ctx, stats, getStatsQuery, userID); err != nil {
		return nil, errors.Wrap(err, "summariesRepo.GetStats")
	}
	return stats, nil
}

func (r *summariesRepo) GetUserActivity(ctx context.Context) ([]*models.UserActivity, error) {
	users := make([]*models.UserActivity, 0)
	if err := r.db.SelectContext(ctx, &users, getUserActivityQuery); err != nil {
		return nil, errors.Wrap(err, "summariesRepo.GetUserActivity")
	}
	return users, nil
}

func (r *summariesRepo) GetRecentJobs(ctx context.Context, limit int) ([]*models.JobOverview, error) {
	jobs := make([]*models.JobOverview, 0, limit)
	if err := r.db.SelectContext(ctx, &jobs, getRecentJobsQuery, limit); err != nil {
		return nil, errors.Wrap(err, "summariesRepo.GetRecentJobs")
	}
	return jobs, nil
}

func (r *summariesRepo) GetDailyCounts(ctx context.Context, days int) ([]*models.DailyCount, error) {
	counts := make([]*models.DailyCount, 0, days)
	if err := r.db.SelectContext(ctx, &counts, getDailyCountsQuery, strconv.Itoa(days)); err != nil {
		return nil, errors.Wrap(err, "summariesRepo.GetDailyCounts")
	}
	return counts, nil
}
