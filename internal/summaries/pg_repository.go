package summaries

import (
	"context"

	"github.com/amankumarsingh77/video-insight/internal/models"
	"github.com/amankumarsingh77/video-insight/pkg/utils"
	"github.com/google/uuid"
)

type Repository interface {
	SaveJob(ctx context.Context, job *models.VideoJob) (*models.VideoJob, error)
	GetUserJobs(ctx context.Context, userID uuid.UUID, pagination *utils.Pagination) (*models.JobList, error)
	GetStats(ctx context.Context, userID uuid.UUID) (*models.Stats, error)
	GetUserActivity(ctx context.Context) ([]*models.UserActivity, error)
	GetRecentJobs(ctx context.Context, limit int) ([]*models.JobOverview, error)
	GetDailyCounts(ctx context.Context, days int) ([]*models.DailyCount, error)
}
