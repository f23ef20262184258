package summaries

import (
	"context"
	"fmt"
	"time"

	"github.com/amankumarsingh77/video-insight/internal/models"
	"github.com/google/uuid"
)

// JobListPrefix namespaces cached history pages in redis.
const JobListPrefix = "summaries:jobs:"

type RedisRepository interface {
	GetJobListCtx(ctx context.Context, key string) (*models.JobList, error)
	SetJobListCtx(ctx context.Context, key string, ttl time.Duration, list *models.JobList) error
	DeleteUserJobsCtx(ctx context.Context, userID uuid.UUID) error
}

// JobListKey builds the cache key for one page of a user's history.
func JobListKey(userID uuid.UUID, page, size int) string {
	return fmt.Sprintf("%s%s:p%d:s%d", JobListPrefix, userID, page, size)
}
