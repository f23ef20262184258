package summaries

import (
	"context"
	"errors"

	"github.com/amankumarsingh77/video-insight/internal/models"
	"github.com/amankumarsingh77/video-insight/internal/pipeline"
	"github.com/amankumarsingh77/video-insight/pkg/utils"
)

// ErrServerBusy is returned when admission control refuses to start another
// run; handlers map it to 503 before any streaming begins.
var ErrServerBusy = errors.New("server is processing too many videos, try again later")

type UseCase interface {
	Process(ctx context.Context, input *models.ProcessInput) (*models.ProcessResult, error)
	ProcessStream(ctx context.Context, input *models.ProcessInput) (<-chan pipeline.Event, error)
	GetUserJobs(ctx context.Context, pagination *utils.Pagination) (*models.JobList, error)
	GetStats(ctx context.Context) (*models.Stats, error)
	GetDetailedStats(ctx context.Context) (*models.DetailedStats, error)
}
