package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/amankumarsingh77/video-insight/internal/models"
	"github.com/amankumarsingh77/video-insight/internal/summaries"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type summariesRedisRepo struct {
	redisClient *redis.Client
}

func NewSummariesRedisRepo(redisClient *redis.Client) summaries.RedisRepository {
	return &summariesRedisRepo{
		redisClient: redisClient,
	}
}

func (r *summariesRedisRepo) GetJobListCtx(ctx context.Context, key string) (*models.JobList, error) {
	data, err := r.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		return nil, err
	}
	list := &models.JobList{}
	if err = json.Unmarshal(data, list); err != nil {
		return nil, errors.Wrap(err, "summariesRedisRepo.GetJobListCtx.unmarshal")
	}
	return list, nil
}

func (r *summariesRedisRepo) SetJobListCtx(ctx context.Context, key string, ttl time.Duration, list *models.JobList) error {
	data, err := json.Marshal(list)
	if err != nil {
		return errors.Wrap(err, "summariesRedisRepo.SetJobListCtx.marshal")
	}
	return r.redisClient.Set(ctx, key, data, ttl).Err()
}

// DeleteUserJobsCtx drops every cached history page for the user; called when
// a new job lands so stale pages never outlive a save.
func (r *summariesRedisRepo) DeleteUserJobsCtx(ctx context.Context, userID uuid.UUID) error {
	pattern := fmt.Sprintf("%s%s:*", summaries.JobListPrefix, userID)
	keys, err := r.redisClient.Keys(ctx, pattern).Result()
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return r.redisClient.Del(ctx, keys...).Err()
}
