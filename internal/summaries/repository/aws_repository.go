package repository

import (
	"context"
	"strings"

	"github.com/amankumarsingh77/video-insight/internal/summaries"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
)

type awsRepository struct {
	client *s3.Client
	bucket string
}

func NewAwsRepository(client *s3.Client, bucket string) summaries.AWSRepository {
	return &awsRepository{
		client: client,
		bucket: bucket,
	}
}

// ArchiveArtifact stores a transcript or summary as a plain-text object under
// the given key.
func (a *awsRepository) ArchiveArtifact(ctx context.Context, key string, body string) error {
	contentType := "text/plain; charset=utf-8"
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &a.bucket,
		Key:         &key,
		Body:        strings.NewReader(body),
		ContentType: &contentType,
	})
	if err != nil {
		return errors.Wrapf(err, "failed to archive artifact %s", key)
	}
	return nil
}
