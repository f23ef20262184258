package summaries

import "context"

type AWSRepository interface {
	ArchiveArtifact(ctx context.Context, key string, body string) error
}
