package outbound

import (
	"context"

	"github.com/securematch/securematch/domain/entity"
)

// SearchEngine executes an authorized search over the document index.
type SearchEngine interface {
	Search(ctx context.Context, keywordHash string) ([]entity.SearchResult, error)
}

// IndexStatsProvider reports on the document index for the metrics surface.
type IndexStatsProvider interface {
	Stats(ctx context.Context) (*entity.IndexStats, error)
}
