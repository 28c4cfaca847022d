package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/securematch/securematch/application/port/outbound"
	"github.com/securematch/securematch/domain/entity"
)

// SearchIndex is an in-process stand-in for the token index owned by the
// ingestion pipeline. Documents are added with their keyword hashes. Only
// external-scope tokens are visible to Search.
type SearchIndex struct {
	mu          sync.RWMutex
	documents   map[int64]time.Time
	internal    map[string]map[int64]struct{}
	external    map[string]map[int64]struct{}
	tokenCount  int
	externalCnt int
	lastUpdated *time.Time
}

func NewSearchIndex() *SearchIndex {
	return &SearchIndex{
		documents: make(map[int64]time.Time),
		internal:  make(map[string]map[int64]struct{}),
		external:  make(map[string]map[int64]struct{}),
	}
}

var (
	_ outbound.SearchEngine       = (*SearchIndex)(nil)
	_ outbound.IndexStatsProvider = (*SearchIndex)(nil)
)

// AddDocument indexes documentID under each keyword hash, in the external
// scope when external is set and the internal scope otherwise.
func (s *SearchIndex) AddDocument(documentID int64, createdAt time.Time, keywordHashes []string, external bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	scope := s.internal
	if external {
		scope = s.external
	}

	s.documents[documentID] = createdAt
	for _, h := range keywordHashes {
		docs, ok := scope[h]
		if !ok {
			docs = make(map[int64]struct{})
			scope[h] = docs
		}
		docs[documentID] = struct{}{}
		s.tokenCount++
		if external {
			s.externalCnt++
		}
	}
	if s.lastUpdated == nil || createdAt.After(*s.lastUpdated) {
		t := createdAt
		s.lastUpdated = &t
	}
}

func (s *SearchIndex) Search(ctx context.Context, keywordHash string) ([]entity.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]entity.SearchResult, 0, len(s.external[keywordHash]))
	for id := range s.external[keywordHash] {
		results = append(results, entity.SearchResult{DocumentID: id, CreatedAt: s.documents[id]})
	}
	sort.Slice(results, func(i, j int) bool {
		if !results[i].CreatedAt.Equal(results[j].CreatedAt) {
			return results[i].CreatedAt.After(results[j].CreatedAt)
		}
		return results[i].DocumentID > results[j].DocumentID
	})
	return results, nil
}

func (s *SearchIndex) Stats(ctx context.Context) (*entity.IndexStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &entity.IndexStats{
		TotalDocuments: len(s.documents),
		TotalTokens:    s.tokenCount,
		ExternalTokens: s.externalCnt,
	}
	if s.lastUpdated != nil {
		t := *s.lastUpdated
		stats.LastIndexUpdate = &t
	}
	return stats, nil
}
