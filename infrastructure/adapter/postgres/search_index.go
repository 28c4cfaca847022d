package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/securematch/securematch/application/port/outbound"
	"github.com/securematch/securematch/domain/entity"
)

// Index token scopes. Only external tokens answer auditor searches.
const (
	TokenScopeInternal = "internal"
	TokenScopeExternal = "external"
)

// SearchIndexAdapter reads the token index written by the ingestion side.
type SearchIndexAdapter struct {
	db *sql.DB
}

func NewSearchIndexAdapter(db *sql.DB) *SearchIndexAdapter {
	return &SearchIndexAdapter{
		db: db,
	}
}

var (
	_ outbound.SearchEngine       = (*SearchIndexAdapter)(nil)
	_ outbound.IndexStatsProvider = (*SearchIndexAdapter)(nil)
)

func (s *SearchIndexAdapter) Search(ctx context.Context, keywordHash string) ([]entity.SearchResult, error) {
	query := `
		SELECT DISTINCT d.id, d.created_at
		FROM search_token_index t
		JOIN encrypted_documents d ON d.id = t.document_id
		WHERE t.token = $1 AND t.scope = $2
		ORDER BY d.created_at DESC, d.id DESC
	`

	rows, err := s.db.QueryContext(ctx, query, keywordHash, TokenScopeExternal)
	if err != nil {
		return nil, fmt.Errorf("failed to search token index: %w", err)
	}
	defer rows.Close()

	results := make([]entity.SearchResult, 0)
	for rows.Next() {
		var res entity.SearchResult
		if err := rows.Scan(&res.DocumentID, &res.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan search result: %w", err)
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate search results: %w", err)
	}
	return results, nil
}

func (s *SearchIndexAdapter) Stats(ctx context.Context) (*entity.IndexStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM encrypted_documents),
			(SELECT COUNT(*) FROM search_token_index),
			(SELECT COUNT(*) FROM search_token_index WHERE scope = $1),
			(SELECT MAX(created_at) FROM encrypted_documents)
	`

	var stats entity.IndexStats
	var lastUpdate sql.NullTime
	if err := s.db.QueryRowContext(ctx, query, TokenScopeExternal).Scan(
		&stats.TotalDocuments,
		&stats.TotalTokens,
		&stats.ExternalTokens,
		&lastUpdate,
	); err != nil {
		return nil, fmt.Errorf("failed to read index stats: %w", err)
	}
	if lastUpdate.Valid {
		stats.LastIndexUpdate = &lastUpdate.Time
	}
	return &stats, nil
}

// AddDocument stores a document blob and its index tokens in one
// transaction. It is used by seeding and ingestion tooling.
func (s *SearchIndexAdapter) AddDocument(ctx context.Context, encryptedBlob []byte, tokens []string, scope string) (int64, error) {
	var documentID int64
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, `
			INSERT INTO encrypted_documents (encrypted_blob, created_at)
			VALUES ($1, NOW())
			RETURNING id
		`, string(encryptedBlob)).Scan(&documentID); err != nil {
			return fmt.Errorf("failed to insert document: %w", err)
		}

		for _, token := range tokens {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO search_token_index (token, scope, document_id)
				VALUES ($1, $2, $3)
			`, token, scope, documentID); err != nil {
				return fmt.Errorf("failed to insert index token: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return documentID, nil
}
