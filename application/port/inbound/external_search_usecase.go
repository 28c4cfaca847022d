package inbound

import (
	"context"

	"github.com/securematch/securematch/domain/entity"
)

type ExternalSearchRequest struct {
	AuditorID   int64  `json:"auditor_id" validate:"required"`
	KeywordHash string `json:"keyword_hash" validate:"required"`
	Signature   string `json:"signature" validate:"required"`
}

type ExternalSearchResponse struct {
	Results []entity.SearchResult `json:"results"`
	Count   int                   `json:"count"`
}

type ExternalSearchUseCase interface {
	Search(ctx context.Context, req ExternalSearchRequest) (*ExternalSearchResponse, error)
}
