package verification

import (
	"context"
	"errors"
	"fmt"

	"github.com/securematch/securematch/application/port/inbound"
	"github.com/securematch/securematch/application/port/outbound"
	"github.com/securematch/securematch/domain/entity"
	"github.com/securematch/securematch/infrastructure/service/logger"
)

var (
	// ErrSearchNotAuthorized is the single error for every verification
	// rejection, whatever the internal reason.
	ErrSearchNotAuthorized = errors.New("search not authorized")
	ErrSearchUnavailable   = errors.New("search engine unavailable")
)

type ExternalSearchUseCase struct {
	verifier *Verifier
	engine   outbound.SearchEngine
	logger   logger.Logger
}

func NewExternalSearchUseCase(verifier *Verifier, engine outbound.SearchEngine, log logger.Logger) inbound.ExternalSearchUseCase {
	return &ExternalSearchUseCase{
		verifier: verifier,
		engine:   engine,
		logger:   log,
	}
}

func (uc *ExternalSearchUseCase) Search(ctx context.Context, req inbound.ExternalSearchRequest) (*inbound.ExternalSearchResponse, error) {
	result, err := uc.verifier.Verify(ctx, req.AuditorID, req.KeywordHash, req.Signature)
	if err != nil {
		return nil, err
	}
	if !result.Verified() {
		return nil, ErrSearchNotAuthorized
	}

	results, err := uc.engine.Search(ctx, req.KeywordHash)
	if err != nil {
		uc.logger.Error(ctx, "External search failed after verification", err, map[string]interface{}{
			"auditor_id": req.AuditorID,
			"record_id":  result.Record.ID,
		})
		return nil, fmt.Errorf("%w: %v", ErrSearchUnavailable, err)
	}
	if results == nil {
		results = []entity.SearchResult{}
	}

	uc.logger.Info(ctx, "External search served", map[string]interface{}{
		"auditor_id":  req.AuditorID,
		"key_version": result.Record.KeyVersionUsed,
		"count":       len(results),
	})

	return &inbound.ExternalSearchResponse{
		Results: results,
		Count:   len(results),
	}, nil
}
