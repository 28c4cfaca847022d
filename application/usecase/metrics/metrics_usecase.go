package metrics

import (
	"context"
	"time"

	"github.com/securematch/securematch/application/port/inbound"
	"github.com/securematch/securematch/application/port/outbound"
	"github.com/securematch/securematch/domain/entity"
)

const DefaultWindow = 24 * time.Hour

// Aggregator derives SystemMetrics on every read. Nothing is cached or
// stored, so an empty audit log simply yields zero counters.
type Aggregator struct {
	auditorRepo  outbound.AuditorRepository
	auditLogRepo outbound.AuditLogRepository
	indexStats   outbound.IndexStatsProvider
	window       time.Duration
	now          func() time.Time
}

func NewAggregator(
	auditorRepo outbound.AuditorRepository,
	auditLogRepo outbound.AuditLogRepository,
	indexStats outbound.IndexStatsProvider,
	window time.Duration,
) *Aggregator {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Aggregator{
		auditorRepo:  auditorRepo,
		auditLogRepo: auditLogRepo,
		indexStats:   indexStats,
		window:       window,
		now:          time.Now,
	}
}

// Aggregate computes rollups over the trailing window ending now.
func (a *Aggregator) Aggregate(ctx context.Context) (*entity.SystemMetrics, []*entity.Auditor, error) {
	now := a.now()

	summary, err := a.auditLogRepo.Summarize(ctx, now.Add(-a.window))
	if err != nil {
		return nil, nil, outbound.WrapPersistence("summarize audit log", err)
	}
	stats, err := a.indexStats.Stats(ctx)
	if err != nil {
		return nil, nil, outbound.WrapPersistence("read index stats", err)
	}
	auditors, err := a.auditorRepo.ListActive(ctx)
	if err != nil {
		return nil, nil, outbound.WrapPersistence("list auditors", err)
	}

	rejections := make(map[string]int, len(entity.RejectionOutcomes))
	for _, outcome := range entity.RejectionOutcomes {
		rejections[string(outcome)] = summary.RejectionsByReason[outcome]
	}

	return &entity.SystemMetrics{
		TotalDocuments:                stats.TotalDocuments,
		TotalTokens:                   stats.TotalTokens,
		ExternalTokens:                stats.ExternalTokens,
		ExternalSearchesLast24h:       summary.Total,
		FailedExternalSearchesLast24h: summary.Failed,
		AvgExternalSearchMs:           summary.AvgDurationMs,
		LastIndexUpdate:               stats.LastIndexUpdate,
		ActiveAuditors:                len(auditors),
		RejectionsByReason:            rejections,
		Window:                        a.window.String(),
		GeneratedAt:                   now,
	}, auditors, nil
}

type MetricsUseCaseImpl struct {
	aggregator *Aggregator
}

func NewMetricsUseCase(aggregator *Aggregator) inbound.MetricsUseCase {
	return &MetricsUseCaseImpl{aggregator: aggregator}
}

func (uc *MetricsUseCaseImpl) InternalMetrics(ctx context.Context) (*inbound.InternalMetricsResponse, error) {
	m, auditors, err := uc.aggregator.Aggregate(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]inbound.AuditorListItem, 0, len(auditors))
	for _, a := range auditors {
		items = append(items, inbound.AuditorListItem{
			AuditorID:        a.ID,
			Name:             a.Name,
			ActiveKeyVersion: a.ActiveKeyVersion,
		})
	}

	return &inbound.InternalMetricsResponse{
		SystemMetrics: *m,
		Auditors:      items,
	}, nil
}

// ExternalMetrics hides the security counters and the auditor list.
func (uc *MetricsUseCaseImpl) ExternalMetrics(ctx context.Context) (*inbound.ExternalMetricsResponse, error) {
	m, _, err := uc.aggregator.Aggregate(ctx)
	if err != nil {
		return nil, err
	}
	return &inbound.ExternalMetricsResponse{
		SystemMetrics: inbound.ExternalSystemMetrics{
			TotalDocuments:          m.TotalDocuments,
			TotalTokens:             m.TotalTokens,
			ExternalSearchesLast24h: m.ExternalSearchesLast24h,
			LastIndexUpdate:         m.LastIndexUpdate,
		},
	}, nil
}
