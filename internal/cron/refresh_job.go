package cron

import (
	"context"
	"fmt"

	"github.com/angelmondragon/lucroreal-backend/internal/analytics/types"
	"github.com/angelmondragon/lucroreal-backend/internal/sources"
	"github.com/angelmondragon/lucroreal-backend/pkg/enums"
	"github.com/angelmondragon/lucroreal-backend/pkg/logger"
)

const sourceRefreshJobName = "source-refresh"

type pairLoader interface {
	Load(ctx context.Context) (salesPayload, costsPayload *sources.Payload, err error)
}

type snapshotRefresher interface {
	Refresh(ctx context.Context, salesReq, costsReq *types.UploadRequest) (types.RefreshResult, error)
}

// SourceRefreshJobParams configures the source refresh job.
type SourceRefreshJobParams struct {
	Logger      *logger.Logger
	Sources     pairLoader
	Analytics   snapshotRefresher
	Marketplace enums.Marketplace
}

type sourceRefreshJob struct {
	logg        *logger.Logger
	sources     pairLoader
	analytics   snapshotRefresher
	marketplace enums.Marketplace
}

// NewSourceRefreshJob builds the job that pulls both sources and swaps them
// into the snapshot as one pair.
func NewSourceRefreshJob(params SourceRefreshJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Sources == nil {
		return nil, fmt.Errorf("sources required")
	}
	if params.Analytics == nil {
		return nil, fmt.Errorf("analytics service required")
	}
	return &sourceRefreshJob{
		logg:        params.Logger,
		sources:     params.Sources,
		analytics:   params.Analytics,
		marketplace: params.Marketplace,
	}, nil
}

func (j *sourceRefreshJob) Name() string { return sourceRefreshJobName }

func (j *sourceRefreshJob) Run(ctx context.Context) error {
	salesPayload, costsPayload, err := j.sources.Load(ctx)
	if err != nil {
		return fmt.Errorf("load sources: %w", err)
	}
	result, err := j.analytics.Refresh(ctx, j.request(salesPayload), j.request(costsPayload))
	if err != nil {
		return fmt.Errorf("refresh snapshot: %w", err)
	}

	logCtx := j.logg.WithSnapshotVersion(ctx, result.Snapshot.Version)
	if result.Unchanged {
		j.logg.Debug(logCtx, "sources unchanged")
		return nil
	}
	j.logg.Info(j.logg.WithFields(logCtx, map[string]any{
		"sales_refreshed": result.Sales != nil,
		"costs_refreshed": result.Costs != nil,
	}), "sources refreshed")
	return nil
}

func (j *sourceRefreshJob) request(p *sources.Payload) *types.UploadRequest {
	if p == nil {
		return nil
	}
	return &types.UploadRequest{Name: p.Name, Data: p.Data, Marketplace: j.marketplace}
}
