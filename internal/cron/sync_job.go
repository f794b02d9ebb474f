package cron

import (
	"context"
	"fmt"

	"github.com/angelmondragon/lucroreal-backend/pkg/logger"
)

const snapshotSyncJobName = "snapshot-sync"

type snapshotSyncer interface {
	Sync(ctx context.Context) (bool, error)
}

type snapshotSyncJob struct {
	logg   *logger.Logger
	syncer snapshotSyncer
}

// NewSnapshotSyncJob builds the job that installs payloads published by other instances.
func NewSnapshotSyncJob(logg *logger.Logger, syncer snapshotSyncer) (Job, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if syncer == nil {
		return nil, fmt.Errorf("snapshot syncer required")
	}
	return &snapshotSyncJob{logg: logg, syncer: syncer}, nil
}

func (j *snapshotSyncJob) Name() string { return snapshotSyncJobName }

func (j *snapshotSyncJob) Run(ctx context.Context) error {
	changed, err := j.syncer.Sync(ctx)
	if err != nil {
		return err
	}
	if changed {
		j.logg.Info(ctx, "snapshot synced from shared store")
	}
	return nil
}
