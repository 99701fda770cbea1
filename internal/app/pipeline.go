package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/yourusername/mediafetch/internal/domain"
	"go.uber.org/zap"
)

// ReleaseFunc removes an acquisition's workspace from storage. It is safe
// to call more than once; removal failures are logged, never surfaced.
type ReleaseFunc func()

// Pipeline drives one media acquisition end to end: parse the selection,
// build engine instructions, invoke the engine inside a private workspace,
// and record the outcome. The caller owns delivery of the returned
// artifact and must invoke the release func on every path afterwards.
type Pipeline struct {
	engine  domain.Engine
	repo    domain.AcquisitionRepository
	storage *domain.StorageConfig
	timeout time.Duration
	logger  *zap.Logger
	sem     chan struct{} // caps concurrent engine invocations
}

// NewPipeline creates a new acquisition pipeline
func NewPipeline(
	engine domain.Engine,
	repo domain.AcquisitionRepository,
	storage *domain.StorageConfig,
	engineCfg *domain.EngineConfig,
	logger *zap.Logger,
) *Pipeline {
	return &Pipeline{
		engine:  engine,
		repo:    repo,
		storage: storage,
		timeout: engineCfg.Timeout,
		logger:  logger,
		sem:     make(chan struct{}, engineCfg.MaxConcurrent),
	}
}

// Run executes one acquisition. On success it returns the artifact and a
// release func that deletes the request workspace; the caller streams the
// file and then releases. On failure the workspace is already gone and the
// error carries one of the domain failure kinds.
func (p *Pipeline) Run(ctx context.Context, mediaURL, selection string) (*domain.Artifact, ReleaseFunc, error) {
	plan, err := domain.ParseSelection(selection)
	if err != nil {
		return nil, nil, err
	}

	acq := domain.NewAcquisition(mediaURL, plan)
	if repoErr := p.repo.Create(acq); repoErr != nil {
		// History is diagnostics, not a delivery dependency
		p.logger.Error("Failed to record acquisition", zap.Error(repoErr))
	}

	// Unique per-request workspace: concurrent requests for the same title
	// never share an output path, and cleanup is a single RemoveAll.
	workspace := filepath.Join(p.storage.Dir, acq.ID)
	if err := os.MkdirAll(workspace, 0755); err != nil {
		err = fmt.Errorf("%w: create workspace: %v", domain.ErrEngineUnexpected, err)
		p.recordFailure(acq, err)
		return nil, nil, err
	}

	release := func() {
		if err := os.RemoveAll(workspace); err != nil {
			p.logger.Warn("Failed to remove acquisition workspace",
				zap.String("id", acq.ID),
				zap.String("workspace", workspace),
				zap.Error(err))
		}
	}

	// One slow acquisition must not starve the server; the engine call is
	// bounded by the semaphore and a per-request timeout.
	select {
	case p.sem <- struct{}{}:
	case <-ctx.Done():
		err = fmt.Errorf("%w: %v", domain.ErrEngineUnexpected, ctx.Err())
		p.recordFailure(acq, err)
		release()
		return nil, nil, err
	}

	engineCtx, cancel := context.WithTimeout(ctx, p.timeout)
	artifact, err := p.engine.Acquire(engineCtx, mediaURL, workspace, plan.Instructions())
	cancel()
	<-p.sem

	if err != nil {
		p.recordFailure(acq, err)
		release()
		return nil, nil, err
	}

	acq.MarkCompleted(artifact.Name)
	if repoErr := p.repo.Update(acq); repoErr != nil {
		p.logger.Error("Failed to update acquisition record", zap.Error(repoErr))
	}

	p.logger.Info("Acquisition completed",
		zap.String("id", acq.ID),
		zap.String("url", mediaURL),
		zap.String("kind", string(plan.Kind)),
		zap.String("file", artifact.Name))

	return artifact, release, nil
}

func (p *Pipeline) recordFailure(acq *domain.Acquisition, err error) {
	acq.MarkFailed(err)
	if repoErr := p.repo.Update(acq); repoErr != nil {
		p.logger.Error("Failed to update acquisition record", zap.Error(repoErr))
	}

	p.logger.Error("Acquisition failed",
		zap.String("id", acq.ID),
		zap.String("url", acq.URL),
		zap.String("kind", acq.ErrorKind),
		zap.Error(err))
}
