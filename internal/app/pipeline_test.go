package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/mediafetch/internal/domain"
	"go.uber.org/zap"
)

// fakeEngine writes a canned file into the workspace or fails with a
// canned error
type fakeEngine struct {
	mu       sync.Mutex
	calls    int
	fileName string
	err      error
}

func (f *fakeEngine) Acquire(ctx context.Context, url, workspace string, inst domain.EngineInstructions) (*domain.Artifact, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}

	path := filepath.Join(workspace, f.fileName)
	if err := os.WriteFile(path, []byte("media bytes"), 0644); err != nil {
		return nil, err
	}
	return &domain.Artifact{Path: path, Name: f.fileName}, nil
}

// memoryRepo is an in-memory AcquisitionRepository for tests
type memoryRepo struct {
	mu      sync.Mutex
	records map[string]*domain.Acquisition
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{records: make(map[string]*domain.Acquisition)}
}

func (m *memoryRepo) Create(acq *domain.Acquisition) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *acq
	m.records[acq.ID] = &copied
	return nil
}

func (m *memoryRepo) Update(acq *domain.Acquisition) error {
	return m.Create(acq)
}

func (m *memoryRepo) FindByID(id string) (*domain.Acquisition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	acq, ok := m.records[id]
	if !ok {
		return nil, fmt.Errorf("not found: %s", id)
	}
	return acq, nil
}

func (m *memoryRepo) FindRecent(limit int) ([]*domain.Acquisition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Acquisition
	for _, acq := range m.records {
		out = append(out, acq)
	}
	return out, nil
}

func (m *memoryRepo) GetStats() (*domain.AcquisitionStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &domain.AcquisitionStats{Total: int64(len(m.records))}
	for _, acq := range m.records {
		switch acq.Status {
		case domain.StatusCompleted:
			stats.Completed++
		case domain.StatusFailed:
			stats.Failed++
		}
	}
	return stats, nil
}

func (m *memoryRepo) only(t *testing.T) *domain.Acquisition {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.Len(t, m.records, 1)
	for _, acq := range m.records {
		return acq
	}
	return nil
}

func newTestPipeline(t *testing.T, engine domain.Engine, repo domain.AcquisitionRepository) (*Pipeline, string) {
	t.Helper()
	storageDir := t.TempDir()
	pipeline := NewPipeline(engine, repo,
		&domain.StorageConfig{Dir: storageDir},
		&domain.EngineConfig{Timeout: time.Minute, MaxConcurrent: 2},
		zap.NewNop())
	return pipeline, storageDir
}

func TestPipeline_Success(t *testing.T) {
	engine := &fakeEngine{fileName: "My Video.mp4"}
	repo := newMemoryRepo()
	pipeline, storageDir := newTestPipeline(t, engine, repo)

	artifact, release, err := pipeline.Run(context.Background(), "https://example.com/video1", "mp4-720")
	require.NoError(t, err)
	require.NotNil(t, release)

	assert.Equal(t, "My Video.mp4", artifact.Name)
	assert.FileExists(t, artifact.Path)

	// Release removes the whole request workspace
	release()
	assert.NoFileExists(t, artifact.Path)
	entries, err := os.ReadDir(storageDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no workspace may remain under the storage root")

	record := repo.only(t)
	assert.Equal(t, domain.StatusCompleted, record.Status)
	assert.Equal(t, "My Video.mp4", record.FileName)
}

func TestPipeline_InvalidSelection_NoEngineCall(t *testing.T) {
	engine := &fakeEngine{fileName: "x.mp4"}
	pipeline, storageDir := newTestPipeline(t, engine, newMemoryRepo())

	_, _, err := pipeline.Run(context.Background(), "https://example.com/video1", "bad")
	assert.ErrorIs(t, err, domain.ErrInvalidSelection)
	assert.Zero(t, engine.calls, "malformed selections must not reach the engine")

	entries, readErr := os.ReadDir(storageDir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestPipeline_ExtractionFailure_CleansWorkspace(t *testing.T) {
	engine := &fakeEngine{err: fmt.Errorf("%w: private video", domain.ErrExtractionFailed)}
	repo := newMemoryRepo()
	pipeline, storageDir := newTestPipeline(t, engine, repo)

	_, release, err := pipeline.Run(context.Background(), "https://example.com/video1", "mp4-720")
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
	assert.Nil(t, release)

	entries, readErr := os.ReadDir(storageDir)
	require.NoError(t, readErr)
	assert.Empty(t, entries, "failed acquisitions must leave no workspace behind")

	record := repo.only(t)
	assert.Equal(t, domain.StatusFailed, record.Status)
	assert.Equal(t, "extraction_failed", record.ErrorKind)
}

func TestPipeline_RetryAfterFailureLeavesNoResidue(t *testing.T) {
	engine := &fakeEngine{err: fmt.Errorf("%w: boom", domain.ErrEngineUnexpected)}
	pipeline, storageDir := newTestPipeline(t, engine, newMemoryRepo())

	for i := 0; i < 2; i++ {
		_, _, err := pipeline.Run(context.Background(), "https://example.com/video1", "mp4-720")
		assert.ErrorIs(t, err, domain.ErrEngineUnexpected)
	}

	entries, err := os.ReadDir(storageDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPipeline_SameTitleRequestsGetSeparateWorkspaces(t *testing.T) {
	engine := &fakeEngine{fileName: "Same Title.mp4"}
	pipeline, _ := newTestPipeline(t, engine, newMemoryRepo())

	a, releaseA, err := pipeline.Run(context.Background(), "https://example.com/video1", "mp4-720")
	require.NoError(t, err)
	defer releaseA()

	b, releaseB, err := pipeline.Run(context.Background(), "https://example.com/video1", "mp4-720")
	require.NoError(t, err)

	assert.NotEqual(t, a.Path, b.Path, "identical titles must not collide")

	// Releasing one request must not touch the other's artifact
	releaseB()
	assert.FileExists(t, a.Path)
}
