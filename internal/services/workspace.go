package services

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
	"treats/internal/models"
	"treats/internal/providers"
	"treats/internal/storage/interfaces"
)

type WorkspaceInterface interface {
	Update(operation string, fn func(s *models.Snapshot) error) error
	View(fn func(s *models.Snapshot) error) error
	Revision() int64
	Counts() (models.Counts, error)
	Refresh() error
}

// Workspace serializes every load-mutate-save cycle against the gateway. A
// snapshot is saved only when the mutation returns nil.
type Workspace struct {
	mu       sync.Mutex
	gateway  interfaces.GatewayInterface
	logger   providers.Logger
	metrics  providers.MetricsProviderInterface
	revision atomic.Int64
}

func NewWorkspace(gateway interfaces.GatewayInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) WorkspaceInterface {
	return &Workspace{
		gateway: gateway,
		logger:  logger,
		metrics: metrics,
	}
}

func (w *Workspace) load() (*models.Snapshot, error) {
	start := time.Now()
	s, err := w.gateway.Load()
	w.metrics.ObservePersistenceDuration("load", time.Since(start))
	if err != nil {
		w.logger.Errorf(providers.TypeApp, "Error while loading workspace: %s", err)
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	w.revision.Store(s.Revision)
	return s, nil
}

func (w *Workspace) Update(operation string, fn func(s *models.Snapshot) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	s, err := w.load()
	if err != nil {
		return err
	}
	if err := fn(s); err != nil {
		return err
	}

	s.Revision++
	start := time.Now()
	err = w.gateway.Save(s)
	w.metrics.ObservePersistenceDuration("save", time.Since(start))
	if err != nil {
		w.logger.Errorf(providers.TypeApp, "Error while saving workspace after %s: %s", operation, err)
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	w.revision.Store(s.Revision)
	w.logger.Debugf(providers.TypeApp, "%s saved revision %d", operation, s.Revision)
	return nil
}

// View loads the snapshot under the same lock as Update. Changes made by fn
// are discarded.
func (w *Workspace) View(fn func(s *models.Snapshot) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	s, err := w.load()
	if err != nil {
		return err
	}
	return fn(s)
}

// Revision is the revision seen by the last load or save.
func (w *Workspace) Revision() int64 {
	return w.revision.Load()
}

func (w *Workspace) Counts() (models.Counts, error) {
	var counts models.Counts
	err := w.View(func(s *models.Snapshot) error {
		counts = s.Counts()
		return nil
	})
	return counts, err
}

// Refresh reloads the revision after the snapshot was changed outside the
// process.
func (w *Workspace) Refresh() error {
	return w.View(func(*models.Snapshot) error { return nil })
}
