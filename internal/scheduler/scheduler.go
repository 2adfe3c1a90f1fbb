package scheduler

import (
	"sync"
	"time"
	"treats/internal/models"
	"treats/internal/providers"
	"treats/internal/scheduler/interfaces"
	"treats/internal/structures"

	"github.com/roylee0704/gron"
)

type Scheduler struct {
	config   *structures.Config
	logger   providers.Logger
	source   interfaces.SnapshotSourceInterface
	standups interfaces.StandupRearmerInterface
	backups  interfaces.BackupWriterInterface
	timers   interfaces.TimersInterface
	cron     *gron.Cron
	opsMu    sync.Mutex
}

// Init starts the periodic backup job when a backup interval is configured.
func (s *Scheduler) Init() {
	interval := s.config.Persistence.BackupInterval
	if interval <= 0 || s.config.Persistence.BackupPath == "" {
		return
	}

	s.cron = gron.New()
	s.cron.AddFunc(gron.Every(interval), func() {
		if err := s.backup(); err != nil {
			s.logger.Errorf(providers.TypeApp, "Error while writing backup: %s", err)
			return
		}
		s.logger.Infof(providers.TypeApp, "Backup written to %s", s.config.Persistence.BackupPath)
	})
	s.cron.Start()
}

// Stop halts the backup job and every pending standup timer.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
	s.timers.Stop()
}

// Restore arms the standups the snapshot marks active. It runs at startup and
// again after the snapshot file is changed from outside.
func (s *Scheduler) Restore() error {
	n, err := s.standups.RearmActive()
	if err != nil {
		return err
	}
	s.logger.Infof(providers.TypeApp, "Armed %d active standups", n)
	return nil
}

// Persist writes a final backup. The workspace itself is saved on every
// mutation, so without a backup path there is nothing to do.
func (s *Scheduler) Persist() error {
	if s.config.Persistence.BackupPath == "" {
		return nil
	}
	s.logger.Infof(providers.TypeApp, "Writing final backup to %s...", s.config.Persistence.BackupPath)
	if err := s.backup(); err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while writing backup: %s", err)
		return err
	}
	return nil
}

func (s *Scheduler) backup() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	var snapshot *models.Snapshot
	err := s.source.View(func(snap *models.Snapshot) error {
		snapshot = snap
		return nil
	})
	if err != nil {
		return err
	}
	start := time.Now()
	if err := s.backups.SaveTo(s.config.Persistence.BackupPath, snapshot, true); err != nil {
		return err
	}
	s.logger.Debugf(providers.TypeApp, "Backup of revision %d took %s", snapshot.Revision, time.Since(start))
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, source interfaces.SnapshotSourceInterface, standups interfaces.StandupRearmerInterface, backups interfaces.BackupWriterInterface, timers interfaces.TimersInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:   config,
		logger:   logger,
		source:   source,
		standups: standups,
		backups:  backups,
		timers:   timers,
	}
}
