package interfaces

import "treats/internal/models"

// SnapshotSourceInterface gives read access to the current workspace.
type SnapshotSourceInterface interface {
	View(fn func(s *models.Snapshot) error) error
}

type StandupRearmerInterface interface {
	RearmActive() (int, error)
}

type BackupWriterInterface interface {
	SaveTo(fileName string, snapshot *models.Snapshot, compress bool) error
}
