package interfaces

import "treats/internal/models"

// GatewayInterface loads and saves the whole workspace at once. Save replaces
// the stored snapshot entirely.
type GatewayInterface interface {
	Load() (*models.Snapshot, error)
	Save(snapshot *models.Snapshot) error
	Close() error
}
