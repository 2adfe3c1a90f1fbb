package providers

import (
	"fmt"
	"treats/internal/structures"

	"github.com/gookit/validate"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	if !v.Validate() {
		return fmt.Errorf("invalid config: %s", v.Errors.One())
	}
	if cv.conf.Persistence.BackupInterval < 0 {
		return fmt.Errorf("invalid config: persistence.backupInterval must not be negative")
	}
	if cv.conf.Persistence.BackupInterval > 0 && cv.conf.Persistence.BackupPath == "" {
		return fmt.Errorf("invalid config: persistence.backupPath is required when backups are enabled")
	}
	return nil
}
