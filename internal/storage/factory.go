package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"treats/internal/providers"
	"treats/internal/storage/interfaces"
	"treats/internal/structures"
)

var ErrInvalidDSN = errors.New("invalid persistence dsn")

// BuildGateway picks a backend by DSN scheme. A DSN without a scheme is a
// file path.
func BuildGateway(conf *structures.Config, compressor interfaces.CompressorInterface, logger providers.Logger) (interfaces.GatewayInterface, error) {
	dsn := strings.TrimSpace(conf.Persistence.Dsn)
	if dsn == "" {
		return nil, ErrInvalidDSN
	}
	parsed, err := url.Parse(dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDSN, err)
	}

	switch strings.ToLower(parsed.Scheme) {
	case "", "file":
		path := strings.TrimPrefix(dsn, "file://")
		if path == "" {
			return nil, ErrInvalidDSN
		}
		return NewFileManager(path, conf.Persistence.Compress, compressor, logger), nil
	case "memory", "mem":
		return NewMemoryBackend(), nil
	case "postgres", "postgresql":
		return NewPostgresBackend(dsn)
	case "sqlite":
		return NewSQLiteBackend(strings.TrimPrefix(dsn, "sqlite://"))
	case "s3":
		return NewS3Backend(context.Background(), S3Options{
			Bucket:   parsed.Host,
			Key:      strings.TrimPrefix(parsed.Path, "/"),
			Region:   parsed.Query().Get("region"),
			Endpoint: parsed.Query().Get("endpoint"),
		})
	default:
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidDSN, parsed.Scheme)
	}
}

// NewBackupWriter returns a file manager for compressed backups. Backups are
// always compressed regardless of persistence.compress.
func NewBackupWriter(conf *structures.Config, compressor interfaces.CompressorInterface, logger providers.Logger) *FileManager {
	return NewFileManager(conf.Persistence.BackupPath, true, compressor, logger)
}
