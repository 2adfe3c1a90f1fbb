//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"treats/internal"
	"treats/internal/auth"
	"treats/internal/controllers"
	"treats/internal/providers"
	"treats/internal/scheduler"
	schedulerInterfaces "treats/internal/scheduler/interfaces"
	"treats/internal/services"
	"treats/internal/storage"
	"treats/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		storage.NewZstdCompressor,
		storage.BuildGateway,
		storage.NewBackupWriter,
		auth.NewTokenIssuer,

		services.NewWorkspace,
		services.NewAuthService,
		services.NewChannelService,
		services.NewDmService,
		services.NewMessageService,
		services.NewStandupService,
		services.NewUserService,
		services.NewAdminService,

		scheduler.NewTimers,
		scheduler.NewScheduler,
		wire.Bind(new(schedulerInterfaces.SnapshotSourceInterface), new(services.WorkspaceInterface)),
		wire.Bind(new(schedulerInterfaces.StandupRearmerInterface), new(services.StandupServiceInterface)),
		wire.Bind(new(schedulerInterfaces.BackupWriterInterface), new(*storage.FileManager)),

		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
