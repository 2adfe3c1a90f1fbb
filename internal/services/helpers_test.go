package services

import (
	"fmt"
	"testing"
	"treats/internal/auth"
	"treats/internal/models"
	"treats/internal/scheduler"
	"treats/internal/scheduler/interfaces"
	"treats/internal/structures"
	"treats/internal/testutil"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	conf     *structures.Config
	gateway  *testutil.MockGateway
	logger   *testutil.MockLogger
	metrics  *testutil.MockMetrics
	timers   interfaces.TimersInterface
	ws       WorkspaceInterface
	auth     AuthServiceInterface
	channels ChannelServiceInterface
	dms      DmServiceInterface
	messages MessageServiceInterface
	standups StandupServiceInterface
	users    UserServiceInterface
	admin    AdminServiceInterface
}

func testConfig() *structures.Config {
	return &structures.Config{
		Auth: structures.AuthConfig{
			Secret:     "test-secret-0123456789",
			BcryptCost: bcrypt.MinCost,
		},
	}
}

func newFixtureWithConfig(t *testing.T, conf *structures.Config) *fixture {
	t.Helper()
	f := &fixture{
		conf:    conf,
		gateway: &testutil.MockGateway{},
		logger:  &testutil.MockLogger{},
		metrics: &testutil.MockMetrics{},
		timers:  scheduler.NewTimers(),
	}
	t.Cleanup(f.timers.Stop)
	f.ws = NewWorkspace(f.gateway, f.logger, f.metrics)
	f.auth = NewAuthService(conf, f.ws, auth.NewTokenIssuer(conf), f.logger)
	f.channels = NewChannelService(conf, f.ws, f.logger)
	f.dms = NewDmService(conf, f.ws, f.logger)
	f.messages = NewMessageService(f.ws, f.logger)
	f.standups = NewStandupService(f.ws, f.timers, f.logger, f.metrics)
	f.users = NewUserService(f.ws, f.logger)
	f.admin = NewAdminService(f.ws, f.logger)
	return f
}

func newFixture(t *testing.T) *fixture {
	return newFixtureWithConfig(t, testConfig())
}

// register creates a user named after first and last and returns its id.
func (f *fixture) register(t *testing.T, first, last string) int {
	t.Helper()
	return f.registerAs(t, fmt.Sprintf("%s.%s@example.com", first, last), first, last)
}

func (f *fixture) registerAs(t *testing.T, email, first, last string) int {
	t.Helper()
	res, err := f.auth.Register(email, "password123", first, last)
	require.NoError(t, err)
	return res.AuthUserID
}

func (f *fixture) createChannel(t *testing.T, owner int, name string, public bool) int {
	t.Helper()
	id, err := f.channels.Create(owner, name, public)
	require.NoError(t, err)
	return id
}

func (f *fixture) snapshot() *models.Snapshot {
	return f.gateway.Snapshot()
}

func (f *fixture) user(t *testing.T, id int) *models.User {
	t.Helper()
	u := f.snapshot().User(id)
	require.NotNil(t, u)
	return u
}

// assertOwnersSubset checks that every channel owner is also a member.
func (f *fixture) assertOwnersSubset(t *testing.T) {
	t.Helper()
	for _, c := range f.snapshot().Channels {
		for _, o := range c.OwnerMembers {
			require.True(t, c.IsMember(o.ID), "owner %d of channel %d is not a member", o.ID, c.ID)
		}
	}
}
