package services

import (
	"fmt"
	"testing"
	"time"
	"treats/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenario_PrivateChannelForbidden(t *testing.T) {
	f := newFixture(t)
	u1 := f.register(t, "Ada", "Lovelace")
	u2 := f.register(t, "Alan", "Turing")

	assert.Equal(t, models.PermissionGlobalOwner, f.user(t, u1).Permission)
	assert.Equal(t, models.PermissionMember, f.user(t, u2).Permission)

	c := f.createChannel(t, u1, "secret", false)
	err := f.channels.Join(u2, c)
	assert.ErrorIs(t, err, ErrPrivateChannel)
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindAuthorization, kind)
}

func TestScenario_EditToEmptyDeletesDmMessage(t *testing.T) {
	f := newFixture(t)
	u1 := f.register(t, "Ada", "Lovelace")
	u2 := f.register(t, "Alan", "Turing")
	dm, err := f.dms.Create(u1, []int{u2})
	require.NoError(t, err)
	id, err := f.messages.SendDm(u1, dm, "hi")
	require.NoError(t, err)

	// u2 is neither author nor owner
	assert.ErrorIs(t, f.messages.Edit(u2, id, ""), ErrForbidden)

	require.NoError(t, f.messages.Edit(u1, id, ""))
	assert.Empty(t, f.snapshot().Dm(dm).Messages)
}

func TestScenario_Pagination(t *testing.T) {
	f := newFixture(t)
	u1 := f.register(t, "Ada", "Lovelace")
	c := f.createChannel(t, u1, "general", true)
	for i := 0; i < 64; i++ {
		_, err := f.messages.SendChannel(u1, c, fmt.Sprintf("message %d", i))
		require.NoError(t, err)
	}

	page, err := f.messages.ListChannel(u1, c, 0)
	require.NoError(t, err)
	require.Len(t, page.Messages, 50)
	assert.Equal(t, 50, page.End)
	assert.Equal(t, "message 63", page.Messages[0].Body)

	page, err = f.messages.ListChannel(u1, c, 50)
	require.NoError(t, err)
	require.Len(t, page.Messages, 14)
	assert.Equal(t, models.EndOfMessages, page.End)
	assert.Equal(t, "message 0", page.Messages[13].Body)
}

func TestScenario_SoleGlobalOwner(t *testing.T) {
	f := newFixture(t)
	u1 := f.register(t, "Ada", "Lovelace")

	err := f.admin.ChangePermission(u1, u1, models.PermissionMember)
	assert.ErrorIs(t, err, ErrSoleGlobalOwner)
	assert.True(t, f.user(t, u1).IsGlobalOwner())
}

func TestScenario_StandupFlush(t *testing.T) {
	f := newFixture(t)
	u1 := f.register(t, "Ada", "Lovelace")
	c := f.createChannel(t, u1, "general", true)

	_, err := f.standups.Start(u1, c, 1)
	require.NoError(t, err)
	require.NoError(t, f.standups.Send(u1, c, "first"))
	require.NoError(t, f.standups.Send(u1, c, "second"))

	require.Eventually(t, func() bool {
		return len(f.snapshot().Channel(c).Messages) == 1
	}, 3*time.Second, 20*time.Millisecond)
	assert.Equal(t, "adalovelace: first\nadalovelace: second", f.snapshot().Channel(c).Messages[0].Body)
}

func TestScenario_FailedCallsDoNotSave(t *testing.T) {
	f := newFixture(t)
	u1 := f.register(t, "Ada", "Lovelace")
	c := f.createChannel(t, u1, "general", true)
	saves := f.gateway.Saves
	revision := f.snapshot().Revision

	assert.Error(t, f.channels.Join(u1, c))
	_, err := f.messages.SendChannel(u1, c, "")
	assert.Error(t, err)
	assert.Error(t, f.admin.ChangePermission(u1, u1, models.PermissionMember))

	assert.Equal(t, saves, f.gateway.Saves)
	assert.Equal(t, revision, f.snapshot().Revision)
}
