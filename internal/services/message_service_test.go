package services

import (
	"strings"
	"testing"
	"treats/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequence returns an intn that yields the given values in order and then
// counts upward from the last one.
func sequence(values ...int) func(int) int {
	i := 0
	return func(n int) int {
		if i < len(values) {
			v := values[i]
			i++
			return v % n
		}
		i++
		return (values[len(values)-1] + i) % n
	}
}

func TestMessage_SendChannel(t *testing.T) {
	f := newFixture(t)
	u1 := f.register(t, "Ada", "Lovelace")
	u2 := f.register(t, "Alan", "Turing")
	c := f.createChannel(t, u1, "general", true)

	_, err := f.messages.SendChannel(u1, 99, "hi")
	assert.ErrorIs(t, err, ErrUnknownChannel)
	_, err = f.messages.SendChannel(u1, c, "")
	assert.ErrorIs(t, err, ErrBodyTooShort)
	_, err = f.messages.SendChannel(u1, c, strings.Repeat("a", models.MaxMessageLength+1))
	assert.ErrorIs(t, err, ErrBodyTooLong)
	_, err = f.messages.SendChannel(u2, c, "hi")
	assert.ErrorIs(t, err, ErrNotMember)

	first, err := f.messages.SendChannel(u1, c, "first")
	require.NoError(t, err)
	second, err := f.messages.SendChannel(u1, c, strings.Repeat("b", models.MaxMessageLength))
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.GreaterOrEqual(t, first, minMessageID)

	ch := f.snapshot().Channel(c)
	require.Len(t, ch.Messages, 2)
	assert.Equal(t, second, ch.Messages[0].ID)
	assert.Equal(t, first, ch.Messages[1].ID)
	assert.Equal(t, u1, ch.Messages[1].UserID)

	stats := f.user(t, u1).Stats
	assert.Equal(t, 2, stats.LatestMessagesSent())
	assert.Len(t, stats.MessagesSent, 3)
}

func TestMessage_IDsAreUniqueAcrossContainers(t *testing.T) {
	f := newFixture(t)
	f.messages.(*MessageService).intn = sequence(0, 0, 0, 1, 1, 2)
	u1 := f.register(t, "Ada", "Lovelace")
	u2 := f.register(t, "Alan", "Turing")
	c := f.createChannel(t, u1, "general", true)
	dm, err := f.dms.Create(u1, []int{u2})
	require.NoError(t, err)

	a, err := f.messages.SendChannel(u1, c, "a")
	require.NoError(t, err)
	b, err := f.messages.SendDm(u2, dm, "b")
	require.NoError(t, err)
	d, err := f.messages.SendChannel(u1, c, "c")
	require.NoError(t, err)

	assert.Equal(t, minMessageID, a)
	assert.Equal(t, minMessageID+1, b)
	assert.Equal(t, minMessageID+2, d)

	seen := map[int]bool{}
	f.snapshot().MessageIDs(func(id int) {
		assert.False(t, seen[id], "duplicate message id %d", id)
		seen[id] = true
	})
	assert.Len(t, seen, 3)
}

func TestMessage_SendDm(t *testing.T) {
	f := newFixture(t)
	u1 := f.register(t, "Ada", "Lovelace")
	u2 := f.register(t, "Alan", "Turing")
	u3 := f.register(t, "Grace", "Hopper")
	dm, err := f.dms.Create(u1, []int{u2})
	require.NoError(t, err)

	_, err = f.messages.SendDm(u1, 9, "hi")
	assert.ErrorIs(t, err, ErrUnknownDm)
	_, err = f.messages.SendDm(u3, dm, "hi")
	assert.ErrorIs(t, err, ErrNotMember)

	id, err := f.messages.SendDm(u2, dm, "hi")
	require.NoError(t, err)
	assert.Equal(t, id, f.snapshot().Dm(dm).Messages[0].ID)
	assert.Equal(t, 1, f.user(t, u2).Stats.LatestMessagesSent())
}

func TestMessage_Edit(t *testing.T) {
	f := newFixture(t)
	u1 := f.register(t, "Ada", "Lovelace")
	u2 := f.register(t, "Alan", "Turing")
	u3 := f.register(t, "Grace", "Hopper")
	c := f.createChannel(t, u2, "general", true)
	require.NoError(t, f.channels.Join(u3, c))
	require.NoError(t, f.channels.Join(u1, c))
	id, err := f.messages.SendChannel(u3, c, "original")
	require.NoError(t, err)

	assert.ErrorIs(t, f.messages.Edit(u3, id, strings.Repeat("x", models.MaxMessageLength+1)), ErrBodyTooLong)
	assert.ErrorIs(t, f.messages.Edit(u3, 1, "new"), ErrUnknownMessage)
	// a global owner without channel ownership cannot edit other people's messages
	assert.ErrorIs(t, f.messages.Edit(u1, id, "new"), ErrForbidden)

	require.NoError(t, f.messages.Edit(u3, id, "by author"))
	assert.Equal(t, "by author", f.snapshot().Channel(c).Messages[0].Body)
	require.NoError(t, f.messages.Edit(u2, id, "by owner"))
	assert.Equal(t, "by owner", f.snapshot().Channel(c).Messages[0].Body)

	require.NoError(t, f.channels.Leave(u3, c))
	assert.ErrorIs(t, f.messages.Edit(u3, id, "gone"), ErrUnknownMessage)
}

func TestMessage_EditEmptyDeletes(t *testing.T) {
	f := newFixture(t)
	u1 := f.register(t, "Ada", "Lovelace")
	c := f.createChannel(t, u1, "general", true)
	id, err := f.messages.SendChannel(u1, c, "hello")
	require.NoError(t, err)

	require.NoError(t, f.messages.Edit(u1, id, ""))
	assert.Empty(t, f.snapshot().Channel(c).Messages)
	// deleting through edit leaves the counter alone
	assert.Equal(t, 1, f.user(t, u1).Stats.LatestMessagesSent())
}

func TestMessage_Remove(t *testing.T) {
	f := newFixture(t)
	u1 := f.register(t, "Ada", "Lovelace")
	u2 := f.register(t, "Alan", "Turing")
	dm, err := f.dms.Create(u1, []int{u2})
	require.NoError(t, err)
	id, err := f.messages.SendDm(u2, dm, "hello")
	require.NoError(t, err)
	mine, err := f.messages.SendDm(u1, dm, "mine")
	require.NoError(t, err)

	assert.ErrorIs(t, f.messages.Remove(u2, mine), ErrForbidden)
	assert.ErrorIs(t, f.messages.Remove(u2, 123), ErrUnknownMessage)

	// the DM owner removes someone else's message and pays for it
	require.NoError(t, f.messages.Remove(u1, id))
	assert.Equal(t, 0, f.user(t, u1).Stats.LatestMessagesSent())
	assert.Equal(t, 1, f.user(t, u2).Stats.LatestMessagesSent())

	messages := f.snapshot().Dm(dm).Messages
	require.Len(t, messages, 1)
	assert.Equal(t, mine, messages[0].ID)
}

func TestMessage_List(t *testing.T) {
	f := newFixture(t)
	u1 := f.register(t, "Ada", "Lovelace")
	u2 := f.register(t, "Alan", "Turing")
	c := f.createChannel(t, u1, "general", true)

	page, err := f.messages.ListChannel(u1, c, 0)
	require.NoError(t, err)
	assert.Empty(t, page.Messages)
	assert.Equal(t, models.EndOfMessages, page.End)

	_, err = f.messages.ListChannel(u1, c, 1)
	assert.ErrorIs(t, err, ErrStartOutOfRange)
	_, err = f.messages.ListChannel(u1, c, -1)
	assert.ErrorIs(t, err, ErrStartOutOfRange)
	_, err = f.messages.ListChannel(u2, c, 0)
	assert.ErrorIs(t, err, ErrNotMember)
	_, err = f.messages.ListChannel(u1, 77, 0)
	assert.ErrorIs(t, err, ErrUnknownChannel)

	for i := 0; i < 64; i++ {
		_, err := f.messages.SendChannel(u1, c, "message")
		require.NoError(t, err)
	}

	page, err = f.messages.ListChannel(u1, c, 0)
	require.NoError(t, err)
	assert.Len(t, page.Messages, 50)
	assert.Equal(t, 0, page.Start)
	assert.Equal(t, 50, page.End)

	page, err = f.messages.ListChannel(u1, c, 50)
	require.NoError(t, err)
	assert.Len(t, page.Messages, 14)
	assert.Equal(t, models.EndOfMessages, page.End)

	page, err = f.messages.ListChannel(u1, c, 64)
	require.NoError(t, err)
	assert.Empty(t, page.Messages)
}

func TestMessage_ListDm(t *testing.T) {
	f := newFixture(t)
	u1 := f.register(t, "Ada", "Lovelace")
	u2 := f.register(t, "Alan", "Turing")
	dm, err := f.dms.Create(u1, nil)
	require.NoError(t, err)

	for _, body := range []string{"one", "two", "three"} {
		_, err := f.messages.SendDm(u1, dm, body)
		require.NoError(t, err)
	}
	page, err := f.messages.ListDm(u1, dm, 0)
	require.NoError(t, err)
	require.Len(t, page.Messages, 3)
	assert.Equal(t, "three", page.Messages[0].Body)
	assert.Equal(t, "one", page.Messages[2].Body)

	_, err = f.messages.ListDm(u2, dm, 0)
	assert.ErrorIs(t, err, ErrNotMember)
	_, err = f.messages.ListDm(u1, dm, 4)
	assert.ErrorIs(t, err, ErrStartOutOfRange)
	_, err = f.messages.ListDm(u1, 3, 0)
	assert.ErrorIs(t, err, ErrUnknownDm)
}
