package tickets

import (
	"fmt"
	"testing"

	"ticketbot/directory"
	"ticketbot/directory/dirtest"
	"ticketbot/tickets/tickettest"
	"ticketbot/types"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestManager(t *testing.T) (*Manager, *dirtest.Fake) {
	t.Helper()

	fake := dirtest.New("guild-1")

	config := &types.Config{}
	config.SetDefaults()

	dir := directory.New(fake, zap.NewNop())

	mgr := NewManager(fake, dir, config, zap.NewNop(), nil)

	store := tickettest.NewStore()
	mgr.Store = store
	mgr.Confirms.Store = store

	return mgr, fake
}

func TestSanitizeHandle(t *testing.T) {
	assert.Equal(t, "alice", SanitizeHandle("Alice"))
	assert.Equal(t, "bob_42", SanitizeHandle("Bob_42"))
	assert.Equal(t, "we-rd", SanitizeHandle("We!-ír d"))
	assert.Equal(t, "", SanitizeHandle("漢字"))
}

func TestChannelName(t *testing.T) {
	assert.Equal(t, "ticket-0001-alice", ChannelName(1, "Alice"))
	assert.Equal(t, "ticket-0042-bob", ChannelName(42, "bob"))
	assert.Equal(t, "ticket-12345-eve", ChannelName(12345, "eve"))
}

func TestParseTicketNumber(t *testing.T) {
	number, ok := ParseTicketNumber("ticket-0001-alice")
	require.True(t, ok)
	assert.Equal(t, 1, number)

	number, ok = ParseTicketNumber("ticket-0217-bob_42")
	require.True(t, ok)
	assert.Equal(t, 217, number)

	for _, name := range []string{"general", "ticket-", "ticket-abc-carol", "ticket-0000-dave", "tickets-0004-eve"} {
		_, ok = ParseTicketNumber(name)
		assert.False(t, ok, name)
	}
}

func TestNextTicketNumberSequence(t *testing.T) {
	mgr, fake := newTestManager(t)
	fake.AddRole("Support Team")

	for n := 1; n <= 5; n++ {
		member := fake.AddMember(fmt.Sprintf("u%d", n), fmt.Sprintf("user%d", n))

		channel, err := mgr.Create(fake.GuildID, member)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("ticket-%04d-user%d", n, n), channel.Name)
	}
}

func TestNextTicketNumberIgnoresUnparseableNames(t *testing.T) {
	mgr, fake := newTestManager(t)
	fake.AddRole("Support Team")

	open := fake.AddCategory("OPENED TICKETS")
	fake.AddTextChannel("ticket-chatter", open.ID, nil)
	fake.AddTextChannel("ticket-0007-grace", open.ID, nil)
	fake.AddTextChannel("random", open.ID, nil)

	closed := fake.AddCategory("CLOSED TICKET")
	fake.AddTextChannel("ticket-0009-heidi", closed.ID, nil)

	number, err := mgr.NextTicketNumber(fake.GuildID, open.ID, closed.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, number)
}

func TestNextTicketNumberStartsAtOne(t *testing.T) {
	mgr, fake := newTestManager(t)

	open := fake.AddCategory("OPENED TICKETS")
	closed := fake.AddCategory("CLOSED TICKET")

	number, err := mgr.NextTicketNumber(fake.GuildID, open.ID, closed.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, number)
}

func TestNumbersNotReusedAfterDelete(t *testing.T) {
	mgr, fake := newTestManager(t)
	fake.AddRole("Support Team")

	alice := fake.AddMember("u1", "alice")
	bob := fake.AddMember("u2", "bob")

	first, err := mgr.Create(fake.GuildID, alice)
	require.NoError(t, err)
	require.Equal(t, "ticket-0001-alice", first.Name)

	require.NoError(t, mgr.Delete(first.ID))

	channel, err := mgr.Create(fake.GuildID, bob)
	require.NoError(t, err)
	assert.Equal(t, "ticket-0002-bob", channel.Name)
}

func TestFindOpenTicketRequiresViewAndSend(t *testing.T) {
	mgr, fake := newTestManager(t)

	open := fake.AddCategory("OPENED TICKETS")

	// view without send does not count as an open ticket
	viewOnly := []*discordgo.PermissionOverwrite{
		{
			ID:    "u1",
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: discordgo.PermissionViewChannel | discordgo.PermissionReadMessageHistory,
		},
	}
	fake.AddTextChannel("ticket-0001-alice", open.ID, viewOnly)

	found, err := mgr.FindOpenTicket(fake.GuildID, open.ID, "u1")
	require.NoError(t, err)
	assert.Nil(t, found)

	full := []*discordgo.PermissionOverwrite{
		{
			ID:    "u2",
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages,
		},
	}
	ticket := fake.AddTextChannel("ticket-0002-bob", open.ID, full)

	found, err = mgr.FindOpenTicket(fake.GuildID, open.ID, "u2")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, ticket.ID, found.ID)
}
