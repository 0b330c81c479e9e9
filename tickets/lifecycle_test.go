package tickets

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRejectsSecondOpenTicket(t *testing.T) {
	mgr, fake := newTestManager(t)
	fake.AddRole("Support Team")
	alice := fake.AddMember("u1", "alice")

	first, err := mgr.Create(fake.GuildID, alice)
	require.NoError(t, err)

	_, err = mgr.Create(fake.GuildID, alice)

	var exists *OpenTicketExistsError
	require.ErrorAs(t, err, &exists)
	assert.Equal(t, first.ID, exists.Channel.ID)
}

func TestCreateRequiresSupportRole(t *testing.T) {
	mgr, fake := newTestManager(t)
	alice := fake.AddMember("u1", "alice")

	_, err := mgr.Create(fake.GuildID, alice)
	require.ErrorContains(t, err, "Support Team")
}

func TestCreateOverwrites(t *testing.T) {
	mgr, fake := newTestManager(t)
	support := fake.AddRole("Support Team")
	alice := fake.AddMember("u1", "alice")

	channel, err := mgr.Create(fake.GuildID, alice)
	require.NoError(t, err)

	require.Len(t, channel.PermissionOverwrites, 3)

	byID := map[string]*discordgo.PermissionOverwrite{}
	for _, overwrite := range channel.PermissionOverwrites {
		byID[overwrite.ID] = overwrite
	}

	require.Contains(t, byID, fake.GuildID)
	assert.EqualValues(t, discordgo.PermissionViewChannel, byID[fake.GuildID].Deny)

	for _, id := range []string{"u1", support.ID} {
		require.Contains(t, byID, id)
		assert.EqualValues(t, memberPermissions, byID[id].Allow)
	}
}

func TestCloseMovesChannelAndRevokesSend(t *testing.T) {
	mgr, fake := newTestManager(t)
	staffRole := fake.AddRole("Support Team")
	alice := fake.AddMember("u1", "alice")
	staffer := fake.AddMember("u2", "staffer", staffRole)

	channel, err := mgr.Create(fake.GuildID, alice)
	require.NoError(t, err)

	require.NoError(t, mgr.Close(channel.ID, staffer))

	closed, err := mgr.Dir.CategoryByName(fake.GuildID, "CLOSED TICKET")
	require.NoError(t, err)
	require.NotNil(t, closed)

	got, err := fake.Channel(channel.ID)
	require.NoError(t, err)
	assert.Equal(t, closed.ID, got.ParentID)

	for _, overwrite := range got.PermissionOverwrites {
		assert.Zero(t, overwrite.Allow&discordgo.PermissionSendMessages, overwrite.ID)
		assert.NotZero(t, overwrite.Deny&discordgo.PermissionSendMessages, overwrite.ID)
	}

	// view and history are untouched for the requester
	alicePerms := got.PermissionOverwrites[1]
	assert.NotZero(t, alicePerms.Allow&discordgo.PermissionViewChannel)
	assert.NotZero(t, alicePerms.Allow&discordgo.PermissionReadMessageHistory)
}

func TestCloseRejectsChannelOutsideOpenCategory(t *testing.T) {
	mgr, fake := newTestManager(t)
	staffRole := fake.AddRole("Support Team")
	staffer := fake.AddMember("u2", "staffer", staffRole)

	fake.AddCategory("OPENED TICKETS")
	closed := fake.AddCategory("CLOSED TICKET")
	channel := fake.AddTextChannel("ticket-0001-alice", closed.ID, nil)

	err := mgr.Close(channel.ID, staffer)
	assert.ErrorIs(t, err, ErrNotInOpenCategory)
}

func TestReopenRestoresSend(t *testing.T) {
	mgr, fake := newTestManager(t)
	staffRole := fake.AddRole("Support Team")
	alice := fake.AddMember("u1", "alice")
	staffer := fake.AddMember("u2", "staffer", staffRole)

	channel, err := mgr.Create(fake.GuildID, alice)
	require.NoError(t, err)
	require.NoError(t, mgr.Close(channel.ID, staffer))

	require.NoError(t, mgr.Reopen(channel.ID))

	open, err := mgr.Dir.CategoryByName(fake.GuildID, "OPENED TICKETS")
	require.NoError(t, err)

	got, err := fake.Channel(channel.ID)
	require.NoError(t, err)
	assert.Equal(t, open.ID, got.ParentID)

	for _, overwrite := range got.PermissionOverwrites {
		assert.NotZero(t, overwrite.Allow&discordgo.PermissionSendMessages, overwrite.ID)
		assert.Zero(t, overwrite.Deny&discordgo.PermissionSendMessages, overwrite.ID)
	}
}

func TestReopenRejectsChannelOutsideClosedCategory(t *testing.T) {
	mgr, fake := newTestManager(t)
	fake.AddRole("Support Team")
	alice := fake.AddMember("u1", "alice")

	channel, err := mgr.Create(fake.GuildID, alice)
	require.NoError(t, err)

	err = mgr.Reopen(channel.ID)
	assert.ErrorIs(t, err, ErrNotInClosedCategory)

	got, err := fake.Channel(channel.ID)
	require.NoError(t, err)

	// no permission change on rejection
	for _, overwrite := range got.PermissionOverwrites {
		if overwrite.ID == "u1" {
			assert.EqualValues(t, memberPermissions, overwrite.Allow)
		}
	}
}

func TestTicketLifecycleScenario(t *testing.T) {
	mgr, fake := newTestManager(t)
	staffRole := fake.AddRole("Support Team")
	alice := fake.AddMember("u1", "alice")
	bob := fake.AddMember("u2", "bob")
	staffer := fake.AddMember("u3", "staffer", staffRole)

	channel, err := mgr.Create(fake.GuildID, alice)
	require.NoError(t, err)
	require.Equal(t, "ticket-0001-alice", channel.Name)

	_, err = mgr.Create(fake.GuildID, alice)
	var exists *OpenTicketExistsError
	require.ErrorAs(t, err, &exists)

	require.NoError(t, mgr.Close(channel.ID, staffer))
	require.NoError(t, mgr.Reopen(channel.ID))
	require.NoError(t, mgr.Close(channel.ID, staffer))
	require.NoError(t, mgr.Delete(channel.ID))

	assert.Contains(t, fake.DeletedChannels, channel.ID)

	next, err := mgr.Create(fake.GuildID, bob)
	require.NoError(t, err)
	assert.Equal(t, "ticket-0002-bob", next.Name)
}

func TestCanSee(t *testing.T) {
	channel := &discordgo.Channel{
		PermissionOverwrites: []*discordgo.PermissionOverwrite{
			{ID: "u1", Type: discordgo.PermissionOverwriteTypeMember, Allow: discordgo.PermissionViewChannel},
		},
	}

	assert.True(t, CanSee(channel, "u1"))
	assert.False(t, CanSee(channel, "u2"))
}
