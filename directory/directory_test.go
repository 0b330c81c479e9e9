package directory_test

import (
	"testing"

	"ticketbot/directory"
	"ticketbot/directory/dirtest"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCategoryByNameAbsent(t *testing.T) {
	fake := dirtest.New("guild-1")
	dir := directory.New(fake, zap.NewNop())

	category, err := dir.CategoryByName(fake.GuildID, "OPENED TICKETS")
	require.NoError(t, err)
	assert.Nil(t, category)
}

func TestGetOrCreateCategoryIsIdempotent(t *testing.T) {
	fake := dirtest.New("guild-1")
	dir := directory.New(fake, zap.NewNop())

	first, err := dir.GetOrCreateCategory(fake.GuildID, "OPENED TICKETS")
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, discordgo.ChannelTypeGuildCategory, first.Type)

	second, err := dir.GetOrCreateCategory(fake.GuildID, "OPENED TICKETS")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	channels, err := fake.GuildChannels(fake.GuildID)
	require.NoError(t, err)
	assert.Len(t, channels, 1)
}

func TestChannelsInFiltersByCategory(t *testing.T) {
	fake := dirtest.New("guild-1")
	dir := directory.New(fake, zap.NewNop())

	open := fake.AddCategory("OPENED TICKETS")
	closed := fake.AddCategory("CLOSED TICKET")

	a := fake.AddTextChannel("ticket-0001-alice", open.ID, nil)
	fake.AddTextChannel("ticket-0002-bob", closed.ID, nil)

	in, err := dir.ChannelsIn(fake.GuildID, open.ID)
	require.NoError(t, err)
	require.Len(t, in, 1)
	assert.Equal(t, a.ID, in[0].ID)
}

func TestTextChannelByName(t *testing.T) {
	fake := dirtest.New("guild-1")
	dir := directory.New(fake, zap.NewNop())

	category := fake.AddCategory("TRANSCRIPTS")
	channel := fake.AddTextChannel("ticket-0001-alice_transcript", category.ID, nil)

	found, err := dir.TextChannelByName(fake.GuildID, category.ID, "ticket-0001-alice_transcript")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, channel.ID, found.ID)

	missing, err := dir.TextChannelByName(fake.GuildID, category.ID, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRoleByName(t *testing.T) {
	fake := dirtest.New("guild-1")
	dir := directory.New(fake, zap.NewNop())

	role := fake.AddRole("Support Team")

	found, err := dir.RoleByName(fake.GuildID, "Support Team")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, role.ID, found.ID)

	missing, err := dir.RoleByName(fake.GuildID, "Moderators")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestOverwriteFor(t *testing.T) {
	channel := &discordgo.Channel{
		PermissionOverwrites: []*discordgo.PermissionOverwrite{
			{ID: "u1", Allow: discordgo.PermissionViewChannel},
		},
	}

	require.NotNil(t, directory.OverwriteFor(channel, "u1"))
	assert.Nil(t, directory.OverwriteFor(channel, "u2"))
}
