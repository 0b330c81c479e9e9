// Package directory exposes the live guild resource graph (categories,
// channels, permission overwrites) behind a narrow interface so the ticket
// logic never talks to a concrete session directly.
package directory

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// API is the subset of *discordgo.Session the bot actually uses.
// *discordgo.Session satisfies it; tests use an in-memory fake.
type API interface {
	Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	GuildChannels(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Channel, error)
	GuildChannelCreateComplex(guildID string, data discordgo.GuildChannelCreateData, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelEdit(channelID string, data *discordgo.ChannelEdit, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelDelete(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelPermissionSet(channelID, targetID string, targetType discordgo.PermissionOverwriteType, allow, deny int64, options ...discordgo.RequestOption) error
	ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	GuildRoles(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Role, error)
	GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error)
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
	FollowupMessageDelete(interaction *discordgo.Interaction, messageID string, options ...discordgo.RequestOption) error
}

type Directory struct {
	API    API
	Logger *zap.Logger
}

func New(api API, logger *zap.Logger) *Directory {
	return &Directory{API: api, Logger: logger}
}

// CategoryByName returns the category with that exact name, or nil if the
// guild has no such category.
func (d *Directory) CategoryByName(guildID string, name string) (*discordgo.Channel, error) {
	channels, err := d.API.GuildChannels(guildID)

	if err != nil {
		return nil, fmt.Errorf("error listing guild channels: %w", err)
	}

	for _, channel := range channels {
		if channel.Type == discordgo.ChannelTypeGuildCategory && channel.Name == name {
			return channel, nil
		}
	}

	return nil, nil
}

// GetOrCreateCategory looks a category up by exact name and creates it if it
// is absent. The lookup happens immediately before creation so concurrent
// callers normally converge on one category; a lost race produces a
// duplicate, which is recoverable by hand and never an error here.
func (d *Directory) GetOrCreateCategory(guildID string, name string) (*discordgo.Channel, error) {
	category, err := d.CategoryByName(guildID, name)

	if err != nil {
		return nil, err
	}

	if category != nil {
		return category, nil
	}

	category, err = d.API.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
		Name: name,
		Type: discordgo.ChannelTypeGuildCategory,
	})

	if err != nil {
		return nil, fmt.Errorf("error creating category %q: %w", name, err)
	}

	d.Logger.Info("Created category", zap.String("name", name), zap.String("guildId", guildID))

	return category, nil
}

// ChannelsIn returns the guild's channels whose parent is the given
// category, in the order the platform lists them.
func (d *Directory) ChannelsIn(guildID string, categoryID string) ([]*discordgo.Channel, error) {
	channels, err := d.API.GuildChannels(guildID)

	if err != nil {
		return nil, fmt.Errorf("error listing guild channels: %w", err)
	}

	var in []*discordgo.Channel

	for _, channel := range channels {
		if channel.ParentID == categoryID {
			in = append(in, channel)
		}
	}

	return in, nil
}

// TextChannelByName returns the text channel with that name under the given
// category, or nil if there is none.
func (d *Directory) TextChannelByName(guildID string, categoryID string, name string) (*discordgo.Channel, error) {
	channels, err := d.ChannelsIn(guildID, categoryID)

	if err != nil {
		return nil, err
	}

	for _, channel := range channels {
		if channel.Name == name {
			return channel, nil
		}
	}

	return nil, nil
}

// RoleByName returns the guild role with that exact name, or nil.
func (d *Directory) RoleByName(guildID string, name string) (*discordgo.Role, error) {
	roles, err := d.API.GuildRoles(guildID)

	if err != nil {
		return nil, fmt.Errorf("error listing guild roles: %w", err)
	}

	for _, role := range roles {
		if role.Name == name {
			return role, nil
		}
	}

	return nil, nil
}

// OverwriteFor returns the channel's permission overwrite for the given
// principal id, or nil when the principal has no overwrite.
func OverwriteFor(channel *discordgo.Channel, targetID string) *discordgo.PermissionOverwrite {
	for _, overwrite := range channel.PermissionOverwrites {
		if overwrite.ID == targetID {
			return overwrite
		}
	}

	return nil
}
