// Package dirtest provides an in-memory fake of the directory API backed by
// a single simulated guild. It mimics the platform behaviours the bot
// depends on: channel listings, category parentage, overwrite edits and
// newest-first paginated message history.
package dirtest

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
)

type Fake struct {
	mu sync.Mutex

	GuildID string
	BotUser *discordgo.User

	channels []*discordgo.Channel
	roles    []*discordgo.Role
	members  map[string]*discordgo.Member
	messages map[string][]*discordgo.Message // oldest-first per channel

	nextID int
	clock  time.Time

	// Interaction traffic, recorded for assertions.
	Responses []*discordgo.InteractionResponse
	Edits     []*discordgo.WebhookEdit
	Followups []*discordgo.WebhookParams

	DeletedChannels []string
}

func New(guildID string) *Fake {
	return &Fake{
		GuildID:  guildID,
		BotUser:  &discordgo.User{ID: "1", Username: "ticketbot", Discriminator: "0000", Bot: true},
		members:  map[string]*discordgo.Member{},
		messages: map[string][]*discordgo.Message{},
		nextID:   100,
		clock:    time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (f *Fake) id() string {
	f.nextID++
	return strconv.Itoa(f.nextID)
}

func (f *Fake) tick() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

// AddRole registers a guild role and returns it.
func (f *Fake) AddRole(name string) *discordgo.Role {
	f.mu.Lock()
	defer f.mu.Unlock()

	role := &discordgo.Role{ID: f.id(), Name: name}
	f.roles = append(f.roles, role)
	return role
}

// AddMember registers a guild member holding the given roles.
func (f *Fake) AddMember(userID string, username string, roles ...*discordgo.Role) *discordgo.Member {
	f.mu.Lock()
	defer f.mu.Unlock()

	member := &discordgo.Member{
		GuildID: f.GuildID,
		User:    &discordgo.User{ID: userID, Username: username, Discriminator: "0"},
	}

	for _, role := range roles {
		member.Roles = append(member.Roles, role.ID)
	}

	f.members[userID] = member
	return member
}

// AddCategory creates a category channel directly, bypassing the API.
func (f *Fake) AddCategory(name string) *discordgo.Channel {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.addChannel(discordgo.GuildChannelCreateData{Name: name, Type: discordgo.ChannelTypeGuildCategory})
}

// AddTextChannel creates a text channel directly, bypassing the API.
func (f *Fake) AddTextChannel(name string, parentID string, overwrites []*discordgo.PermissionOverwrite) *discordgo.Channel {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.addChannel(discordgo.GuildChannelCreateData{
		Name:                 name,
		Type:                 discordgo.ChannelTypeGuildText,
		ParentID:             parentID,
		PermissionOverwrites: overwrites,
	})
}

// SeedMessage appends a message to a channel's history as the given author.
func (f *Fake) SeedMessage(channelID string, author *discordgo.User, content string, attachments ...*discordgo.MessageAttachment) *discordgo.Message {
	f.mu.Lock()
	defer f.mu.Unlock()

	msg := &discordgo.Message{
		ID:          f.id(),
		ChannelID:   channelID,
		Content:     content,
		Author:      author,
		Timestamp:   f.tick(),
		Attachments: attachments,
	}

	f.messages[channelID] = append(f.messages[channelID], msg)
	return msg
}

// ChannelMessagesAll returns a channel's full history oldest-first.
func (f *Fake) ChannelMessagesAll(channelID string) []*discordgo.Message {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]*discordgo.Message{}, f.messages[channelID]...)
}

func (f *Fake) addChannel(data discordgo.GuildChannelCreateData) *discordgo.Channel {
	channel := &discordgo.Channel{
		ID:                   f.id(),
		GuildID:              f.GuildID,
		Name:                 data.Name,
		Type:                 data.Type,
		Topic:                data.Topic,
		ParentID:             data.ParentID,
		PermissionOverwrites: data.PermissionOverwrites,
	}

	f.channels = append(f.channels, channel)
	return channel
}

func (f *Fake) channelByID(channelID string) (*discordgo.Channel, int) {
	for idx, channel := range f.channels {
		if channel.ID == channelID {
			return channel, idx
		}
	}

	return nil, -1
}

// --- directory.API ---

func (f *Fake) Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	channel, _ := f.channelByID(channelID)

	if channel == nil {
		return nil, fmt.Errorf("unknown channel %s", channelID)
	}

	return channel, nil
}

func (f *Fake) GuildChannels(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]*discordgo.Channel{}, f.channels...), nil
}

func (f *Fake) GuildChannelCreateComplex(guildID string, data discordgo.GuildChannelCreateData, options ...discordgo.RequestOption) (*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.addChannel(data), nil
}

func (f *Fake) ChannelEdit(channelID string, data *discordgo.ChannelEdit, options ...discordgo.RequestOption) (*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	channel, _ := f.channelByID(channelID)

	if channel == nil {
		return nil, fmt.Errorf("unknown channel %s", channelID)
	}

	if data.Name != "" {
		channel.Name = data.Name
	}

	if data.ParentID != "" {
		channel.ParentID = data.ParentID
	}

	if data.PermissionOverwrites != nil {
		channel.PermissionOverwrites = data.PermissionOverwrites
	}

	return channel, nil
}

func (f *Fake) ChannelDelete(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	channel, idx := f.channelByID(channelID)

	if channel == nil {
		return nil, fmt.Errorf("unknown channel %s", channelID)
	}

	f.channels = append(f.channels[:idx], f.channels[idx+1:]...)
	delete(f.messages, channelID)
	f.DeletedChannels = append(f.DeletedChannels, channelID)

	return channel, nil
}

func (f *Fake) ChannelPermissionSet(channelID, targetID string, targetType discordgo.PermissionOverwriteType, allow, deny int64, options ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	channel, _ := f.channelByID(channelID)

	if channel == nil {
		return fmt.Errorf("unknown channel %s", channelID)
	}

	for _, overwrite := range channel.PermissionOverwrites {
		if overwrite.ID == targetID {
			overwrite.Type = targetType
			overwrite.Allow = allow
			overwrite.Deny = deny
			return nil
		}
	}

	channel.PermissionOverwrites = append(channel.PermissionOverwrites, &discordgo.PermissionOverwrite{
		ID:    targetID,
		Type:  targetType,
		Allow: allow,
		Deny:  deny,
	})

	return nil
}

func (f *Fake) ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	history := f.messages[channelID]

	// Discord returns newest first; the before cursor walks backwards.
	end := len(history)

	if beforeID != "" {
		end = 0

		for idx, msg := range history {
			if msg.ID == beforeID {
				end = idx
				break
			}
		}
	}

	start := end - limit

	if start < 0 {
		start = 0
	}

	var page []*discordgo.Message

	for idx := end - 1; idx >= start; idx-- {
		page = append(page, history[idx])
	}

	return page, nil
}

func (f *Fake) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	channel, _ := f.channelByID(channelID)

	if channel == nil {
		return nil, fmt.Errorf("unknown channel %s", channelID)
	}

	msg := &discordgo.Message{
		ID:        f.id(),
		ChannelID: channelID,
		Content:   data.Content,
		Embeds:    data.Embeds,
		Author:    f.BotUser,
		Timestamp: f.tick(),
	}

	f.messages[channelID] = append(f.messages[channelID], msg)
	return msg, nil
}

func (f *Fake) GuildRoles(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]*discordgo.Role{}, f.roles...), nil
}

func (f *Fake) GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	member, ok := f.members[userID]

	if !ok {
		return nil, fmt.Errorf("unknown member %s", userID)
	}

	return member, nil
}

func (f *Fake) InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Responses = append(f.Responses, resp)
	return nil
}

func (f *Fake) InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Edits = append(f.Edits, newresp)
	return &discordgo.Message{ID: f.id()}, nil
}

func (f *Fake) FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Followups = append(f.Followups, data)
	return &discordgo.Message{ID: f.id()}, nil
}

func (f *Fake) FollowupMessageDelete(interaction *discordgo.Interaction, messageID string, options ...discordgo.RequestOption) error {
	return nil
}
