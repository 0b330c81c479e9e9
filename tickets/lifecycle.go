// Package tickets implements the ticket lifecycle: numbering, creation,
// close/reopen/delete transitions and the permission rewrites that go with
// them. Ticket state is never stored; it is derived live from channel names,
// category membership and permission overwrites.
package tickets

import (
	"errors"
	"fmt"
	"sync"

	"ticketbot/directory"
	"ticketbot/types"

	"github.com/bwmarrin/discordgo"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	// ErrNotInOpenCategory rejects close attempts on channels that are not
	// open tickets.
	ErrNotInOpenCategory = errors.New("channel is not in the open tickets category")

	// ErrNotInClosedCategory rejects reopen attempts on channels that are
	// not closed tickets.
	ErrNotInClosedCategory = errors.New("channel is not in the closed tickets category")
)

// OpenTicketExistsError rejects a create while the requester still has an
// open ticket. It carries the existing channel so callers can point the
// requester at it.
type OpenTicketExistsError struct {
	Channel *discordgo.Channel
}

func (e *OpenTicketExistsError) Error() string {
	return "requester already has an open ticket: " + e.Channel.Name
}

const memberPermissions = discordgo.PermissionViewChannel | discordgo.PermissionSendMessages | discordgo.PermissionReadMessageHistory

type Manager struct {
	API      directory.API
	Dir      *directory.Directory
	Config   *types.Config
	Logger   *zap.Logger
	Store    Store
	Confirms *Confirmations

	mu      sync.Mutex
	guilds  map[string]*sync.Mutex
	numbers map[string]int
}

func NewManager(api directory.API, dir *directory.Directory, config *types.Config, logger *zap.Logger, rediscli *redis.Client) *Manager {
	store := &RedisStore{Redis: rediscli}

	return &Manager{
		API:      api,
		Dir:      dir,
		Config:   config,
		Logger:   logger,
		Store:    store,
		Confirms: &Confirmations{Store: store},
		guilds:   map[string]*sync.Mutex{},
		numbers:  map[string]int{},
	}
}

// guildLock serializes ticket creation per guild. Numbering and the
// single-open-ticket check are read-then-act over live channel listings, so
// without this two concurrent creates could race on the same max+1.
func (m *Manager) guildLock(guildID string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()

	lock, ok := m.guilds[guildID]

	if !ok {
		lock = &sync.Mutex{}
		m.guilds[guildID] = lock
	}

	return lock
}

// Create opens a new ticket for the member: allocates the next number,
// creates ticket-NNNN-<handle> under the open category visible only to the
// member and the support role, and posts the welcome message with the close
// control. Returns OpenTicketExistsError when the member already has one.
func (m *Manager) Create(guildID string, member *discordgo.Member) (*discordgo.Channel, error) {
	lock := m.guildLock(guildID)
	lock.Lock()
	defer lock.Unlock()

	openCategory, err := m.Dir.GetOrCreateCategory(guildID, m.Config.Categories.Open)

	if err != nil {
		return nil, err
	}

	closedCategory, err := m.Dir.GetOrCreateCategory(guildID, m.Config.Categories.Closed)

	if err != nil {
		return nil, err
	}

	supportRole, err := m.Dir.RoleByName(guildID, m.Config.Roles.Support)

	if err != nil {
		return nil, err
	}

	if supportRole == nil {
		return nil, fmt.Errorf("the role %q was not found in the guild", m.Config.Roles.Support)
	}

	existing, err := m.FindOpenTicket(guildID, openCategory.ID, member.User.ID)

	if err != nil {
		return nil, err
	}

	if existing != nil {
		return nil, &OpenTicketExistsError{Channel: existing}
	}

	number, err := m.NextTicketNumber(guildID, openCategory.ID, closedCategory.ID)

	if err != nil {
		return nil, err
	}

	channel, err := m.API.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
		Name:     ChannelName(number, member.User.Username),
		Type:     discordgo.ChannelTypeGuildText,
		ParentID: openCategory.ID,
		PermissionOverwrites: []*discordgo.PermissionOverwrite{
			{
				// @everyone shares its id with the guild
				ID:   guildID,
				Type: discordgo.PermissionOverwriteTypeRole,
				Deny: discordgo.PermissionViewChannel,
			},
			{
				ID:    member.User.ID,
				Type:  discordgo.PermissionOverwriteTypeMember,
				Allow: memberPermissions,
			},
			{
				ID:    supportRole.ID,
				Type:  discordgo.PermissionOverwriteTypeRole,
				Allow: memberPermissions,
			},
		},
	})

	if err != nil {
		return nil, fmt.Errorf("error creating ticket channel: %w", err)
	}

	m.Logger.Info("Created ticket",
		zap.String("channel", channel.Name),
		zap.String("guildId", guildID),
		zap.String("userId", member.User.ID))

	_, err = m.API.ChannelMessageSendComplex(channel.ID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{
			{
				Description: "Hi <@" + member.User.ID + "> 👋, support will be with you shortly.\nTo close this ticket, click the button below 🔒.",
				Color:       0x00ff00,
			},
		},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "Close Ticket",
						Style:    discordgo.DangerButton,
						Emoji:    discordgo.ComponentEmoji{Name: "🔒"},
						CustomID: "close_ticket",
					},
				},
			},
		},
	})

	if err != nil {
		return channel, fmt.Errorf("error sending welcome message: %w", err)
	}

	return channel, nil
}

// Close moves an open ticket to the closed category and revokes sending for
// every principal on the channel, leaving view and history untouched. The
// category move happens first so a partial failure is visible from the
// channel itself.
func (m *Manager) Close(channelID string, closedBy *discordgo.Member) error {
	channel, err := m.API.Channel(channelID)

	if err != nil {
		return fmt.Errorf("error fetching channel: %w", err)
	}

	openCategory, err := m.Dir.CategoryByName(channel.GuildID, m.Config.Categories.Open)

	if err != nil {
		return err
	}

	if openCategory == nil || channel.ParentID != openCategory.ID {
		return ErrNotInOpenCategory
	}

	closedCategory, err := m.Dir.GetOrCreateCategory(channel.GuildID, m.Config.Categories.Closed)

	if err != nil {
		return err
	}

	_, err = m.API.ChannelEdit(channel.ID, &discordgo.ChannelEdit{ParentID: closedCategory.ID})

	if err != nil {
		return fmt.Errorf("error moving channel to closed category: %w", err)
	}

	_, err = m.API.ChannelEdit(channel.ID, &discordgo.ChannelEdit{
		PermissionOverwrites: setSendMessages(channel.PermissionOverwrites, false),
	})

	if err != nil {
		return fmt.Errorf("error revoking send permissions: %w", err)
	}

	m.Logger.Info("Closed ticket",
		zap.String("channel", channel.Name),
		zap.String("guildId", channel.GuildID),
		zap.String("closedBy", closedBy.User.ID))

	_, err = m.API.ChannelMessageSendComplex(channel.ID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{
			{
				Title:       "Ticket Closed",
				Description: "Ticket closed by " + closedBy.Mention() + ".",
				Color:       0xFF4500,
			},
		},
	})

	if err != nil {
		return fmt.Errorf("error sending closure notice: %w", err)
	}

	return m.sendTicketControls(channel.ID)
}

// sendTicketControls posts the staff control surface to a closed ticket.
func (m *Manager) sendTicketControls(channelID string) error {
	_, err := m.API.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{
			{
				Title: "```Support Team Ticket Controls```",
			},
		},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "Transcript",
						Style:    discordgo.SecondaryButton,
						Emoji:    discordgo.ComponentEmoji{Name: "📄"},
						CustomID: "transcript",
					},
					discordgo.Button{
						Label:    "Open",
						Style:    discordgo.SuccessButton,
						Emoji:    discordgo.ComponentEmoji{Name: "🔓"},
						CustomID: "open_ticket",
					},
					discordgo.Button{
						Label:    "Delete",
						Style:    discordgo.DangerButton,
						Emoji:    discordgo.ComponentEmoji{Name: "⛔"},
						CustomID: "delete_ticket",
					},
				},
			},
		},
	})

	if err != nil {
		return fmt.Errorf("error sending ticket controls: %w", err)
	}

	return nil
}

// Reopen moves a closed ticket back to the open category and restores
// sending for every principal on the channel. Channels outside the closed
// category are rejected untouched.
func (m *Manager) Reopen(channelID string) error {
	channel, err := m.API.Channel(channelID)

	if err != nil {
		return fmt.Errorf("error fetching channel: %w", err)
	}

	closedCategory, err := m.Dir.CategoryByName(channel.GuildID, m.Config.Categories.Closed)

	if err != nil {
		return err
	}

	if closedCategory == nil || channel.ParentID != closedCategory.ID {
		return ErrNotInClosedCategory
	}

	openCategory, err := m.Dir.GetOrCreateCategory(channel.GuildID, m.Config.Categories.Open)

	if err != nil {
		return err
	}

	_, err = m.API.ChannelEdit(channel.ID, &discordgo.ChannelEdit{ParentID: openCategory.ID})

	if err != nil {
		return fmt.Errorf("error moving channel to open category: %w", err)
	}

	_, err = m.API.ChannelEdit(channel.ID, &discordgo.ChannelEdit{
		PermissionOverwrites: setSendMessages(channel.PermissionOverwrites, true),
	})

	if err != nil {
		return fmt.Errorf("error restoring send permissions: %w", err)
	}

	m.Logger.Info("Reopened ticket", zap.String("channel", channel.Name), zap.String("guildId", channel.GuildID))

	return nil
}

// Delete permanently removes a ticket channel. There is no tombstone; the
// gap in the numbering stays.
func (m *Manager) Delete(channelID string) error {
	_, err := m.API.ChannelDelete(channelID)

	if err != nil {
		return fmt.Errorf("error deleting channel: %w", err)
	}

	m.Logger.Info("Deleted ticket", zap.String("channelId", channelID))

	return nil
}

// InOpenCategory reports whether the channel currently sits in the guild's
// open tickets category.
func (m *Manager) InOpenCategory(channel *discordgo.Channel) (bool, error) {
	category, err := m.Dir.CategoryByName(channel.GuildID, m.Config.Categories.Open)

	if err != nil {
		return false, err
	}

	return category != nil && channel.ParentID == category.ID, nil
}

// CanSee reports whether the user has a personal overwrite granting view on
// the channel, which is how ticket membership is encoded.
func CanSee(channel *discordgo.Channel, userID string) bool {
	return overwriteAllows(channel, userID, discordgo.PermissionViewChannel)
}

func overwriteAllows(channel *discordgo.Channel, targetID string, permissions int64) bool {
	overwrite := directory.OverwriteFor(channel, targetID)

	return overwrite != nil && overwrite.Allow&permissions == permissions
}

// setSendMessages rewrites the overwrite set as a unit, flipping only the
// send flag for every principal.
func setSendMessages(overwrites []*discordgo.PermissionOverwrite, allowed bool) []*discordgo.PermissionOverwrite {
	next := make([]*discordgo.PermissionOverwrite, 0, len(overwrites))

	for _, overwrite := range overwrites {
		updated := *overwrite

		if allowed {
			updated.Allow |= discordgo.PermissionSendMessages
			updated.Deny &^= discordgo.PermissionSendMessages
		} else {
			updated.Allow &^= discordgo.PermissionSendMessages
			updated.Deny |= discordgo.PermissionSendMessages
		}

		next = append(next, &updated)
	}

	return next
}
