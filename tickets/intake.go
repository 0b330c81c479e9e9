package tickets

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// WelcomeMember makes sure the guild's intake channel exists and posts a
// personalized create-ticket button for the member who just joined. The
// button's custom id embeds the member id and is only honored for them.
func (m *Manager) WelcomeMember(member *discordgo.Member) error {
	intakeCategory, err := m.Dir.GetOrCreateCategory(member.GuildID, m.Config.Categories.Intake)

	if err != nil {
		return err
	}

	channel, err := m.Dir.TextChannelByName(member.GuildID, intakeCategory.ID, m.Config.Channels.Intake)

	if err != nil {
		return err
	}

	if channel == nil {
		channel, err = m.API.GuildChannelCreateComplex(member.GuildID, discordgo.GuildChannelCreateData{
			Name:     m.Config.Channels.Intake,
			Type:     discordgo.ChannelTypeGuildText,
			Topic:    "This channel allows users to create support tickets.",
			ParentID: intakeCategory.ID,
			PermissionOverwrites: []*discordgo.PermissionOverwrite{
				{
					ID:    member.GuildID,
					Type:  discordgo.PermissionOverwriteTypeRole,
					Allow: discordgo.PermissionViewChannel,
					Deny:  discordgo.PermissionSendMessages | discordgo.PermissionReadMessageHistory,
				},
			},
		})

		if err != nil {
			return fmt.Errorf("error creating intake channel: %w", err)
		}

		m.Logger.Info("Created intake channel", zap.String("channel", channel.Name), zap.String("guildId", member.GuildID))
	}

	// The member may read the channel but never write to it.
	err = m.API.ChannelPermissionSet(
		channel.ID,
		member.User.ID,
		discordgo.PermissionOverwriteTypeMember,
		discordgo.PermissionViewChannel|discordgo.PermissionReadMessageHistory,
		discordgo.PermissionSendMessages,
	)

	if err != nil {
		return fmt.Errorf("error granting intake channel access: %w", err)
	}

	_, err = m.API.ChannelMessageSendComplex(channel.ID, &discordgo.MessageSend{
		Content: "Welcome <@" + member.User.ID + ">! Please use the button below to create a ticket.",
		Embeds: []*discordgo.MessageEmbed{
			{
				Title:       "Support Ticket",
				Description: "To create a ticket react with 📩",
				Color:       0x00ff00,
				Thumbnail: &discordgo.MessageEmbedThumbnail{
					URL: "https://www.clipartmax.com/png/middle/303-3035057_customer-service-executive-team-placeholder.png",
				},
			},
		},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "📩 Create Ticket",
						Style:    discordgo.SecondaryButton,
						CustomID: "create_ticket_" + member.User.ID,
					},
				},
			},
		},
	})

	if err != nil {
		return fmt.Errorf("error sending intake welcome message: %w", err)
	}

	return nil
}
