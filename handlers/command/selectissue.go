package command

import (
	"context"
	"fmt"

	"ticketbot/directory"
	"ticketbot/staff"
	"ticketbot/tickets"
	"ticketbot/transcript"
	"ticketbot/types"
	"ticketbot/utils"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// selectIssue posts the issue dropdown inside a ticket. Staff-only, and
// only meaningful inside an open ticket channel.
func selectIssue(s directory.API, i *discordgo.Interaction, data discordgo.ApplicationCommandInteractionData, config *types.Config, mgr *tickets.Manager, asm *transcript.Assembler, checker *staff.Checker, ctx context.Context, logger *zap.Logger) error {
	channel, err := s.Channel(i.ChannelID)

	if err != nil {
		return fmt.Errorf("error fetching channel: %w", err)
	}

	open, err := mgr.InOpenCategory(channel)

	if err != nil {
		return err
	}

	roles, err := s.GuildRoles(i.GuildID)

	if err != nil {
		return fmt.Errorf("error listing guild roles: %w", err)
	}

	if !open || !checker.IsStaff(i.Member, roles) {
		return utils.Ephemeral(s, i, "This command can only be used by Admin/Support Team members inside a ticket channel.")
	}

	if len(config.Issues) == 0 {
		return utils.Ephemeral(s, i, "No issue topics are configured.")
	}

	keys := maps.Keys(config.Issues)
	slices.Sort(keys)

	var smo []discordgo.SelectMenuOption

	for _, key := range keys {
		issue := config.Issues[key]

		smo = append(smo, discordgo.SelectMenuOption{
			Label:       issue.Label,
			Value:       key,
			Description: issue.Description,
			Emoji: discordgo.ComponentEmoji{
				Name: issue.Emoji,
			},
		})
	}

	return s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: "Select an issue from the dropdown menu",
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						&discordgo.SelectMenu{
							CustomID:    "select_issue",
							Placeholder: "Select an issue",
							Options:     smo,
						},
					},
				},
			},
		},
	})
}
