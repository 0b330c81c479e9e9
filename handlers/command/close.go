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
)

// closeTicket starts the two-phase close: it never closes anything itself,
// it only arms a confirmation and offers confirm/cancel controls.
func closeTicket(s directory.API, i *discordgo.Interaction, data discordgo.ApplicationCommandInteractionData, config *types.Config, mgr *tickets.Manager, asm *transcript.Assembler, checker *staff.Checker, ctx context.Context, logger *zap.Logger) error {
	err := utils.Defer(s, i, true)

	if err != nil {
		return fmt.Errorf("error deferring interaction: %w", err)
	}

	channel, err := s.Channel(i.ChannelID)

	if err != nil {
		return fmt.Errorf("error fetching channel: %w", err)
	}

	open, err := mgr.InOpenCategory(channel)

	if err != nil {
		return err
	}

	if !open {
		return utils.TransientFollowup(s, i, "This action is not allowed in this channel.")
	}

	err = mgr.Confirms.Arm(ctx, tickets.ConfirmClose, i.ChannelID, tickets.CloseConfirmWindow)

	if err != nil {
		return err
	}

	_, err = s.FollowupMessageCreate(i, true, &discordgo.WebhookParams{
		Content: "Are you sure you would like to close this ticket?",
		Flags:   discordgo.MessageFlagsEphemeral,
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "Close",
						Style:    discordgo.DangerButton,
						Emoji:    discordgo.ComponentEmoji{Name: "❌"},
						CustomID: "close_ticket_confirm",
					},
					discordgo.Button{
						Label:    "Cancel",
						Style:    discordgo.SecondaryButton,
						CustomID: "close_ticket_cancel",
					},
				},
			},
		},
	})

	if err != nil {
		return fmt.Errorf("error sending close confirmation: %w", err)
	}

	return nil
}
