package msgcomponent

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

// closeTicket arms the close confirmation and offers confirm/cancel. The
// actual transition only happens in closeTicketConfirm.
func closeTicket(s directory.API, i *discordgo.Interaction, data discordgo.MessageComponentInteractionData, config *types.Config, mgr *tickets.Manager, asm *transcript.Assembler, checker *staff.Checker, ctx context.Context, logger *zap.Logger) error {
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

// closeTicketConfirm commits the close. Everything is re-checked against
// live state: the channel must still be an open ticket, the actor must be
// staff or on the ticket, and the confirmation window must not have lapsed.
func closeTicketConfirm(s directory.API, i *discordgo.Interaction, data discordgo.MessageComponentInteractionData, config *types.Config, mgr *tickets.Manager, asm *transcript.Assembler, checker *staff.Checker, ctx context.Context, logger *zap.Logger) error {
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

	roles, err := s.GuildRoles(i.GuildID)

	if err != nil {
		return fmt.Errorf("error listing guild roles: %w", err)
	}

	if !checker.IsStaff(i.Member, roles) && !tickets.CanSee(channel, i.Member.User.ID) {
		_, err = utils.EphemeralFollowup(s, i, "You do not have permission to close this ticket.")
		return err
	}

	live, err := mgr.Confirms.Consume(ctx, tickets.ConfirmClose, i.ChannelID)

	if err != nil {
		return err
	}

	if !live {
		return utils.TransientFollowup(s, i, "This confirmation has expired. Use the close control again if you still want to close the ticket.")
	}

	err = mgr.Close(i.ChannelID, i.Member)

	if err != nil {
		return err
	}

	_, err = utils.EphemeralFollowup(s, i, "This ticket has been closed.")

	return err
}

func closeTicketCancel(s directory.API, i *discordgo.Interaction, data discordgo.MessageComponentInteractionData, config *types.Config, mgr *tickets.Manager, asm *transcript.Assembler, checker *staff.Checker, ctx context.Context, logger *zap.Logger) error {
	err := mgr.Confirms.Cancel(ctx, tickets.ConfirmClose, i.ChannelID)

	if err != nil {
		return err
	}

	return utils.Ephemeral(s, i, "Ticket closure cancelled.")
}
