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

// deleteTicket arms the delete confirmation. The window is short; once it
// lapses the confirm button goes inert.
func deleteTicket(s directory.API, i *discordgo.Interaction, data discordgo.MessageComponentInteractionData, config *types.Config, mgr *tickets.Manager, asm *transcript.Assembler, checker *staff.Checker, ctx context.Context, logger *zap.Logger) error {
	err := utils.Defer(s, i, true)

	if err != nil {
		return fmt.Errorf("error deferring interaction: %w", err)
	}

	err = mgr.Confirms.Arm(ctx, tickets.ConfirmDelete, i.ChannelID, tickets.DeleteConfirmWindow)

	if err != nil {
		return err
	}

	_, err = s.FollowupMessageCreate(i, true, &discordgo.WebhookParams{
		Content: "Are you sure you want to delete this ticket? This action cannot be undone.",
		Flags:   discordgo.MessageFlagsEphemeral,
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "Confirm",
						Style:    discordgo.DangerButton,
						CustomID: "confirm_delete",
					},
					discordgo.Button{
						Label:    "Cancel",
						Style:    discordgo.SecondaryButton,
						CustomID: "cancel_delete",
					},
				},
			},
		},
	})

	if err != nil {
		return fmt.Errorf("error sending delete confirmation: %w", err)
	}

	return nil
}

func confirmDelete(s directory.API, i *discordgo.Interaction, data discordgo.MessageComponentInteractionData, config *types.Config, mgr *tickets.Manager, asm *transcript.Assembler, checker *staff.Checker, ctx context.Context, logger *zap.Logger) error {
	err := utils.Defer(s, i, true)

	if err != nil {
		return fmt.Errorf("error deferring interaction: %w", err)
	}

	live, err := mgr.Confirms.Consume(ctx, tickets.ConfirmDelete, i.ChannelID)

	if err != nil {
		return err
	}

	if !live {
		return utils.TransientFollowup(s, i, "This confirmation has expired. Press Delete again if you still want to remove the ticket.")
	}

	logger.Info("Deleting ticket",
		zap.String("channelId", i.ChannelID),
		zap.String("userId", i.Member.User.ID))

	return mgr.Delete(i.ChannelID)
}

func cancelDelete(s directory.API, i *discordgo.Interaction, data discordgo.MessageComponentInteractionData, config *types.Config, mgr *tickets.Manager, asm *transcript.Assembler, checker *staff.Checker, ctx context.Context, logger *zap.Logger) error {
	err := mgr.Confirms.Cancel(ctx, tickets.ConfirmDelete, i.ChannelID)

	if err != nil {
		return err
	}

	return utils.Ephemeral(s, i, "Ticket deletion canceled.")
}
