package msgcomponent

import (
	"context"
	"errors"
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

// openTicket reopens a closed ticket. The manager re-checks the channel is
// actually in the closed category, so a stale or double-clicked button
// cannot move a channel twice.
func openTicket(s directory.API, i *discordgo.Interaction, data discordgo.MessageComponentInteractionData, config *types.Config, mgr *tickets.Manager, asm *transcript.Assembler, checker *staff.Checker, ctx context.Context, logger *zap.Logger) error {
	err := utils.Defer(s, i, false)

	if err != nil {
		return fmt.Errorf("error deferring interaction: %w", err)
	}

	err = mgr.Reopen(i.ChannelID)

	if errors.Is(err, tickets.ErrNotInClosedCategory) {
		_, err = utils.EphemeralFollowup(s, i, "This ticket is not in the Closed Tickets category and cannot be reopened.")
		return err
	}

	if err != nil {
		return err
	}

	channel, err := s.Channel(i.ChannelID)

	if err != nil {
		return fmt.Errorf("error fetching channel: %w", err)
	}

	_, err = s.FollowupMessageCreate(i, true, &discordgo.WebhookParams{
		Content: "The ticket `" + channel.Name + "` has been reopened.",
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Parse: []discordgo.AllowedMentionType{},
		},
	})

	if err != nil {
		return fmt.Errorf("error sending reopen notice: %w", err)
	}

	return nil
}
