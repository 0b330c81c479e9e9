package command

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

func createTicket(s directory.API, i *discordgo.Interaction, data discordgo.ApplicationCommandInteractionData, config *types.Config, mgr *tickets.Manager, asm *transcript.Assembler, checker *staff.Checker, ctx context.Context, logger *zap.Logger) error {
	err := utils.Defer(s, i, true)

	if err != nil {
		return fmt.Errorf("error deferring interaction: %w", err)
	}

	cooldown, onCooldown, err := mgr.CreateCooldown(ctx, i.Member.User.ID)

	if err != nil {
		return err
	}

	if onCooldown {
		logger.Info("User is on cooldown", zap.String("userId", i.Member.User.ID), zap.Duration("cooldown", cooldown))

		return utils.TransientFollowup(s, i, "You are on cooldown. Please wait ``"+cooldown.String()+"`` before creating another ticket.")
	}

	channel, err := mgr.Create(i.GuildID, i.Member)

	var exists *tickets.OpenTicketExistsError

	if errors.As(err, &exists) {
		return utils.TransientFollowup(s, i, "You already have an open ticket: <#"+exists.Channel.ID+">")
	}

	if err != nil {
		return err
	}

	return utils.TransientFollowup(s, i, "Ticket created successfully: <#"+channel.ID+">")
}
