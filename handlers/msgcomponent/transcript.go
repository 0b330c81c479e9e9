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

func generateTranscript(s directory.API, i *discordgo.Interaction, data discordgo.MessageComponentInteractionData, config *types.Config, mgr *tickets.Manager, asm *transcript.Assembler, checker *staff.Checker, ctx context.Context, logger *zap.Logger) error {
	err := utils.Ephemeral(s, i, "Generating the ticket transcript...")

	if err != nil {
		return fmt.Errorf("error acknowledging transcript request: %w", err)
	}

	channel, err := s.Channel(i.ChannelID)

	if err != nil {
		return fmt.Errorf("error fetching channel: %w", err)
	}

	out, err := asm.Generate(channel, i.Member)

	if err != nil {
		return err
	}

	_, err = utils.EphemeralFollowup(s, i, "The transcript has been generated in <#"+out.ID+">.")

	return err
}
