package msgcomponent

import (
	"context"
	"fmt"

	"ticketbot/directory"
	"ticketbot/staff"
	"ticketbot/tickets"
	"ticketbot/transcript"
	"ticketbot/types"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// selectIssueChoice answers an issue selection with a link button to the
// matching help page.
func selectIssueChoice(s directory.API, i *discordgo.Interaction, data discordgo.MessageComponentInteractionData, config *types.Config, mgr *tickets.Manager, asm *transcript.Assembler, checker *staff.Checker, ctx context.Context, logger *zap.Logger) error {
	if len(data.Values) == 0 {
		return fmt.Errorf("no issue selected")
	}

	issue, ok := config.Issues[data.Values[0]]

	if !ok {
		return fmt.Errorf("issue not found: %s", data.Values[0])
	}

	return s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: "You selected: **" + issue.Label + "**.\nClick on the button below to proceed to the corresponding page",
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.Button{
							Label: "Click Here",
							Style: discordgo.LinkButton,
							URL:   issue.URL,
						},
					},
				},
			},
		},
	})
}
