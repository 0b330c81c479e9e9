// Package command routes inbound slash commands to the ticket lifecycle.
package command

import (
	"context"

	"ticketbot/directory"
	"ticketbot/staff"
	"ticketbot/tickets"
	"ticketbot/transcript"
	"ticketbot/types"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

type Handler func(s directory.API, i *discordgo.Interaction, data discordgo.ApplicationCommandInteractionData, config *types.Config, mgr *tickets.Manager, asm *transcript.Assembler, checker *staff.Checker, ctx context.Context, logger *zap.Logger) error

var Handlers = map[string]Handler{}

func AddHandler(name string, handler Handler) {
	Handlers[name] = handler
}

func init() {
	AddHandler("create_ticket", createTicket)
	AddHandler("close_ticket", closeTicket)
	AddHandler("select_issue", selectIssue)
}

// Commands lists the application commands to register at startup.
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "create_ticket",
			Description: "Create a new ticket channel.",
		},
		{
			Name:        "close_ticket",
			Description: "Close the current ticket channel.",
		},
		{
			Name:        "select_issue",
			Description: "Select an issue from the dropdown menu.",
		},
	}
}
