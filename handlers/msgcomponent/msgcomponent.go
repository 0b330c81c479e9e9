// Package msgcomponent routes button activations to the ticket lifecycle
// and the transcript assembler.
package msgcomponent

import (
	"context"
	"strings"

	"ticketbot/directory"
	"ticketbot/staff"
	"ticketbot/tickets"
	"ticketbot/transcript"
	"ticketbot/types"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
	"golang.org/x/exp/slices"
)

type Handler func(s directory.API, i *discordgo.Interaction, data discordgo.MessageComponentInteractionData, config *types.Config, mgr *tickets.Manager, asm *transcript.Assembler, checker *staff.Checker, ctx context.Context, logger *zap.Logger) error

var Handlers = map[string]Handler{}

func AddHandler(name string, handler Handler) {
	Handlers[name] = handler
}

func init() {
	AddHandler("close_ticket", closeTicket)
	AddHandler("close_ticket_confirm", closeTicketConfirm)
	AddHandler("close_ticket_cancel", closeTicketCancel)
	AddHandler("transcript", generateTranscript)
	AddHandler("open_ticket", openTicket)
	AddHandler("delete_ticket", deleteTicket)
	AddHandler("confirm_delete", confirmDelete)
	AddHandler("cancel_delete", cancelDelete)
	AddHandler("select_issue", selectIssueChoice)
}

// createTicketPrefix starts the per-member create buttons posted in the
// intake channel; the suffix is the member id the button belongs to.
const createTicketPrefix = "create_ticket_"

var staffOnly = []string{"transcript", "open_ticket", "delete_ticket", "confirm_delete", "cancel_delete"}

// RequiresStaff reports whether the control is restricted to staff.
func RequiresStaff(customID string) bool {
	return slices.Contains(staffOnly, customID)
}

// Lookup resolves a component custom id to its handler. Most ids are exact;
// the per-member create buttons match by prefix.
func Lookup(customID string) (Handler, bool) {
	if fn, ok := Handlers[customID]; ok {
		return fn, true
	}

	if strings.HasPrefix(customID, createTicketPrefix) {
		return createTicketFor, true
	}

	return nil, false
}
