package utils

import (
	"time"

	"ticketbot/directory"

	"github.com/bwmarrin/discordgo"
)

// NoticeLifetime is how long informational ephemeral follow-ups stay up
// before the bot removes them again.
const NoticeLifetime = 5 * time.Second

func Stringp(s string) *string {
	return &s
}

// Ephemeral responds to an interaction with an ephemeral notice that pings
// nobody.
func Ephemeral(s directory.API, i *discordgo.Interaction, content string) error {
	return s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
			AllowedMentions: &discordgo.MessageAllowedMentions{
				Parse: []discordgo.AllowedMentionType{},
			},
		},
	})
}

// EphemeralFollowup sends an ephemeral follow-up notice to a deferred
// interaction.
func EphemeralFollowup(s directory.API, i *discordgo.Interaction, content string) (*discordgo.Message, error) {
	return s.FollowupMessageCreate(i, true, &discordgo.WebhookParams{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Parse: []discordgo.AllowedMentionType{},
		},
	})
}

// TransientFollowup sends an ephemeral notice and schedules its removal
// after NoticeLifetime. Removal is cosmetic: if the message is already gone
// the failure is dropped.
func TransientFollowup(s directory.API, i *discordgo.Interaction, content string) error {
	msg, err := EphemeralFollowup(s, i, content)

	if err != nil {
		return err
	}

	time.AfterFunc(NoticeLifetime, func() {
		_ = s.FollowupMessageDelete(i, msg.ID)
	})

	return nil
}

// Defer acknowledges an interaction so follow-ups can arrive later.
func Defer(s directory.API, i *discordgo.Interaction, ephemeral bool) error {
	data := &discordgo.InteractionResponseData{}

	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}

	return s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: data,
	})
}
