package types

import (
	"time"

	"github.com/bwmarrin/discordgo"
)

type Attachment struct {
	ID   string `json:"id"`   // ID of the attachment within the ticket
	Name string `json:"name"` // Name of the attachment
	URL  string `json:"url"`  // URL of the attachment
}

type Message struct {
	ID          string                    `json:"id"`
	Timestamp   time.Time                 `json:"timestamp"`
	AuthorID    string                    `json:"author_id"`
	Author      string                    `json:"author"`
	Roles       []string                  `json:"roles"`
	Content     string                    `json:"content"`
	Embeds      []*discordgo.MessageEmbed `json:"embeds"`
	Attachments []Attachment              `json:"attachments"`
}

// FileTranscriptData is the machine-readable archive attached to every
// transcript overview message, alongside the plain-text chunks.
type FileTranscriptData struct {
	GuildID      string    `json:"guild_id"`
	ChannelID    string    `json:"channel_id"`
	ChannelName  string    `json:"channel_name"`
	GeneratedBy  string    `json:"generated_by"`
	GeneratedAt  time.Time `json:"generated_at"`
	MessageCount int       `json:"message_count"`
	Messages     []Message `json:"messages"`
}
