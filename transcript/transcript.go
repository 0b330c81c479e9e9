// Package transcript exports a ticket channel's full message history into a
// dedicated transcript channel: a human-readable rendering delivered in
// fixed-size segments plus a machine-readable JSON archive.
package transcript

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"ticketbot/directory"
	"ticketbot/types"

	"github.com/bwmarrin/discordgo"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
	"golang.org/x/exp/slices"
)

var json = jsoniter.ConfigFastest

// SegmentSize is the character budget of one delivered transcript segment,
// the platform's message length limit.
const SegmentSize = 2000

const historyPageSize = 100

type Assembler struct {
	API    directory.API
	Dir    *directory.Directory
	Config *types.Config
	Logger *zap.Logger
}

func NewAssembler(api directory.API, dir *directory.Directory, config *types.Config, logger *zap.Logger) *Assembler {
	return &Assembler{API: api, Dir: dir, Config: config, Logger: logger}
}

// Generate walks the source channel's history oldest-first, renders it and
// delivers it to the channel's transcript channel, which is created under
// the transcripts category on first use and reused afterwards. It returns
// the transcript channel.
func (a *Assembler) Generate(source *discordgo.Channel, generatedBy *discordgo.Member) (*discordgo.Channel, error) {
	history, err := a.fullHistory(source.ID)

	if err != nil {
		return nil, err
	}

	messages := a.renderMessages(source.GuildID, history)

	var lines []string

	for _, msg := range messages {
		author := msg.Author

		if len(msg.Roles) > 0 {
			author += " (" + strings.Join(msg.Roles, ", ") + ")"
		}

		timestamp := msg.Timestamp.UTC().Format("2006-01-02 15:04:05")

		lines = append(lines, "["+timestamp+"] "+author+": "+msg.Content)

		for _, attachment := range msg.Attachments {
			lines = append(lines, "["+timestamp+"] "+msg.Author+": [Attachment] "+attachment.URL)
		}
	}

	channel, err := a.outputChannel(source, generatedBy)

	if err != nil {
		return nil, err
	}

	archive, err := json.Marshal(types.FileTranscriptData{
		GuildID:      source.GuildID,
		ChannelID:    source.ID,
		ChannelName:  source.Name,
		GeneratedBy:  generatedBy.User.ID,
		GeneratedAt:  time.Now().UTC(),
		MessageCount: len(messages),
		Messages:     messages,
	})

	if err != nil {
		return nil, fmt.Errorf("error marshalling transcript archive: %w", err)
	}

	_, err = a.API.ChannelMessageSendComplex(channel.ID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{
			{
				Title: "Transcript Overview",
				Description: "This is the transcript for `" + source.Name + "`.\n" +
					"**Generated by:** " + generatedBy.Mention() + "\n" +
					"**Original Channel:** <#" + source.ID + ">\n\n" +
					"Below, you'll find the full transcript of the conversation.",
				Color: 0x5865F2,
			},
		},
		Files: []*discordgo.File{
			{
				Name:        source.Name + ".transcript.json",
				ContentType: "application/json",
				Reader:      bytes.NewReader(archive),
			},
		},
	})

	if err != nil {
		return nil, fmt.Errorf("error sending transcript overview: %w", err)
	}

	for _, segment := range Chunk(strings.Join(lines, "\n"), SegmentSize) {
		_, err = a.API.ChannelMessageSendComplex(channel.ID, &discordgo.MessageSend{Content: segment})

		if err != nil {
			return nil, fmt.Errorf("error sending transcript segment: %w", err)
		}
	}

	a.Logger.Info("Generated transcript",
		zap.String("source", source.Name),
		zap.String("channel", channel.Name),
		zap.Int("messages", len(messages)))

	return channel, nil
}

// fullHistory collects the channel's entire history, oldest first. The
// platform pages newest-first, so pages are collected and reversed.
func (a *Assembler) fullHistory(channelID string) ([]*discordgo.Message, error) {
	var history []*discordgo.Message
	var lastMessageId string

	for {
		msgs, err := a.API.ChannelMessages(channelID, historyPageSize, lastMessageId, "", "")

		if err != nil {
			return nil, fmt.Errorf("error getting messages: %w", err)
		}

		history = append(history, msgs...)

		if len(msgs) < historyPageSize {
			break
		}

		lastMessageId = msgs[len(msgs)-1].ID
	}

	slices.Reverse(history)

	return history, nil
}

// renderMessages projects raw messages into archive entries. Every message
// counts, bot authors included. Role lookups are best-effort: an author who
// has left the guild simply renders without roles.
func (a *Assembler) renderMessages(guildID string, history []*discordgo.Message) []types.Message {
	roleNames := map[string]string{}

	if roles, err := a.API.GuildRoles(guildID); err == nil {
		for _, role := range roles {
			roleNames[role.ID] = role.Name
		}
	} else {
		a.Logger.Error("Error listing guild roles", zap.Error(err), zap.String("guildId", guildID))
	}

	memberRoles := map[string][]string{}

	var messages []types.Message

	for _, msg := range history {
		if msg.Author == nil {
			continue
		}

		roles, ok := memberRoles[msg.Author.ID]

		if !ok {
			if member, err := a.API.GuildMember(guildID, msg.Author.ID); err == nil {
				for _, roleID := range member.Roles {
					if name := roleNames[roleID]; name != "" && name != "@everyone" {
						roles = append(roles, name)
					}
				}
			}

			memberRoles[msg.Author.ID] = roles
		}

		content := msg.Content

		if content == "" {
			content = "[No Text Content]"
		}

		entry := types.Message{
			ID:        msg.ID,
			Timestamp: msg.Timestamp,
			AuthorID:  msg.Author.ID,
			Author:    msg.Author.Username + "#" + msg.Author.Discriminator,
			Roles:     roles,
			Content:   content,
			Embeds:    msg.Embeds,
		}

		for _, attachment := range msg.Attachments {
			entry.Attachments = append(entry.Attachments, types.Attachment{
				ID:   attachment.ID,
				Name: attachment.Filename,
				URL:  attachment.URL,
			})
		}

		messages = append(messages, entry)
	}

	return messages
}

// outputChannel returns the transcript channel for a source channel,
// creating it under the transcripts category on first use. The name is
// derived from the source so repeat requests land in the same channel.
func (a *Assembler) outputChannel(source *discordgo.Channel, generatedBy *discordgo.Member) (*discordgo.Channel, error) {
	category, err := a.Dir.GetOrCreateCategory(source.GuildID, a.Config.Categories.Transcripts)

	if err != nil {
		return nil, err
	}

	name := source.Name + "_transcript"

	existing, err := a.Dir.TextChannelByName(source.GuildID, category.ID, name)

	if err != nil {
		return nil, err
	}

	if existing != nil {
		return existing, nil
	}

	channel, err := a.API.GuildChannelCreateComplex(source.GuildID, discordgo.GuildChannelCreateData{
		Name:     name,
		Type:     discordgo.ChannelTypeGuildText,
		Topic:    "Transcript of " + source.Name,
		ParentID: category.ID,
		PermissionOverwrites: []*discordgo.PermissionOverwrite{
			{
				ID:   source.GuildID,
				Type: discordgo.PermissionOverwriteTypeRole,
				Deny: discordgo.PermissionViewChannel,
			},
			{
				ID:    generatedBy.User.ID,
				Type:  discordgo.PermissionOverwriteTypeMember,
				Allow: discordgo.PermissionViewChannel,
				Deny:  discordgo.PermissionSendMessages,
			},
		},
	})

	if err != nil {
		return nil, fmt.Errorf("error creating transcript channel: %w", err)
	}

	return channel, nil
}

// Chunk splits rendered content into segments of at most size characters.
// Splitting is positional, so a line may break exactly at a segment
// boundary but nowhere else.
func Chunk(content string, size int) []string {
	if content == "" {
		return nil
	}

	runes := []rune(content)

	var chunks []string

	for start := 0; start < len(runes); start += size {
		end := start + size

		if end > len(runes) {
			end = len(runes)
		}

		chunks = append(chunks, string(runes[start:end]))
	}

	return chunks
}
