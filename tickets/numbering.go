package tickets

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// ChannelPrefix starts every ticket channel name.
const ChannelPrefix = "ticket-"

var handleSanitizer = regexp.MustCompile(`[^a-z0-9_-]`)

// SanitizeHandle lowercases a display handle and strips everything outside
// [a-z0-9_-] so it is safe to embed in a channel name.
func SanitizeHandle(handle string) string {
	return handleSanitizer.ReplaceAllString(strings.ToLower(handle), "")
}

// ChannelName builds the canonical ticket channel name,
// e.g. ticket-0001-alice.
func ChannelName(number int, handle string) string {
	return fmt.Sprintf("%s%04d-%s", ChannelPrefix, number, SanitizeHandle(handle))
}

// ParseTicketNumber extracts the ticket number embedded in a channel name.
// Names without the ticket prefix or with an unparseable number segment are
// reported as not tickets, never as errors.
func ParseTicketNumber(name string) (int, bool) {
	if !strings.HasPrefix(name, ChannelPrefix) {
		return 0, false
	}

	segment, _, _ := strings.Cut(strings.TrimPrefix(name, ChannelPrefix), "-")

	number, err := strconv.Atoi(segment)

	if err != nil || number <= 0 {
		return 0, false
	}

	return number, true
}

// NextTicketNumber hands out the next ticket number for a guild: one more
// than the highest number currently embedded in a ticket channel name
// across the open and closed categories combined, or 1 when there are none.
// A per-guild high-water mark keeps deleted numbers out of circulation, so
// deleting a ticket leaves a permanent gap rather than freeing its number.
func (m *Manager) NextTicketNumber(guildID string, openCategoryID string, closedCategoryID string) (int, error) {
	channels, err := m.API.GuildChannels(guildID)

	if err != nil {
		return 0, fmt.Errorf("error listing guild channels: %w", err)
	}

	max := 0

	for _, channel := range channels {
		if channel.ParentID != openCategoryID && channel.ParentID != closedCategoryID {
			continue
		}

		number, ok := ParseTicketNumber(channel.Name)

		if !ok {
			continue
		}

		if number > max {
			max = number
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if hwm := m.numbers[guildID]; hwm > max {
		max = hwm
	}

	next := max + 1
	m.numbers[guildID] = next

	return next, nil
}

// FindOpenTicket returns the channel in the open category whose overwrite
// for the requester allows both viewing and sending, or nil if the
// requester has no open ticket. A plain scan: open categories stay small.
func (m *Manager) FindOpenTicket(guildID string, openCategoryID string, userID string) (*discordgo.Channel, error) {
	channels, err := m.Dir.ChannelsIn(guildID, openCategoryID)

	if err != nil {
		return nil, err
	}

	for _, channel := range channels {
		if overwriteAllows(channel, userID, discordgo.PermissionViewChannel|discordgo.PermissionSendMessages) {
			return channel, nil
		}
	}

	return nil, nil
}
