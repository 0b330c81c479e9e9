// Package staff decides whether an actor may use the staff-only ticket
// controls. Policy is a plain role-name allow-list so deployments can swap
// it without touching the lifecycle code.
package staff

import (
	"github.com/bwmarrin/discordgo"
	"golang.org/x/exp/slices"
)

type Checker struct {
	// AllowList holds the role names that grant staff powers, e.g.
	// ["Admin", "Support Team"].
	AllowList []string
}

func NewChecker(allowList []string) *Checker {
	return &Checker{AllowList: allowList}
}

// IsStaff reports whether the member holds at least one allow-listed role.
// The member carries role ids, so the guild's role list is needed to map
// them to names.
func (c *Checker) IsStaff(member *discordgo.Member, guildRoles []*discordgo.Role) bool {
	if member == nil {
		return false
	}

	for _, role := range guildRoles {
		if !slices.Contains(member.Roles, role.ID) {
			continue
		}

		if slices.Contains(c.AllowList, role.Name) {
			return true
		}
	}

	return false
}
