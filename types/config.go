package types

// Config data
type ConfigCategories struct {
	Open        string `yaml:"open"`
	Closed      string `yaml:"closed"`
	Transcripts string `yaml:"transcripts"`
	Intake      string `yaml:"intake"`
}

type ConfigRoles struct {
	Support string   `yaml:"support"`
	Staff   []string `yaml:"staff"`
}

type ConfigChannels struct {
	Intake string `yaml:"intake"`
}

type ConfigDatabase struct {
	Redis string `yaml:"redis"`
}

// Issue is one entry of the staff-facing issue selection menu. Picking it
// replies with a link to the matching help page.
type Issue struct {
	Label       string `yaml:"label"`
	Description string `yaml:"description"`
	Emoji       string `yaml:"emoji"`
	URL         string `yaml:"url"`
}

type Config struct {
	Issues     map[string]Issue `yaml:"issues"`
	Categories ConfigCategories `yaml:"categories"`
	Roles      ConfigRoles      `yaml:"roles"`
	Channels   ConfigChannels   `yaml:"channels"`
	Database   ConfigDatabase   `yaml:"database"`
	Proxy      string           `yaml:"proxy"`
}

// SetDefaults fills in the names the bot was originally deployed with so a
// minimal config.yaml keeps working.
func (c *Config) SetDefaults() {
	if c.Categories.Open == "" {
		c.Categories.Open = "OPENED TICKETS"
	}

	if c.Categories.Closed == "" {
		c.Categories.Closed = "CLOSED TICKET"
	}

	if c.Categories.Transcripts == "" {
		c.Categories.Transcripts = "TRANSCRIPTS"
	}

	if c.Categories.Intake == "" {
		c.Categories.Intake = "Text Channels"
	}

	if c.Roles.Support == "" {
		c.Roles.Support = "Support Team"
	}

	if len(c.Roles.Staff) == 0 {
		c.Roles.Staff = []string{"Admin"}
	}

	if c.Channels.Intake == "" {
		c.Channels.Intake = "🎫︱open-ticket"
	}

	if c.Database.Redis == "" {
		c.Database.Redis = "redis://localhost:6379"
	}
}

// StaffRoles is the role-name allow-list for staff-only controls: the
// configured admin roles plus the support role.
func (c *Config) StaffRoles() []string {
	return append(append([]string{}, c.Roles.Staff...), c.Roles.Support)
}

type Secrets struct {
	Token string `yaml:"token"`
}
