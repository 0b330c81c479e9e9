package main

import (
	"context"
	"net/http"
	"os"

	"ticketbot/directory"
	"ticketbot/handlers/command"
	"ticketbot/handlers/msgcomponent"
	"ticketbot/staff"
	"ticketbot/tickets"
	"ticketbot/transcript"
	"ticketbot/types"
	"ticketbot/utils"

	"github.com/bwmarrin/discordgo"
	"github.com/infinitybotlist/eureka/proxy"
	"github.com/infinitybotlist/eureka/snippets"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var (
	config *types.Config

	secrets *types.Secrets

	discord *discordgo.Session

	rediscli *redis.Client

	mgr *tickets.Manager

	asm *transcript.Assembler

	checker *staff.Checker

	ctx = context.Background()

	logger *zap.Logger
)

func main() {
	logger = snippets.CreateZap()

	// .env is optional; secrets.yaml wins when both exist
	godotenv.Load()

	f, err := os.Open("config.yaml")

	if err != nil {
		panic(err)
	}

	err = yaml.NewDecoder(f).Decode(&config)

	if err != nil {
		panic(err)
	}

	f.Close()

	config.SetDefaults()

	f, err = os.Open("secrets.yaml")

	if err == nil {
		err = yaml.NewDecoder(f).Decode(&secrets)

		if err != nil {
			panic(err)
		}

		f.Close()
	} else {
		secrets = &types.Secrets{Token: os.Getenv("BOT_TOKEN")}
	}

	if secrets.Token == "" {
		logger.Error("The bot token is required, set it in secrets.yaml or BOT_TOKEN")
		os.Exit(1)
	}

	rOptions, err := redis.ParseURL(config.Database.Redis)

	if err != nil {
		panic(err)
	}

	rediscli = redis.NewClient(rOptions)

	discord, err = discordgo.New("Bot " + secrets.Token)

	if err != nil {
		panic(err)
	}

	if config.Proxy != "" {
		discord.Client.Transport = proxy.NewHostRewriter(config.Proxy, http.DefaultTransport, func(s string) {
			logger.Info("[PROXY]", zap.String("note", s))
		})
	}

	dir := directory.New(discord, logger)
	mgr = tickets.NewManager(discord, dir, config, logger, rediscli)
	asm = transcript.NewAssembler(discord, dir, config, logger)
	checker = staff.NewChecker(config.StaffRoles())

	discord.Identify.Intents = discordgo.IntentsAllWithoutPrivileged | discordgo.IntentsMessageContent | discordgo.IntentsGuildMembers

	discord.AddHandler(func(s *discordgo.Session, i *discordgo.Ready) {
		logger.Info("Bot is ready", zap.String("username", i.User.Username+"#"+i.User.Discriminator), zap.String("userId", i.User.ID))

		for _, cmd := range command.Commands() {
			_, err := s.ApplicationCommandCreate(s.State.User.ID, "", cmd)

			if err != nil {
				logger.Error("Error registering slash command", zap.Error(err), zap.String("command", cmd.Name))
			}
		}

		logger.Info("Slash commands synced")
	})

	discord.AddHandler(func(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
		err := mgr.WelcomeMember(m.Member)

		if err != nil {
			logger.Error("Error welcoming member", zap.Error(err), zap.String("guildId", m.GuildID), zap.String("userId", m.User.ID))
		}
	})

	discord.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		switch i.Type {
		case discordgo.InteractionApplicationCommand:
			data := i.ApplicationCommandData()

			fn, ok := command.Handlers[data.Name]

			if !ok {
				logger.Error("Invalid command handler", zap.String("command", data.Name), zap.String("userId", i.Member.User.ID))
				s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
					Content: utils.Stringp("An error occurred while handling this command. Please contact our support team about this!"),
				})
				return
			}

			err := fn(s, i.Interaction, data, config, mgr, asm, checker, ctx, logger)

			if err != nil {
				logger.Error("Error handling command", zap.Error(err), zap.String("command", data.Name), zap.String("userId", i.Member.User.ID))
				s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
					Content: utils.Stringp("An error occurred while handling this command. Please contact our support team about this!"),
				})
				return
			}
		case discordgo.InteractionMessageComponent:
			data := i.MessageComponentData()

			if msgcomponent.RequiresStaff(data.CustomID) {
				roles, err := s.GuildRoles(i.GuildID)

				if err != nil {
					logger.Error("Error listing guild roles", zap.Error(err), zap.String("guildId", i.GuildID))
					return
				}

				if !checker.IsStaff(i.Member, roles) {
					utils.Ephemeral(s, i.Interaction, "You do not have permission to use this control.")
					return
				}
			}

			fn, ok := msgcomponent.Lookup(data.CustomID)

			if !ok {
				logger.Error("Invalid component handler", zap.String("customId", data.CustomID), zap.String("userId", i.Member.User.ID))
				s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
					Content: utils.Stringp("An error occurred while handling this component. Please contact our support team about this!"),
				})
				return
			}

			err := fn(s, i.Interaction, data, config, mgr, asm, checker, ctx, logger)

			if err != nil {
				logger.Error("Error handling component", zap.Error(err), zap.String("customId", data.CustomID), zap.String("userId", i.Member.User.ID))
				s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
					Content: utils.Stringp("An error occurred while handling this component. Please contact our support team about this!"),
				})
				return
			}
		}
	})

	err = discord.Open()

	if err != nil {
		panic(err)
	}

	select {}
}
