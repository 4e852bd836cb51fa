package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	adapter "campusbot/internal/adapters/discord"
	"campusbot/internal/application"
	"campusbot/internal/config"
	"campusbot/internal/infrastructure/database"
	"campusbot/internal/infrastructure/i18n"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("configuration failed")
	}

	version, err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath)
	if err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}
	log.Info().Uint("version", version).Msg("database schema is up to date")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer pool.Close()

	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		log.Fatal().Err(err).Msg("discord session creation failed")
	}

	eventRepo := database.NewEventRepository(pool)
	userRepo := database.NewUserRepository(pool)
	translator := i18n.NewTranslator(cfg.Locale)
	messenger := adapter.NewMessenger(session)
	rules := application.NewRules(cfg.AdminIDs)

	rejectNote := translator.T(cfg.Locale, "moderation_default_note", nil)
	eventSvc := application.NewEventService(eventRepo, userRepo, rules, cfg.Location, rejectNote)
	profileSvc := application.NewProfileService(userRepo)
	relaySvc := application.NewRelayService(messenger, translator, cfg.Locale, cfg.AdminIDs, cfg.HelperChannelID)
	reminder := application.NewReminderService(eventRepo, messenger, translator, cfg.Locale, cfg.Location)
	thermometer := application.NewThermometerService(userRepo, messenger, translator, cfg.Locale, cfg.Location)

	handler := adapter.NewHandler(eventSvc, profileSvc, relaySvc, rules, messenger, translator, cfg.Locale, cfg.Location)
	bot := adapter.NewBot(session, cfg, handler)
	if err := bot.Start(); err != nil {
		log.Fatal().Err(err).Msg("bot start failed")
	}

	go reminder.Run(ctx)
	go thermometer.Run(ctx)

	<-ctx.Done()
	log.Info().Msg("shutting down")
	bot.Stop()
}
