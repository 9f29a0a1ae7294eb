package main

import (
	"context"
	"os"
	"os/signal"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"allkinds-bot/api/internal/config"
	"allkinds-bot/api/internal/matching"
	"allkinds-bot/api/internal/store"
	"allkinds-bot/api/internal/telegram"
	"allkinds-bot/api/internal/util"
)

func main() {
	cfg := config.Load()
	log := util.NewLogger(cfg.Debug)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	st, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("store init failed")
	}
	defer st.Close()

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		log.Fatal().Err(err).Msg("telegram auth failed")
	}
	bot.Debug = false
	log.Info().Str("username", bot.Self.UserName).Msg("authorized")

	finder := matching.NewFinder(st, st, st, cfg.MinSharedQuestions, log)
	router := &telegram.Router{
		Bot:     bot,
		Finder:  finder,
		Store:   st,
		Metrics: store.NewMetricsRepo(st.DB),
		Limit:   cfg.MatchLimit,
		Log:     log,
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("shutting down")
			bot.StopReceivingUpdates()
			return
		case upd := <-updates:
			router.HandleUpdate(upd)
		}
	}
}
