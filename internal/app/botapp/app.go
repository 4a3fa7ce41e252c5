package botapp

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ivankudzin/profilehub/internal/config"
	tginfra "github.com/ivankudzin/profilehub/internal/infra/telegram"
	"github.com/ivankudzin/profilehub/internal/repo/apihttp"
	authsvc "github.com/ivankudzin/profilehub/internal/services/auth"
)

const (
	helpText = "Commands:\n" +
		"/register name; age; city; sex[; about] - create your profile\n" +
		"/me - show your profile\n" +
		"/delete - remove your profile"
	registerUsageText = "Usage: /register name; age; city; sex[; about]"
)

type App struct {
	cfg    config.Config
	logger *zap.Logger
	bot    *tginfra.Bot
	api    *apihttp.Client
}

func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	bot, err := tginfra.NewBot(cfg.Bot.Token)
	if err != nil {
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}

	api, err := apihttp.NewClient(cfg.Bot.APIBase, authsvc.NewHMACSigner(cfg.Auth.HMACSecret), cfg.Bot.Timeout)
	if err != nil {
		return nil, fmt.Errorf("init profile api client: %w", err)
	}

	return &App{
		cfg:    cfg,
		logger: logger,
		bot:    bot,
		api:    api,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.logger.Info("bot started")

	return a.bot.Listen(ctx, tginfra.Handlers{
		OnCommand: a.handleCommand,
		OnText: func(ctx context.Context, update tginfra.TextUpdate) error {
			return a.reply(ctx, update.ChatID, helpText)
		},
	})
}

func (a *App) handleCommand(ctx context.Context, update tginfra.CommandUpdate) error {
	switch update.Command {
	case "start", "help":
		return a.reply(ctx, update.ChatID, helpText)
	case "register":
		return a.handleRegister(ctx, update)
	case "me":
		return a.handleMe(ctx, update)
	case "delete":
		return a.handleDelete(ctx, update)
	default:
		return a.reply(ctx, update.ChatID, "Unknown command.\n"+helpText)
	}
}

func (a *App) handleRegister(ctx context.Context, update tginfra.CommandUpdate) error {
	payload, err := parseRegisterArgs(update.UserID, update.Args)
	if err != nil {
		return a.reply(ctx, update.ChatID, registerUsageText)
	}

	if err := a.api.CreateProfile(ctx, payload); err != nil {
		if errors.Is(err, apihttp.ErrAlreadyExists) {
			return a.reply(ctx, update.ChatID, "You are already registered. Use /me to see your profile.")
		}
		a.logger.Warn("create profile failed", zap.Int64("telegram_id", update.UserID), zap.Error(err))
		return a.reply(ctx, update.ChatID, "Registration failed, try again later.")
	}

	return a.reply(ctx, update.ChatID, "Profile created. Use /me to see it.")
}

func (a *App) handleMe(ctx context.Context, update tginfra.CommandUpdate) error {
	profile, err := a.api.GetProfile(ctx, update.UserID)
	if err != nil {
		if errors.Is(err, apihttp.ErrNotFound) {
			return a.reply(ctx, update.ChatID, "You have no profile yet. Use /register to create one.")
		}
		a.logger.Warn("get profile failed", zap.Int64("telegram_id", update.UserID), zap.Error(err))
		return a.reply(ctx, update.ChatID, "Could not load your profile, try again later.")
	}

	return a.reply(ctx, update.ChatID, formatProfile(profile))
}

func (a *App) handleDelete(ctx context.Context, update tginfra.CommandUpdate) error {
	if err := a.api.DeleteProfile(ctx, update.UserID); err != nil {
		if errors.Is(err, apihttp.ErrNotFound) {
			return a.reply(ctx, update.ChatID, "You have no profile to delete.")
		}
		a.logger.Warn("delete profile failed", zap.Int64("telegram_id", update.UserID), zap.Error(err))
		return a.reply(ctx, update.ChatID, "Could not delete your profile, try again later.")
	}

	return a.reply(ctx, update.ChatID, "Profile deleted.")
}

func (a *App) reply(ctx context.Context, chatID int64, text string) error {
	if err := a.bot.SendText(ctx, chatID, text); err != nil {
		a.logger.Warn("send telegram message failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
	return nil
}

func parseRegisterArgs(telegramID int64, args string) (apihttp.ProfilePayload, error) {
	parts := strings.Split(args, ";")
	if len(parts) < 3 {
		return apihttp.ProfilePayload{}, fmt.Errorf("not enough arguments")
	}

	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	age, err := strconv.Atoi(parts[1])
	if err != nil {
		return apihttp.ProfilePayload{}, fmt.Errorf("parse age: %w", err)
	}

	payload := apihttp.ProfilePayload{
		TelegramID: telegramID,
		Name:       parts[0],
		Age:        age,
		City:       parts[2],
	}
	if len(parts) > 3 {
		payload.Sex = parts[3]
	}
	if len(parts) > 4 && parts[4] != "" {
		about := parts[4]
		payload.AboutMe = &about
	}

	return payload, nil
}

func formatProfile(profile apihttp.ProfilePayload) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\nAge: %d\nCity: %s", profile.Name, profile.Age, profile.City)
	if profile.Sex != "" {
		fmt.Fprintf(&b, "\nSex: %s", profile.Sex)
	}
	if profile.AboutMe != nil && *profile.AboutMe != "" {
		fmt.Fprintf(&b, "\nAbout: %s", *profile.AboutMe)
	}
	return b.String()
}
