package publisher

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/samgozman/fin-pulse/composer"
	"github.com/samgozman/fin-pulse/dispatcher"
	"github.com/samgozman/fin-pulse/pkg/errlvl"
)

// BotAPI is the part of tgbotapi.BotAPI used by the publisher.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) (tgbotapi.UpdatesChannel, error)
	StopReceivingUpdates()
}

// TelegramPublisher sends messages through the Telegram Bot API.
type TelegramPublisher struct {
	ChannelID string // Telegram chat id (e.g. -1001234567890) or channel username (e.g. @my_channel)
	BotAPI    BotAPI
	BotName   string // bot username without "@"; commands addressed to other bots are ignored
}

// NewTelegramPublisher connects to the Bot API. The connection is retried with exponential backoff
// while Telegram is unreachable, an invalid token fails immediately.
func NewTelegramPublisher(channelID, token string) (*TelegramPublisher, error) {
	bf := backoff.NewExponentialBackOff()
	bf.InitialInterval = 2 * time.Second
	bf.MaxInterval = 15 * time.Second
	bf.MaxElapsedTime = 60 * time.Second

	b, err := backoff.RetryWithData[*tgbotapi.BotAPI](func() (*tgbotapi.BotAPI, error) {
		api, err := tgbotapi.NewBotAPI(token)
		if err != nil {
			if strings.Contains(err.Error(), "Unauthorized") || strings.Contains(err.Error(), "Not Found") {
				return nil, backoff.Permanent(err)
			}
			slog.Warn("[publisher] Telegram not yet reachable", "error", err)
			return nil, err
		}
		return api, nil
	}, bf)
	if err != nil {
		return nil, newError(errlvl.FATAL, errConnect, err)
	}

	slog.Info("[publisher] connected to Telegram", "bot", b.Self.UserName)

	p := NewWithAPI(channelID, b)
	p.BotName = b.Self.UserName
	return p, nil
}

// NewWithAPI creates a publisher over an existing API client.
func NewWithAPI(channelID string, api BotAPI) *TelegramPublisher {
	return &TelegramPublisher{
		ChannelID: channelID,
		BotAPI:    api,
	}
}

// Publish sends the message to the configured chat.
func (t *TelegramPublisher) Publish(msg string, format composer.Format) (pubID string, err error) {
	return t.Send(t.ChannelID, msg, format)
}

// Send sends the message to chatID, which is either numeric or a channel username.
// Failures are returned once, the message is not resent.
func (t *TelegramPublisher) Send(chatID, msg string, format composer.Format) (pubID string, err error) {
	if strings.TrimSpace(msg) == "" {
		return "", newError(errlvl.WARN, errEmptyMessage)
	}

	var tgMsg tgbotapi.MessageConfig
	if id, err := strconv.ParseInt(chatID, 10, 64); err == nil {
		tgMsg = tgbotapi.NewMessage(id, msg)
	} else {
		tgMsg = tgbotapi.NewMessageToChannel(chatID, msg)
	}
	tgMsg.ParseMode = string(format)
	tgMsg.DisableWebPagePreview = true

	s, err := t.BotAPI.Send(tgMsg)
	if err != nil {
		return "", newError(errlvl.ERROR, errSend, err)
	}

	return strconv.Itoa(s.MessageID), nil
}

// Reply sends the message to the chat a command came from.
func (t *TelegramPublisher) Reply(chatID int64, msg string, format composer.Format) error {
	_, err := t.Send(strconv.FormatInt(chatID, 10), msg, format)
	return err
}

// Commands starts long polling and returns incoming slash commands until ctx is done.
func (t *TelegramPublisher) Commands(ctx context.Context) (<-chan dispatcher.Command, error) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates, err := t.BotAPI.GetUpdatesChan(u)
	if err != nil {
		return nil, newError(errlvl.FATAL, errUpdates, err)
	}

	out := make(chan dispatcher.Command)
	go func() {
		defer close(out)
		defer t.BotAPI.StopReceivingUpdates()

		for {
			select {
			case <-ctx.Done():
				return
			case update, ok := <-updates:
				if !ok {
					return
				}
				cmd, ok := t.toCommand(update)
				if !ok {
					continue
				}
				select {
				case out <- cmd:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

// toCommand extracts a slash command from a private/group message or a channel post.
// A command with "@name" is accepted only when name is this bot.
func (t *TelegramPublisher) toCommand(update tgbotapi.Update) (dispatcher.Command, bool) {
	m := update.Message
	if m == nil {
		m = update.ChannelPost
	}
	if m == nil || m.Chat == nil || !m.IsCommand() {
		return dispatcher.Command{}, false
	}

	if _, addressee, found := strings.Cut(m.CommandWithAt(), "@"); found && !strings.EqualFold(addressee, t.BotName) {
		return dispatcher.Command{}, false
	}

	return dispatcher.Command{
		Name:   m.Command(),
		ChatID: m.Chat.ID,
		Args:   m.CommandArguments(),
	}, true
}
