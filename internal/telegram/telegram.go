// Package telegram connects the dispatcher to the Telegram Bot API using
// long polling.
package telegram

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	"github.com/sirupsen/logrus"

	"github.com/ppiankov/tgagent/internal/bot"
)

const (
	pollTimeout = 30 // seconds
	eventBuffer = 64

	approveLabel = "Approve"
	cancelLabel  = "Cancel"
)

// Bot is a bot.Replier and event source backed by telego.
type Bot struct {
	api *telego.Bot
	log logrus.FieldLogger
}

// New creates a Bot for token. The token format is validated locally;
// no request is made until Events is called.
func New(token string, log logrus.FieldLogger) (*Bot, error) {
	api, err := telego.NewBot(token, telego.WithHTTPClient(&http.Client{
		Timeout: (pollTimeout + 15) * time.Second,
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Bot{api: api, log: log.WithField("component", "telegram")}, nil
}

// Events starts long polling and converts updates into bot events. The
// channel is closed when ctx is done.
func (b *Bot) Events(ctx context.Context) (<-chan bot.Event, error) {
	me, err := b.api.GetMe(ctx)
	if err != nil {
		return nil, fmt.Errorf("telegram getMe: %w", err)
	}
	b.log.WithField("username", me.Username).Info("telegram bot connected")

	updates, err := b.api.UpdatesViaLongPolling(ctx, &telego.GetUpdatesParams{
		Timeout:        pollTimeout,
		AllowedUpdates: []string{"message", "callback_query"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start long polling: %w", err)
	}

	events := make(chan bot.Event, eventBuffer)
	go func() {
		defer close(events)
		for u := range updates {
			ev, ok := Convert(u)
			if !ok {
				continue
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return events, nil
}

// Convert maps an update to an event. It reports false for updates the
// agent does not handle (non-text messages, inline callbacks, edits).
func Convert(u telego.Update) (bot.Event, bool) {
	switch {
	case u.Message != nil:
		m := u.Message
		if m.Text == "" {
			return bot.Event{}, false
		}
		ev := bot.Event{Kind: bot.EventMessage, ChatID: m.Chat.ID, Text: m.Text}
		if m.From != nil {
			id := m.From.ID
			ev.UserID = &id
		}
		return ev, true

	case u.CallbackQuery != nil:
		q := u.CallbackQuery
		if q.Message == nil {
			return bot.Event{}, false
		}
		id := q.From.ID
		ev := bot.Event{
			Kind:       bot.EventCallback,
			ChatID:     q.Message.GetChat().ID,
			UserID:     &id,
			CallbackID: q.ID,
			Data:       q.Data,
		}
		if q.Message.IsAccessible() {
			ev.MessageID = q.Message.GetMessageID()
		}
		return ev, true
	}
	return bot.Event{}, false
}

// Send posts a plain text message to chatID.
func (b *Bot) Send(ctx context.Context, chatID int64, text string) error {
	_, err := b.api.SendMessage(ctx, tu.Message(tu.ID(chatID), text))
	return err
}

// SendProposal posts text with the Approve/Cancel keyboard attached.
func (b *Bot) SendProposal(ctx context.Context, chatID int64, text string) error {
	_, err := b.api.SendMessage(ctx, tu.Message(tu.ID(chatID), text).WithReplyMarkup(ProposalKeyboard()))
	return err
}

// AnswerCallback acknowledges a button press so the client stops its spinner.
func (b *Bot) AnswerCallback(ctx context.Context, callbackID string) error {
	return b.api.AnswerCallbackQuery(ctx, tu.CallbackQuery(callbackID))
}

// EditMessage replaces the text of a sent message, dropping its keyboard.
func (b *Bot) EditMessage(ctx context.Context, chatID int64, messageID int, text string) error {
	_, err := b.api.EditMessageText(ctx, tu.EditMessageText(tu.ID(chatID), messageID, text))
	return err
}

// ProposalKeyboard is the two-button choice attached to every proposal.
func ProposalKeyboard() *telego.InlineKeyboardMarkup {
	return tu.InlineKeyboard(
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton(approveLabel).WithCallbackData(bot.CallbackApprove),
			tu.InlineKeyboardButton(cancelLabel).WithCallbackData(bot.CallbackCancel),
		),
	)
}
