package bot

import (
	"context"
	"errors"
	"sync/atomic"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/reportbot/core/telegram/keyboard"
	"github.com/m3rciful/reportbot/report"
)

// errNotStarted is returned when a delivery is attempted before the bot
// transport is up.
var errNotStarted = errors.New("telegram transport not started")

// chatRecipient adapts a raw chat identifier ("@name" or numeric string) to
// tele.Recipient.
type chatRecipient string

func (r chatRecipient) Recipient() string { return string(r) }

// courier delivers rendered reports through the live bot. The bot instance is
// bound after startup, so the pointer is late-initialized.
type courier struct {
	bot atomic.Pointer[tele.Bot]
}

func newCourier() *courier { return &courier{} }

// Bind attaches the running bot instance.
func (s *courier) Bind(b *tele.Bot) { s.bot.Store(b) }

// ToChannel sends the report text to the notification channel.
func (s *courier) ToChannel(ctx context.Context, channel, text string) error {
	b := s.bot.Load()
	if b == nil {
		return errNotStarted
	}
	_, err := b.Send(chatRecipient(channel), text, &tele.SendOptions{ParseMode: tele.ModeMarkdown})
	return err
}

// ToAdmin sends the report text to one admin with resolve/reject buttons.
func (s *courier) ToAdmin(ctx context.Context, adminID int64, text, reportID string) error {
	b := s.bot.Load()
	if b == nil {
		return errNotStarted
	}
	markup := keyboard.InlineButtonsRows([]keyboard.InlineBtn{
		{Text: "✅ Resolve", Unique: string(report.ActionResolve), Data: reportID},
		{Text: "❌ Reject", Unique: string(report.ActionReject), Data: reportID},
	})
	_, err := b.Send(tele.ChatID(adminID), text, &tele.SendOptions{
		ParseMode:   tele.ModeMarkdown,
		ReplyMarkup: markup,
	})
	return err
}
