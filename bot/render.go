package bot

import (
	tele "gopkg.in/telebot.v4"

	tghelpers "github.com/m3rciful/reportbot/core/telegram/helpers"
	"github.com/m3rciful/reportbot/core/telegram/keyboard"
	"github.com/m3rciful/reportbot/report"
)

// promptMarkup converts a flow prompt keyboard into telebot inline markup.
// Returns nil when the prompt carries no buttons.
func promptMarkup(p report.Prompt) *tele.ReplyMarkup {
	if len(p.Keyboard) == 0 {
		return nil
	}
	rows := make([][]keyboard.InlineBtn, len(p.Keyboard))
	for i, row := range p.Keyboard {
		r := make([]keyboard.InlineBtn, len(row))
		for j, btn := range row {
			r[j] = keyboard.InlineBtn{
				Text:   btn.Label,
				Unique: string(btn.Action),
				Data:   btn.Payload,
			}
		}
		rows[i] = r
	}
	return keyboard.InlineButtonsRows(rows...)
}

// sendPrompt delivers a prompt as a new message.
func sendPrompt(c tele.Context, p report.Prompt) error {
	if markup := promptMarkup(p); markup != nil {
		return tghelpers.SendMD(c, p.Text, markup)
	}
	return tghelpers.SendMD(c, p.Text)
}

// editPrompt replaces the message the pressed button was attached to, falling
// back to a fresh send when the message is gone.
func editPrompt(c tele.Context, p report.Prompt) error {
	if markup := promptMarkup(p); markup != nil {
		return tghelpers.EditOrSendMD(c, p.Text, markup)
	}
	return tghelpers.EditOrSendMD(c, p.Text)
}
