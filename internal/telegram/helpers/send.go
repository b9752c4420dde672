package helpers

import (
	tele "gopkg.in/telebot.v4"
)

// SendHTML sends a message with HTML parse mode and optional reply markup.
func SendHTML(c tele.Context, text string, markup ...*tele.ReplyMarkup) error {
	var rm *tele.ReplyMarkup
	if len(markup) > 0 {
		rm = markup[0]
	}
	return c.Send(text, &tele.SendOptions{ParseMode: tele.ModeHTML, ReplyMarkup: rm})
}
