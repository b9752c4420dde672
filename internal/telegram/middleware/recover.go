package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/Evst404/Sale-fish-tgbot/internal/logger"
	tghelpers "github.com/Evst404/Sale-fish-tgbot/internal/telegram/helpers"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// RecoverMiddleware catches panics in handlers and prevents the bot from crashing
func RecoverMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		defer func() {
			if r := recover(); r != nil {
				ctx := tghelpers.BuildContext(c)
				logger.Error(ctx, "tg", "tg.panic",
					slog.String("err", fmt.Sprint(r)),
					slog.String("stack", string(debug.Stack())),
				)
			}
		}()
		return next(c)
	}
}
