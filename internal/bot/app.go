// Package bot wires the storefront dialog: the product menu, detail cards,
// cart editing and email capture, with per-user conversation state kept in a
// session store.
package bot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/Evst404/Sale-fish-tgbot/internal/logger"
	"github.com/Evst404/Sale-fish-tgbot/internal/session"
	"github.com/Evst404/Sale-fish-tgbot/internal/shop"
	"github.com/Evst404/Sale-fish-tgbot/internal/strapi"
	"github.com/Evst404/Sale-fish-tgbot/internal/telegram"
	"github.com/Evst404/Sale-fish-tgbot/internal/telegram/callbacks"
	tghelpers "github.com/Evst404/Sale-fish-tgbot/internal/telegram/helpers"
)

// App binds the content client, the shop service and the session store into
// telebot handlers.
type App struct {
	content  *strapi.Client
	shop     *shop.Service
	sessions session.Manager
}

// New constructs the storefront application.
func New(content *strapi.Client, svc *shop.Service, sessions session.Manager) *App {
	return &App{content: content, shop: svc, sessions: sessions}
}

// Routes lists every endpoint the bot handles. Callback buttons are bound by
// unique so telebot dispatches encoded payloads here; OnCallback catches the
// rest.
func (a *App) Routes() []telegram.Route {
	btn := func(unique string) *tele.Btn { return &tele.Btn{Unique: unique} }
	return []telegram.Route{
		{Endpoint: "/start", Handler: a.Start},
		{Endpoint: "/cancel", Handler: a.Cancel},
		{Endpoint: tele.OnText, Handler: a.Text},
		{Endpoint: btn(callbacks.UniqueProduct), Handler: a.Callback},
		{Endpoint: btn(callbacks.UniqueAddCart), Handler: a.Callback},
		{Endpoint: btn(callbacks.UniqueMyCart), Handler: a.Callback},
		{Endpoint: btn(callbacks.UniqueCartRemove), Handler: a.Callback},
		{Endpoint: btn(callbacks.UniqueCheckout), Handler: a.Callback},
		{Endpoint: btn(callbacks.UniqueBackToList), Handler: a.Callback},
		{Endpoint: tele.OnCallback, Handler: a.Callback},
	}
}

// Commands is the menu published to Telegram on startup.
func (a *App) Commands() []tele.Command {
	return []tele.Command{
		{Text: "/start", Description: "Показать товары"},
		{Text: "/cancel", Description: "Сбросить состояние"},
	}
}

// Start resets the user to the menu step and shows the catalog.
func (a *App) Start(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "start")
	a.setState(ctx, c, session.StateMenu)
	return a.sendMenu(ctx, c)
}

// Cancel drops the session entirely.
func (a *App) Cancel(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "cancel")
	if user := c.Sender(); user != nil {
		if err := a.sessions.Clear(ctx, user.ID); err != nil {
			logger.Warn(ctx, "bot", "session.clear", slog.String("err", err.Error()))
		}
	}
	return c.Send(textCancelled)
}

// Text handles free text according to the current conversation step: in the
// email step it is treated as the address, everywhere else the user is
// pointed back at the buttons.
func (a *App) Text(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "text")
	user := c.Sender()
	if user == nil {
		return nil
	}

	st, err := a.sessions.State(ctx, user.ID)
	if err != nil {
		logger.Warn(ctx, "bot", "session.get", slog.String("err", err.Error()))
	}

	switch st {
	case session.StateWaitingEmail:
		return a.captureEmail(ctx, c, user.ID)
	case session.StateCart:
		// The cart view is driven by its buttons, stray text changes nothing.
		return nil
	default:
		a.setState(ctx, c, session.StateMenu)
		return c.Send(textUseButtons)
	}
}

func (a *App) captureEmail(ctx context.Context, c tele.Context, userID int64) error {
	email := strings.TrimSpace(c.Text())

	err := a.shop.UpsertEmail(ctx, userID, email)
	switch {
	case errors.Is(err, shop.ErrInvalidEmail):
		// Stay in the email step so the user can retry.
		return c.Send(textEmailInvalid)
	case err != nil:
		logger.Error(ctx, "bot", "email.save", slog.String("err", err.Error()))
		return c.Send(textEmailFail)
	}

	if err := a.sessions.SetState(ctx, userID, session.StateMenu); err != nil {
		logger.Warn(ctx, "bot", "session.set", slog.String("err", err.Error()))
	}
	return c.Send(fmt.Sprintf(textThanksFmt, email))
}

// Callback dispatches a decoded button event. The callback is acknowledged
// first so the client spinner stops before any backend round-trip.
func (a *App) Callback(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "callback")
	user := c.Sender()
	if user == nil {
		return nil
	}

	ev, decodeErr := callbacks.FromContext(c)

	if err := c.Respond(); err != nil {
		logger.Warn(ctx, "bot", "callback.ack", slog.String("err", err.Error()))
	}

	if decodeErr != nil {
		logger.Warn(ctx, "bot", "callback.decode", slog.String("err", decodeErr.Error()))
		switch ev.Kind {
		case callbacks.KindCartRemove:
			return c.Send(textBadIndex)
		case callbacks.KindAddCart:
			return c.Send(textAddCartFail)
		case callbacks.KindProduct:
			return c.Send(textProductGone)
		}
		return nil
	}

	// Cart interactions move the dialog to the cart step, everything else
	// back to the menu; checkout narrows it further below.
	st := session.StateMenu
	if ev.Kind == callbacks.KindMyCart || ev.Kind == callbacks.KindCartRemove {
		st = session.StateCart
	}
	a.setState(ctx, c, st)

	switch ev.Kind {
	case callbacks.KindBackToList:
		return a.sendMenu(ctx, c)
	case callbacks.KindMyCart:
		return a.sendCart(ctx, c, user.ID)
	case callbacks.KindCheckout:
		a.setState(ctx, c, session.StateWaitingEmail)
		return c.Send(textEmailPrompt)
	case callbacks.KindCartRemove:
		return a.removeItem(ctx, c, user.ID, ev.Index)
	case callbacks.KindProduct:
		return a.sendProduct(ctx, c, ev.DocumentID)
	case callbacks.KindAddCart:
		return a.addItem(ctx, c, user.ID, ev.ProductID)
	}

	return c.Send(fmt.Sprintf(textChoseFmt, ev.Raw))
}

func (a *App) sendMenu(ctx context.Context, c tele.Context) error {
	products, err := a.content.Products(ctx)
	if err != nil {
		logger.Error(ctx, "bot", "catalog.list", slog.String("err", err.Error()))
		return c.Send(textCatalogFail)
	}
	if len(products) == 0 {
		return c.Send(textNoProducts)
	}
	return c.Send(textMenuHeader, menuMarkup(products))
}

func (a *App) sendCart(ctx context.Context, c tele.Context, userID int64) error {
	cart, err := a.shop.Cart(ctx, userID)
	if err != nil {
		logger.Error(ctx, "bot", "cart.get", slog.String("err", err.Error()))
		return c.Send(textCartLoadFail)
	}
	text, markup := cartView(cart)
	return c.Send(text, markup)
}

func (a *App) removeItem(ctx context.Context, c tele.Context, userID int64, index int) error {
	err := a.shop.RemoveItem(ctx, userID, index)
	switch {
	case errors.Is(err, shop.ErrItemNotFound):
		return c.Send(textNoPosition)
	case err != nil:
		logger.Error(ctx, "bot", "cart.remove", slog.String("err", err.Error()))
		return c.Send(textCartFail)
	}
	return a.sendCart(ctx, c, userID)
}

func (a *App) addItem(ctx context.Context, c tele.Context, userID, productID int64) error {
	if err := a.shop.AddItem(ctx, userID, productID, 1); err != nil {
		logger.Error(ctx, "bot", "cart.add", slog.String("err", err.Error()))
		return c.Send(textAddCartFail)
	}
	return c.Send(textAddedToCart)
}

func (a *App) sendProduct(ctx context.Context, c tele.Context, documentID string) error {
	p, err := a.content.Product(ctx, documentID)
	switch {
	case errors.Is(err, strapi.ErrNotFound):
		return c.Send(textProductGone)
	case err != nil:
		logger.Error(ctx, "bot", "product.get", slog.String("err", err.Error()))
		return c.Send(textProductFail)
	}

	caption := productCaption(p)
	markup := productMarkup(p)

	if len(p.Pictures) > 0 && p.Pictures[0].URL != "" {
		url := a.content.ResolveImageURL(p.Pictures[0].URL)
		data, _, err := a.content.DownloadImage(ctx, url)
		if err == nil {
			photo := &tele.Photo{
				File:    tele.FromReader(bytes.NewReader(data)),
				Caption: caption,
			}
			return c.Send(photo, &tele.SendOptions{ParseMode: tele.ModeHTML, ReplyMarkup: markup})
		}
		// Image failures degrade to the text card.
		logger.Warn(ctx, "bot", "product.image", slog.String("err", err.Error()))
	}

	return tghelpers.SendHTML(c, caption, markup)
}

func (a *App) setState(ctx context.Context, c tele.Context, st session.State) {
	if user := c.Sender(); user != nil {
		if err := a.sessions.SetState(ctx, user.ID, st); err != nil {
			logger.Warn(ctx, "bot", "session.set", slog.String("err", err.Error()))
		}
	}
}
