package bot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Evst404/Sale-fish-tgbot/internal/strapi"
	"github.com/Evst404/Sale-fish-tgbot/internal/telegram/callbacks"
	"github.com/Evst404/Sale-fish-tgbot/internal/telegram/keyboard"

	tele "gopkg.in/telebot.v4"
)

// menuRowWidth is how many product buttons share a keyboard row.
const menuRowWidth = 2

func productTitle(p strapi.Product) string {
	if p.Title != "" {
		return p.Title
	}
	return fmt.Sprintf(fallbackTitleFmt, p.ID)
}

func formatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}

// menuMarkup lays the catalog out as product buttons in rows of two plus a
// trailing cart row. Button payload carries both ids so the detail view can
// address the product by documentId while add-to-cart uses the numeric id.
func menuMarkup(products []strapi.Product) *tele.ReplyMarkup {
	buttons := make([]keyboard.InlineBtn, 0, len(products))
	for _, p := range products {
		buttons = append(buttons, keyboard.InlineBtn{
			Text:   productTitle(p),
			Unique: callbacks.UniqueProduct,
			Data:   fmt.Sprintf("%d:%s", p.ID, p.DocID()),
		})
	}

	rows := keyboard.ChunkRows(buttons, menuRowWidth)
	rows = append(rows, []keyboard.InlineBtn{
		{Text: btnMyCart, Unique: callbacks.UniqueMyCart},
	})
	return keyboard.InlineButtonsRows(rows...)
}

// productCaption renders the HTML detail card body.
func productCaption(p *strapi.Product) string {
	title := p.Title
	if title == "" {
		title = "Товар"
	}
	descr := p.Description
	if descr == "" {
		descr = textNoDescr
	}
	price := "—"
	if p.Price != nil {
		price = formatPrice(*p.Price)
	}
	return fmt.Sprintf("<b>%s</b>\nЦена: %s\n\n%s", title, price, descr)
}

func productMarkup(p *strapi.Product) *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: btnAddCart, Unique: callbacks.UniqueAddCart, Data: strconv.FormatInt(p.ID, 10)},
		{Text: btnMyCart, Unique: callbacks.UniqueMyCart},
		{Text: btnBack, Unique: callbacks.UniqueBackToList},
	})
}

// cartView renders the cart text and keyboard. Each line gets its own remove
// button carrying the zero-based item index. A nil or empty cart collapses to
// the empty message with a single back button.
func cartView(cart *strapi.Cart) (string, *tele.ReplyMarkup) {
	if cart == nil || len(cart.Items) == 0 {
		markup := keyboard.InlineButtons([]keyboard.InlineBtn{
			{Text: btnToMenu, Unique: callbacks.UniqueBackToList},
		})
		return textCartEmpty, markup
	}

	lines := []string{textCartTitle}
	var rows [][]keyboard.InlineBtn
	for i, item := range cart.Items {
		title := fmt.Sprintf(fallbackTitleFmt, 0)
		var price *float64
		if item.Product != nil {
			title = productTitle(*item.Product)
			price = item.Product.Price
		}
		line := fmt.Sprintf("%d. %s x %s", i+1, title, formatPrice(item.Qty()))
		if price != nil {
			line += " — " + formatPrice(*price)
		}
		lines = append(lines, line)
		rows = append(rows, []keyboard.InlineBtn{{
			Text:   fmt.Sprintf(btnRemoveFmt, i+1),
			Unique: callbacks.UniqueCartRemove,
			Data:   strconv.Itoa(i),
		}})
	}

	rows = append(rows, []keyboard.InlineBtn{
		{Text: btnPay, Unique: callbacks.UniqueCheckout},
		{Text: btnToMenu, Unique: callbacks.UniqueBackToList},
	})
	return strings.Join(lines, "\n"), keyboard.InlineButtonsRows(rows...)
}
