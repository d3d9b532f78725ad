package bot

import (
	"popays-telegram/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	btnOrder    = "🛒 Buyurtma berish"
	btnMyOrders = "📋 Mening buyurtmalarim"
	btnAbout    = "ℹ️ Biz haqimizda"
	btnBack     = "🔙 Orqaga"
)

// Reply-markup types carrying the Bot API 6.0 web_app button, which the
// pinned telegram-bot-api release does not model. They marshal to the same
// JSON the API expects and pass through ReplyMarkup as-is.
type webAppInfo struct {
	URL string `json:"url"`
}

type replyButton struct {
	Text   string      `json:"text"`
	WebApp *webAppInfo `json:"web_app,omitempty"`
}

type replyKeyboard struct {
	Keyboard              [][]replyButton `json:"keyboard"`
	ResizeKeyboard        bool            `json:"resize_keyboard"`
	InputFieldPlaceholder string          `json:"input_field_placeholder,omitempty"`
}

// mainMenuKeyboard is the persistent reply keyboard with the WebApp order
// button.
func (b *Bot) mainMenuKeyboard() replyKeyboard {
	return replyKeyboard{
		Keyboard: [][]replyButton{
			{{Text: btnOrder, WebApp: &webAppInfo{URL: b.cfg.Telegram.WebAppURL}}},
			{{Text: btnMyOrders}, {Text: btnAbout}},
		},
		ResizeKeyboard:        true,
		InputFieldPlaceholder: "Buyurtma berish uchun tugmani bosing",
	}
}

func backKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnBack)),
	)
	kb.ResizeKeyboard = true
	return kb
}

// cardMarkup converts OrderCardContent.Buttons to a Telegram inline keyboard.
func cardMarkup(c services.OrderCardContent) *tgbotapi.InlineKeyboardMarkup {
	if len(c.Buttons) == 0 {
		return nil
	}
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, row := range c.Buttons {
		var btns []tgbotapi.InlineKeyboardButton
		for _, btn := range row {
			btns = append(btns, tgbotapi.NewInlineKeyboardButtonData(btn.Text, btn.CallbackData))
		}
		rows = append(rows, btns)
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

// cancelKeyboard is attached to the customer confirmation so the customer
// can withdraw a still-pending order.
func cancelKeyboard(orderID string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🚫 Bekor qilish", "cancel_order_"+orderID),
		),
	)
}

// adminPaginationKeyboard builds prev/next page buttons for the recent
// orders list.
func adminPaginationKeyboard(page, totalPages int) tgbotapi.InlineKeyboardMarkup {
	var row []tgbotapi.InlineKeyboardButton
	if page > 1 {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("⬅️ Oldingi", pageCallback(page-1)))
	}
	if page < totalPages {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("Keyingi ➡️", pageCallback(page+1)))
	}
	rows := [][]tgbotapi.InlineKeyboardButton{}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🏠 Bosh menyu", "admin_main_menu"),
	))
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}
