package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"popays-telegram/models"
	"popays-telegram/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// webAppOrder is the submission payload from the POPAYS web storefront.
type webAppOrder struct {
	Type     string `json:"type"`
	Customer struct {
		Name     string `json:"name"`
		Phone    string `json:"phone"`
		Location string `json:"location"`
	} `json:"customer"`
	Items      []models.OrderItem `json:"items"`
	Total      int64              `json:"total"`
	Branch     string             `json:"branch"`
	Restaurant string             `json:"restaurant"`
	MapData    *struct {
		Coordinates struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"coordinates"`
	} `json:"mapData"`
}

// handleWebAppData is the order intake: parse the storefront payload,
// quote delivery when a coordinate is present, persist the order and route
// the card to the branch review channel.
func (b *Bot) handleWebAppData(msg *tgbotapi.Message, data string) {
	ctx := context.Background()
	chatID := msg.Chat.ID

	var payload webAppOrder
	if err := json.Unmarshal([]byte(data), &payload); err != nil {
		log.Printf("intake: bad payload user_id=%d: %v", msg.From.ID, err)
		b.sendWithKeyboard(chatID,
			"❌ Buyurtma ma'lumotlari noto'g'ri formatda!\n\nIltimos, qaytadan urinib ko'ring.",
			b.mainMenuKeyboard())
		return
	}
	if payload.Type != "order" {
		log.Printf("intake: ignoring payload type=%q user_id=%d", payload.Type, msg.From.ID)
		return
	}
	if len(payload.Items) == 0 || payload.Total <= 0 {
		b.sendWithKeyboard(chatID, "❌ Buyurtma bo'sh. Iltimos, qaytadan urinib ko'ring.", b.mainMenuKeyboard())
		return
	}
	if payload.Total < b.cfg.Delivery.MinOrderAmount {
		b.sendWithKeyboard(chatID,
			fmt.Sprintf("❌ Minimal buyurtma miqdori %d so'm.", b.cfg.Delivery.MinOrderAmount),
			b.mainMenuKeyboard())
		return
	}

	input := models.CreateOrderInput{
		UserID:        msg.From.ID,
		Username:      msg.From.UserName,
		FirstName:     msg.From.FirstName,
		CustomerName:  payload.Customer.Name,
		CustomerPhone: payload.Customer.Phone,
		CustomerAddr:  payload.Customer.Location,
		Items:         payload.Items,
		TotalAmount:   payload.Total,
		Branch:        payload.Branch,
	}

	var quote services.DeliveryQuote
	hasCoords := false
	if payload.MapData != nil {
		lat := payload.MapData.Coordinates.Latitude
		lon := payload.MapData.Coordinates.Longitude
		if validCoordinate(lat, lon) {
			q, err := services.QuoteDelivery(lat, lon, payload.Total, b.branches, b.cfg.Delivery)
			if err != nil {
				log.Printf("intake: quote user_id=%d: %v", msg.From.ID, err)
				b.send(chatID, "❌ Yetkazib berish narxini hisoblashda xatolik yuz berdi!")
				return
			}
			if !q.Available {
				// Out of range: no reviewable order is created at all.
				b.sendWithKeyboard(chatID, q.UnavailableReason, b.mainMenuKeyboard())
				return
			}
			quote = q
			hasCoords = true
			input.Lat, input.Lon = &lat, &lon
			input.DeliveryFee = &quote.TotalFee
			input.NearestBranch = &quote.NearestBranch
		}
	}

	orderID, err := services.CreateOrder(ctx, input)
	if err != nil {
		log.Printf("intake: create order user_id=%d: %v", msg.From.ID, err)
		b.sendWithKeyboard(chatID,
			"❌ Buyurtma saqlashda xatolik yuz berdi!\n\nIltimos, qaytadan urinib ko'ring.",
			b.mainMenuKeyboard())
		return
	}
	log.Printf("intake: order created order_id=%s user_id=%d total=%d branch=%q coords=%v",
		orderID, msg.From.ID, payload.Total, payload.Branch, hasCoords)

	order, err := services.GetOrder(ctx, orderID)
	if err != nil || order == nil {
		log.Printf("intake: reload order order_id=%s: %v", orderID, err)
		return
	}

	if !hasCoords {
		// No coordinate yet: hold the order back from review and ask for a
		// location first.
		b.requestLocation(chatID)
		return
	}

	b.postOrderToChannel(ctx, order, quote)

	confirm := tgbotapi.NewMessage(chatID, services.BuildCustomerConfirmation(order))
	confirm.ReplyMarkup = cancelKeyboard(order.ID)
	if _, err := b.api.Send(confirm); err != nil {
		log.Printf("intake: send confirmation order_id=%s: %v", order.ID, err)
	}
}

func (b *Bot) requestLocation(chatID int64) {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButtonLocation("📍 Manzil yuborish"),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	msg := tgbotapi.NewMessage(chatID,
		"📍 Manzilingizni yuboring\n\nYetkazib berish uchun sizning joylashuvingizni bilishimiz kerak.")
	msg.ReplyMarkup = kb
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("request location chat_id=%d: %v", chatID, err)
	}
}
