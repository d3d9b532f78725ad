package bot

import (
	"context"
	"log"

	"popays-telegram/models"
	"popays-telegram/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// notifyCustomer tells the order's owner about a status change. A short
// de-dup window keeps callback retries from double-messaging; notification
// failures never fail the decision itself.
func (b *Bot) notifyCustomer(ctx context.Context, order *models.Order, status string) {
	if order == nil || order.UserID == 0 {
		return
	}

	dup, err := services.SentOrderStatusNotifyWithin30s(ctx, order.ID, status)
	if err != nil {
		log.Printf("notify de-dup check order_id=%s: %v", order.ID, err)
	}
	if dup {
		return
	}

	text := services.CustomerMessageForOrderStatus(order, status)
	if text == "" {
		return
	}
	if _, err := b.api.Send(tgbotapi.NewMessage(order.UserID, text)); err != nil {
		log.Printf("notify customer order_id=%s user_id=%d: %v", order.ID, order.UserID, err)
		return
	}

	if err := services.SaveOutboundMessage(ctx, order.UserID, text, map[string]interface{}{
		"sent_via": "order_status_notify",
		"order_id": order.ID,
		"status":   status,
	}); err != nil {
		log.Printf("save notify record order_id=%s: %v", order.ID, err)
	}
}
