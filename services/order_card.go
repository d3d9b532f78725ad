package services

import (
	"fmt"

	"popays-telegram/models"
)

// OrderCardButton is one inline button (text + callback_data).
type OrderCardButton struct {
	Text         string
	CallbackData string
}

// OrderCardContent is the text and optional inline keyboard for an order card.
type OrderCardContent struct {
	Text    string
	Buttons [][]OrderCardButton
}

// BuildChannelOrderCard renders the review-channel card for a new order:
// customer details, line items, totals, delivery info, and the
// accept/reject keyboard.
func BuildChannelOrderCard(o *models.Order, deliveryInfo string) OrderCardContent {
	text := "🆕 YANGI BUYURTMA! 🆕\n\n"
	if o.Branch != "" {
		text += fmt.Sprintf("🏪 Filial: %s\n\n", o.Branch)
	}
	text += "👤 Mijoz ma'lumotlari:\n"
	text += fmt.Sprintf("• Ism: %s\n", o.CustomerName)
	text += fmt.Sprintf("• Telefon: %s\n", o.CustomerPhone)
	if o.CustomerAddr != "" {
		text += fmt.Sprintf("• Manzil: %s\n", o.CustomerAddr)
	}

	if o.Lat != nil && o.Lon != nil {
		text += fmt.Sprintf("\n📍 Koordinatalar: %f, %f\n", *o.Lat, *o.Lon)
	}
	if deliveryInfo != "" {
		text += "\n🚚 Yetkazib berish ma'lumotlari:\n" + deliveryInfo + "\n"
	}

	if len(o.Items) > 0 {
		text += "\n🍽️ Buyurtma:\n"
		for _, item := range o.Items {
			if item.SelectedSize != "" {
				text += fmt.Sprintf("• %s (%s) x%d = %d so'm\n", item.Name, item.SelectedSize, item.Quantity, item.Total)
			} else {
				text += fmt.Sprintf("• %s x%d = %d so'm\n", item.Name, item.Quantity, item.Total)
			}
		}
	}

	if o.DeliveryFee != nil && *o.DeliveryFee > 0 {
		text += fmt.Sprintf("\n💰 Taomlar: %d so'm", o.TotalAmount)
		text += fmt.Sprintf("\n🚚 Yetkazib berish: %d so'm", *o.DeliveryFee)
		text += fmt.Sprintf("\n💳 JAMI: %d so'm", o.GrandTotal())
	} else {
		text += fmt.Sprintf("\n💰 Jami: %d so'm", o.TotalAmount)
	}

	text += fmt.Sprintf("\n\n📱 Telegram: @%s", usernameOrDash(o.Username))
	text += fmt.Sprintf("\n🆔 User ID: %d", o.UserID)
	text += fmt.Sprintf("\n🆔 Order ID: %s", o.ID)

	buttons := [][]OrderCardButton{
		{
			{Text: "✅ Qabul qilish", CallbackData: "accept_order_" + o.ID},
			{Text: "❌ Rad etish", CallbackData: "reject_order_" + o.ID},
		},
	}
	return OrderCardContent{Text: text, Buttons: buttons}
}

// DecidedCardText appends the decision banner to an already-posted channel
// card so operators see the final state in place.
func DecidedCardText(originalText, status, actorName string) string {
	switch status {
	case OrderStatusAccepted:
		return originalText + "\n\n✅ QABUL QILINDI\n👨‍💼 Admin: @" + usernameOrDash(actorName)
	case OrderStatusRejected:
		return originalText + "\n\n❌ RAD ETILDI\n👨‍💼 Admin: @" + usernameOrDash(actorName)
	case OrderStatusCancelled:
		return originalText + "\n\n🚫 BEKOR QILINDI (mijoz)"
	}
	return originalText
}

// BuildCustomerConfirmation is the short receipt sent to the customer right
// after intake.
func BuildCustomerConfirmation(o *models.Order) string {
	text := "✅ Buyurtma qabul qilindi!\n\n"
	text += fmt.Sprintf("👤 Ism: %s\n", o.CustomerName)
	text += fmt.Sprintf("📞 Telefon: %s\n\n", o.CustomerPhone)
	if len(o.Items) > 0 {
		text += "🍽️ Buyurtma:\n"
		shown := o.Items
		if len(shown) > 3 {
			shown = shown[:3]
		}
		for _, item := range shown {
			if item.SelectedSize != "" {
				text += fmt.Sprintf("• %s (%s) x%d\n", item.Name, item.SelectedSize, item.Quantity)
			} else {
				text += fmt.Sprintf("• %s x%d\n", item.Name, item.Quantity)
			}
		}
		if len(o.Items) > 3 {
			text += fmt.Sprintf("• ... va yana %d ta\n", len(o.Items)-3)
		}
	}
	if o.DeliveryFee != nil && *o.DeliveryFee > 0 {
		text += fmt.Sprintf("\n🚚 Yetkazib berish: %d so'm", *o.DeliveryFee)
		text += fmt.Sprintf("\n💳 JAMI: %d so'm", o.GrandTotal())
	} else {
		text += fmt.Sprintf("\n💳 Jami: %d so'm", o.TotalAmount)
	}
	text += fmt.Sprintf("\n\n🆔 Buyurtma: #%s", o.ID)
	text += "\n⏳ Operator tasdiqlashini kuting."
	return text
}

func usernameOrDash(username string) string {
	if username == "" {
		return "N/A"
	}
	return username
}
