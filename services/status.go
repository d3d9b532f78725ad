package services

import (
	"fmt"

	"popays-telegram/models"
)

// Order statuses. Pending is the only state with outgoing decision
// transitions; an accepted order can still be marked completed. Rejected,
// cancelled and completed are terminal — orders are never reopened.
const (
	OrderStatusPending   = "pending"
	OrderStatusAccepted  = "accepted"
	OrderStatusRejected  = "rejected"
	OrderStatusCancelled = "cancelled"
	OrderStatusCompleted = "completed"
)

// AllOrderStatuses lists every valid status, in lifecycle order.
var AllOrderStatuses = []string{
	OrderStatusPending,
	OrderStatusAccepted,
	OrderStatusRejected,
	OrderStatusCancelled,
	OrderStatusCompleted,
}

// ValidStatusTransition is the exhaustive transition table.
func ValidStatusTransition(from, to string) bool {
	switch from {
	case OrderStatusPending:
		return to == OrderStatusAccepted || to == OrderStatusRejected || to == OrderStatusCancelled
	case OrderStatusAccepted:
		return to == OrderStatusCompleted
	default:
		return false
	}
}

// IsTerminalStatus reports whether no further transition is permitted.
func IsTerminalStatus(status string) bool {
	switch status {
	case OrderStatusRejected, OrderStatusCancelled, OrderStatusCompleted:
		return true
	}
	return false
}

// StatusLabel returns the Uzbek display label for a status.
func StatusLabel(status string) string {
	switch status {
	case OrderStatusPending:
		return "Kutilmoqda"
	case OrderStatusAccepted:
		return "Qabul qilingan"
	case OrderStatusRejected:
		return "Rad etilgan"
	case OrderStatusCancelled:
		return "Bekor qilingan"
	case OrderStatusCompleted:
		return "Yetkazilgan"
	default:
		return status
	}
}

// CustomerMessageForOrderStatus builds the notification text sent to the
// submitting customer when their order reaches the given status. Empty for
// statuses that do not notify.
func CustomerMessageForOrderStatus(o *models.Order, status string) string {
	switch status {
	case OrderStatusAccepted:
		text := fmt.Sprintf("✅ Buyurtmangiz qabul qilindi!\n\n🆔 Buyurtma: #%s\n", o.ID)
		if o.DeliveryFee != nil && *o.DeliveryFee > 0 {
			text += fmt.Sprintf("💰 Taomlar: %d so'm\n", o.TotalAmount)
			text += fmt.Sprintf("🚚 Yetkazib berish: %d so'm\n", *o.DeliveryFee)
			text += fmt.Sprintf("💳 JAMI: %d so'm\n", o.GrandTotal())
		} else {
			text += fmt.Sprintf("💳 Jami: %d so'm\n", o.TotalAmount)
		}
		text += "\n🚀 Tez orada yetkazib beramiz!"
		return text
	case OrderStatusRejected:
		return fmt.Sprintf(
			"❌ Buyurtmangiz rad etildi.\n\n🆔 Buyurtma: #%s\n\nSavollar bo'lsa, operatorga murojaat qiling.", o.ID)
	case OrderStatusCancelled:
		return fmt.Sprintf("🚫 Buyurtma #%s bekor qilindi.", o.ID)
	case OrderStatusCompleted:
		return fmt.Sprintf("🎉 Buyurtma #%s yetkazildi. Yoqimli ishtaha!", o.ID)
	}
	return ""
}
