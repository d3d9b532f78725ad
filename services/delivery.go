package services

import (
	"fmt"
	"math"

	"popays-telegram/config"
	"popays-telegram/models"
)

// Fee policies. A deployment runs exactly one of them (FEE_POLICY env);
// they are never mixed.
const (
	// FeePolicyComputed charges base fee + per-km surcharge, with free
	// delivery above the order-amount threshold.
	FeePolicyComputed = "computed"
	// FeePolicyReminder never charges through the bot; the quote carries a
	// reminder that a fee may apply, for deployments where the fee is
	// settled in cash with the courier.
	FeePolicyReminder = "reminder"
)

// DeliveryQuote is the outcome of the fee/availability decision for one
// (customer, order) pair. It is attached to an order, never persisted on
// its own.
type DeliveryQuote struct {
	NearestBranch        string
	NearestBranchAddress string
	DistanceKm           float64 // rounded to 2 decimals, display only
	Available            bool
	UnavailableReason    string // user-facing, set when !Available

	BaseFee     int64
	DistanceFee int64
	TotalFee    int64
	IsFree      bool
	Reminder    string // set under FeePolicyReminder instead of a charge
}

// QuoteDelivery resolves the nearest branch for the customer coordinate and
// applies the configured fee policy. Distance over MaxDeliveryDistanceKm
// short-circuits to an unavailable quote before any fee math. Coordinates
// must be validated by the caller; this stays a pure numeric function.
func QuoteDelivery(lat, lon float64, orderAmount int64, branches []models.Branch, d config.DeliveryConfig) (DeliveryQuote, error) {
	branch, distance, err := NearestBranch(lat, lon, branches)
	if err != nil {
		return DeliveryQuote{}, err
	}

	q := DeliveryQuote{
		NearestBranch:        branch.Name,
		NearestBranchAddress: branch.Address,
		DistanceKm:           math.Round(distance*100) / 100,
	}

	if distance > d.MaxDeliveryDistanceKm {
		q.Available = false
		q.UnavailableReason = fmt.Sprintf(
			"❌ Kechirasiz, sizning joylashuvingiz %.1f km uzoqlikda.\n\nSizga yetkazib bera olmaymiz. Maksimal yetkazib berish masofasi %.0f km.",
			distance, d.MaxDeliveryDistanceKm,
		)
		return q, nil
	}
	q.Available = true

	if d.Policy == FeePolicyReminder {
		if distance > d.FreeDeliveryRadiusKm {
			q.Reminder = fmt.Sprintf(
				"ℹ️ Manzilingiz %.0f km dan uzoqda, yetkazib berish uchun qo'shimcha to'lov olinishi mumkin. To'lov kuryer bilan kelishiladi.",
				d.FreeDeliveryRadiusKm,
			)
		} else {
			q.Reminder = "🆓 Yetkazib berish bepul!"
			q.IsFree = true
		}
		return q, nil
	}

	if orderAmount >= d.FreeDeliveryThreshold {
		// Free delivery for large orders regardless of distance.
		q.IsFree = true
		return q, nil
	}

	q.BaseFee = d.BaseDeliveryFee
	if distance > d.FreeDeliveryRadiusKm {
		// Every started km over the free radius is charged in full:
		// a customer at 3.01 km pays for 1 extra km.
		q.DistanceFee = int64(math.Ceil(distance-d.FreeDeliveryRadiusKm)) * d.DistanceFeePerKm
	}
	q.TotalFee = q.BaseFee + q.DistanceFee
	return q, nil
}

// FormatDeliveryInfo renders a quote as user-facing text for order cards
// and location replies.
func FormatDeliveryInfo(q DeliveryQuote, d config.DeliveryConfig) string {
	text := fmt.Sprintf("📍 Eng yaqin filial: %s\n", q.NearestBranch)
	text += fmt.Sprintf("🏪 Manzil: %s\n", q.NearestBranchAddress)
	text += fmt.Sprintf("📏 Masofa: %.2f km\n\n", q.DistanceKm)

	if !q.Available {
		return text + q.UnavailableReason
	}
	if q.Reminder != "" {
		return text + q.Reminder
	}
	if q.IsFree {
		text += "🆓 Yetkazib berish bepul!\n"
		text += fmt.Sprintf("(Buyurtma miqdori %d so'm dan ortiq)", d.FreeDeliveryThreshold)
		return text
	}
	text += "💰 Yetkazib berish to'lovi:\n"
	if q.DistanceFee > 0 {
		text += fmt.Sprintf("• Asosiy to'lov: %d so'm\n", q.BaseFee)
		text += fmt.Sprintf("• Masofa to'lovi (%.2f km): %d so'm\n", q.DistanceKm, q.DistanceFee)
		text += fmt.Sprintf("• Jami: %d so'm", q.TotalFee)
	} else {
		text += fmt.Sprintf("• %d so'm", q.TotalFee)
	}
	return text
}
