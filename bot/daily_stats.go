package bot

import (
	"context"
	"fmt"
	"log"
	"time"

	"popays-telegram/services"

	"github.com/robfig/cron/v3"
)

// StartDailyStatsJob sends yesterday's order totals to the admin every
// midnight.
func (b *Bot) StartDailyStatsJob() (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc("0 0 * * *", func() {
		b.sendDailyStats()
	})
	if err != nil {
		return nil, fmt.Errorf("schedule daily stats: %w", err)
	}
	c.Start()
	return c, nil
}

func (b *Bot) sendDailyStats() {
	ctx := context.Background()
	date := time.Now().AddDate(0, 0, -1).Format("2006-01-02")

	stats, err := services.GetDailyStats(ctx, date)
	if err != nil {
		log.Printf("daily stats %s: %v", date, err)
		return
	}

	text := fmt.Sprintf("📊 Kunlik hisobot (%s)\n\n", date)
	text += fmt.Sprintf("📦 Buyurtmalar: %d\n", stats.OrdersCount)
	text += fmt.Sprintf("🍕 Taomlar tushumi: %d so'm\n", stats.ItemsRevenue)
	text += fmt.Sprintf("🚚 Yetkazib berish tushumi: %d so'm\n", stats.DeliveryRevenue)
	text += fmt.Sprintf("💰 Jami: %d so'm", stats.GrandRevenue)

	b.send(b.cfg.Telegram.AdminID, text)
}
