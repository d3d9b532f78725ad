package bot

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"popays-telegram/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const adminOrdersPerPage = 5

func pageCallback(page int) string {
	return fmt.Sprintf("admin_page_%d", page)
}

func (b *Bot) isAdminAuthed(userID int64) bool {
	b.adminAuthMu.Lock()
	defer b.adminAuthMu.Unlock()
	until, ok := b.adminAuth[userID]
	if !ok {
		return false
	}
	if time.Now().After(until) {
		delete(b.adminAuth, userID)
		return false
	}
	return true
}

func (b *Bot) markAdminAuthed(userID int64) {
	b.adminAuthMu.Lock()
	b.adminAuth[userID] = time.Now().Add(adminAuthTTL)
	b.adminAuthMu.Unlock()
}

func (b *Bot) handleAdminCommand(chatID, userID int64) {
	ctx := context.Background()

	if b.isAdminAuthed(userID) {
		b.showAdminPanel(chatID, 1)
		return
	}

	wait, err := services.LoginThrottleWaitSeconds(ctx, userID, services.ThrottleRoleAdmin)
	if err != nil {
		log.Printf("admin throttle check user_id=%d: %v", userID, err)
	}
	if wait > 0 {
		b.send(chatID, fmt.Sprintf("⏳ Juda ko'p urinish. %d soniyadan keyin qayta urinib ko'ring.", wait))
		return
	}

	b.sessions.Set(userID, pendingAdminPassword)
	b.sendWithKeyboard(chatID, "🔐 Admin parolini kiriting:", backKeyboard())
}

func (b *Bot) handleAdminPassword(msg *tgbotapi.Message) {
	ctx := context.Background()
	userID := msg.From.ID
	chatID := msg.Chat.ID
	b.sessions.Clear(userID)

	if wait, err := services.LoginThrottleWaitSeconds(ctx, userID, services.ThrottleRoleAdmin); err == nil && wait > 0 {
		b.send(chatID, fmt.Sprintf("⏳ Juda ko'p urinish. %d soniyadan keyin qayta urinib ko'ring.", wait))
		return
	}

	if !services.CheckAdminPassword(b.cfg.Telegram.AdminPasswordHash, strings.TrimSpace(msg.Text)) {
		if err := services.RecordLoginFailed(ctx, userID, services.ThrottleRoleAdmin); err != nil {
			log.Printf("record admin login fail user_id=%d: %v", userID, err)
		}
		log.Printf("admin login failed user_id=%d", userID)
		b.sendWithKeyboard(chatID, "❌ Parol noto'g'ri!", b.mainMenuKeyboard())
		return
	}

	if err := services.RecordLoginSuccess(ctx, userID, services.ThrottleRoleAdmin); err != nil {
		log.Printf("record admin login success user_id=%d: %v", userID, err)
	}
	if err := services.LogAdminAccess(ctx, userID, msg.From.UserName, msg.From.FirstName, "login", ""); err != nil {
		log.Printf("log admin access user_id=%d: %v", userID, err)
	}
	b.markAdminAuthed(userID)
	log.Printf("admin login ok user_id=%d", userID)
	b.showAdminPanel(chatID, 1)
}

// showAdminPanel renders the stats summary plus one page of recent orders.
func (b *Bot) showAdminPanel(chatID int64, page int) {
	ctx := context.Background()

	stats, err := services.GetStatistics(ctx)
	if err != nil {
		log.Printf("admin stats: %v", err)
		b.send(chatID, "❌ Statistikani yuklashda xatolik yuz berdi.")
		return
	}
	total, err := services.CountOrders(ctx)
	if err != nil {
		log.Printf("admin count orders: %v", err)
		total = stats.TotalOrders
	}
	totalPages := (total + adminOrdersPerPage - 1) / adminOrdersPerPage
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	orders, err := services.ListRecentOrders(ctx, adminOrdersPerPage, (page-1)*adminOrdersPerPage)
	if err != nil {
		log.Printf("admin list orders: %v", err)
		b.send(chatID, "❌ Buyurtmalarni yuklashda xatolik yuz berdi.")
		return
	}

	text := "👨‍💼 Admin panel\n\n"
	text += "📊 Statistika:\n"
	text += fmt.Sprintf("• Jami buyurtmalar: %d\n", stats.TotalOrders)
	text += fmt.Sprintf("• Foydalanuvchilar: %d\n", stats.TotalUsers)
	text += fmt.Sprintf("• Bajarilgan buyurtmalar tushumi: %d so'm\n", stats.CompletedRevenue)
	for _, st := range services.AllOrderStatuses {
		if n := stats.OrdersByStatus[st]; n > 0 {
			text += fmt.Sprintf("   %s: %d\n", services.StatusLabel(st), n)
		}
	}
	text += fmt.Sprintf("\n📋 Oxirgi buyurtmalar (%d/%d):\n\n", page, totalPages)
	for _, o := range orders {
		text += fmt.Sprintf("#%s — %s\n", o.ID, services.StatusLabel(o.Status))
		text += fmt.Sprintf("   👤 %s, 📞 %s\n", o.CustomerName, o.CustomerPhone)
		text += fmt.Sprintf("   💰 %d so'm, 🕐 %s\n\n", o.GrandTotal(), o.CreatedAt.Format("2006-01-02 15:04"))
	}
	if len(orders) == 0 {
		text += "Buyurtmalar yo'q.\n"
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = adminPaginationKeyboard(page, totalPages)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("send admin panel chat_id=%d: %v", chatID, err)
	}
}

func (b *Bot) handleAdminPageCallback(cq *tgbotapi.CallbackQuery) {
	if cq.From == nil || !b.isAdminAuthed(cq.From.ID) {
		b.answerCallback(cq.ID, "🔐 Avval /admin orqali kiring")
		return
	}
	page, err := strconv.Atoi(strings.TrimPrefix(cq.Data, "admin_page_"))
	if err != nil || page < 1 {
		b.answerCallback(cq.ID, "")
		return
	}
	b.answerCallback(cq.ID, "")
	if cq.Message != nil {
		b.showAdminPanel(cq.Message.Chat.ID, page)
	}
}

func (b *Bot) handleBroadcastCommand(chatID, userID int64) {
	if userID != b.cfg.Telegram.AdminID {
		return
	}
	b.sessions.Set(userID, pendingBroadcast)
	b.sendWithKeyboard(chatID, "📢 Barcha foydalanuvchilarga yuboriladigan xabarni kiriting:", backKeyboard())
}

func (b *Bot) handleBroadcastMessage(msg *tgbotapi.Message) {
	ctx := context.Background()
	userID := msg.From.ID
	chatID := msg.Chat.ID
	b.sessions.Clear(userID)

	if userID != b.cfg.Telegram.AdminID {
		return
	}
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		b.sendWithKeyboard(chatID, "❌ Bo'sh xabar yuborib bo'lmaydi.", b.mainMenuKeyboard())
		return
	}

	recipients, err := services.ListBroadcastRecipients(ctx)
	if err != nil {
		log.Printf("broadcast recipients: %v", err)
		b.send(chatID, "❌ Foydalanuvchilar ro'yxatini yuklashda xatolik yuz berdi.")
		return
	}

	sent, failed := 0, 0
	for _, rid := range recipients {
		if rid == userID {
			continue
		}
		if _, err := b.api.Send(tgbotapi.NewMessage(rid, text)); err != nil {
			failed++
			continue
		}
		sent++
	}
	log.Printf("broadcast done sent=%d failed=%d", sent, failed)

	if err := services.LogAdminAccess(ctx, userID, msg.From.UserName, msg.From.FirstName,
		"broadcast", fmt.Sprintf("sent=%d failed=%d", sent, failed)); err != nil {
		log.Printf("log broadcast: %v", err)
	}
	b.sendWithKeyboard(chatID,
		fmt.Sprintf("📢 Xabar yuborildi.\n✅ Yetkazildi: %d\n❌ Yetkazilmadi: %d", sent, failed),
		b.mainMenuKeyboard())
}
