package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"sync"
	"time"

	"popays-telegram/config"
	"popays-telegram/models"
	"popays-telegram/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	adminAuthTTL         = 30 * time.Minute
	updateTimeoutSeconds = 60
)

type Bot struct {
	api      *tgbotapi.BotAPI
	cfg      *config.Config
	branches []models.Branch
	router   services.ChannelRouter
	sessions *sessionStore

	adminAuth   map[int64]time.Time // user id -> authenticated until
	adminAuthMu sync.Mutex
}

func New(cfg *config.Config, branches []models.Branch) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, err
	}
	return &Bot{
		api:      api,
		cfg:      cfg,
		branches: branches,
		router: services.ChannelRouter{
			PrimaryChannelID:  cfg.Telegram.OrderChannelID,
			DerezlikChannelID: cfg.Telegram.DerezlikChannelID,
		},
		sessions:  newSessionStore(),
		adminAuth: make(map[int64]time.Time),
	}, nil
}

func (b *Bot) Start() {
	_ = b.setBotCommands()

	go func() {
		for range time.Tick(time.Minute) {
			b.sessions.sweep()
		}
	}()

	offset := 0
	for {
		updates, err := b.fetchUpdates(offset)
		if err != nil {
			log.Printf("fetch updates: %v", err)
			time.Sleep(3 * time.Second)
			continue
		}
		for _, env := range updates {
			if env.UpdateID >= offset {
				offset = env.UpdateID + 1
			}
			b.dispatch(env)
		}
	}
}

func (b *Bot) dispatch(env updateEnvelope) {
	if env.CallbackQuery != nil {
		b.handleCallback(env.CallbackQuery)
		return
	}
	if env.Message == nil {
		return
	}
	msg := &env.Message.Message
	if msg.From == nil {
		return
	}
	userID := msg.From.ID
	text := strings.TrimSpace(msg.Text)

	if env.Message.WebAppData != nil {
		b.handleWebAppData(msg, env.Message.WebAppData.Data)
		return
	}
	if msg.Location != nil {
		b.handleUserLocation(msg.Chat.ID, userID, msg.Location.Latitude, msg.Location.Longitude)
		return
	}

	// Pending interactions first: the next text message belongs to them.
	if kind, ok := b.sessions.Get(userID); ok && text != btnBack {
		switch kind {
		case pendingAdminPassword:
			b.handleAdminPassword(msg)
			return
		case pendingBroadcast:
			b.handleBroadcastMessage(msg)
			return
		}
	}

	switch {
	case text == "/start":
		b.handleStart(msg)
	case text == "/admin":
		b.handleAdminCommand(msg.Chat.ID, userID)
	case text == "/broadcast":
		b.handleBroadcastCommand(msg.Chat.ID, userID)
	case text == "/myorders" || text == btnMyOrders:
		b.handleMyOrders(msg.Chat.ID, userID)
	case text == btnOrder:
		b.handleOrderButton(msg.Chat.ID)
	case text == btnAbout:
		b.handleAbout(msg.Chat.ID)
	case text == btnBack:
		b.sessions.Clear(userID)
		b.sendWithKeyboard(msg.Chat.ID, "🏠 Bosh menyu", b.mainMenuKeyboard())
	}
}

func (b *Bot) setBotCommands() error {
	cfg := tgbotapi.SetMyCommandsConfig{
		Commands: []tgbotapi.BotCommand{
			{Command: "start", Description: "Bosh sahifa"},
			{Command: "myorders", Description: "Buyurtmalarim"},
		},
	}
	_, err := b.api.Request(cfg)
	return err
}

func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("send error chat_id=%d: %v", chatID, err)
	}
}

func (b *Bot) sendWithKeyboard(chatID int64, text string, kb interface{}) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = kb
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("send error chat_id=%d: %v", chatID, err)
	}
}

func (b *Bot) answerCallback(callbackID, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		log.Printf("answer callback: %v", err)
	}
}

func (b *Bot) handleStart(msg *tgbotapi.Message) {
	ctx := context.Background()
	if err := services.UpsertCustomer(ctx, msg.From.ID, msg.From.UserName, msg.From.FirstName); err != nil {
		log.Printf("upsert customer user_id=%d: %v", msg.From.ID, err)
	}

	text := fmt.Sprintf("🎉 Xush kelibsiz, %s!\n\n", msg.From.FirstName)
	text += "🍕 POPAYS Fast Food\n"
	text += "Qo'qondagi eng yaxshi FastFood - tez va mazali taomlar! 🚀\n\n"
	for _, br := range b.branches {
		text += fmt.Sprintf("📍 %s\n", br.Name)
	}
	text += "🕐 8:00 dan 3:00 gacha\n\n"
	text += "🛒 Buyurtma berish uchun quyidagi tugmani bosing!"
	b.sendWithKeyboard(msg.Chat.ID, text, b.mainMenuKeyboard())
}

func (b *Bot) handleOrderButton(chatID int64) {
	b.sendWithKeyboard(chatID,
		"🛒 Buyurtma berish uchun yuqoridagi tugmani bosing! U sizni POPAYS web sahifasiga olib boradi.\n\n"+
			"🌐 Web sahifada:\n"+
			"• Taomlarni ko'rish va tanlash\n"+
			"• Savatga qo'shish\n"+
			"• Buyurtma berish",
		b.mainMenuKeyboard())
}

func (b *Bot) handleAbout(chatID int64) {
	text := "🏪 POPAYS Fast Food\n📍 Qo'qon Shaxri\n\n"
	for _, br := range b.branches {
		text += fmt.Sprintf("🏢 %s — %s\n", br.Name, br.Address)
	}
	text += "\n📞 +998 91 269 00 02\n📞 +998 33 200 22 11\n🕐 8:00 dan 3:00 gacha"
	b.sendWithKeyboard(chatID, text, b.mainMenuKeyboard())
}

func (b *Bot) handleMyOrders(chatID int64, userID int64) {
	ctx := context.Background()
	orders, err := services.ListOrdersByUserID(ctx, userID, 10)
	if err != nil {
		log.Printf("list orders user_id=%d: %v", userID, err)
		b.send(chatID, "❌ Buyurtmalarni yuklashda xatolik yuz berdi.")
		return
	}
	if len(orders) == 0 {
		b.sendWithKeyboard(chatID, "📭 Sizda hali buyurtmalar yo'q.", b.mainMenuKeyboard())
		return
	}
	text := "📋 Sizning buyurtmalaringiz:\n\n"
	for i, o := range orders {
		text += fmt.Sprintf("%d. Buyurtma #%s\n", i+1, o.ID)
		text += fmt.Sprintf("   Holat: %s\n", services.StatusLabel(o.Status))
		text += fmt.Sprintf("   Jami: %d so'm\n", o.GrandTotal())
		text += fmt.Sprintf("   Sana: %s\n\n", o.CreatedAt.Format("2006-01-02 15:04"))
	}
	b.sendWithKeyboard(chatID, text, b.mainMenuKeyboard())
}

// handleUserLocation attaches a follow-up location to the user's current
// pending order: quote, first-wins fee attach, then route the card to the
// review channel.
func (b *Bot) handleUserLocation(chatID int64, userID int64, lat, lon float64) {
	ctx := context.Background()

	if !validCoordinate(lat, lon) {
		b.send(chatID, "❌ Lokatsiya noto'g'ri. Iltimos, qaytadan yuboring.")
		return
	}

	order, err := services.GetUserCurrentOrder(ctx, userID)
	if err != nil {
		log.Printf("get current order user_id=%d: %v", userID, err)
		b.send(chatID, "❌ Lokatsiyani qayta ishlashda xatolik yuz berdi!")
		return
	}
	if order == nil {
		b.sendWithKeyboard(chatID,
			"❌ Sizda faol buyurtma yo'q!\n\nAvval buyurtma berish uchun menyudan taom tanlang.",
			b.mainMenuKeyboard())
		return
	}

	quote, err := services.QuoteDelivery(lat, lon, order.TotalAmount, b.branches, b.cfg.Delivery)
	if err != nil {
		log.Printf("quote delivery order_id=%s: %v", order.ID, err)
		b.send(chatID, "❌ Yetkazib berish narxini hisoblashda xatolik yuz berdi!")
		return
	}
	if !quote.Available {
		// Out of range: never a reviewable order. Reject it and tell the
		// customer why.
		if _, err := services.DecideOrder(ctx, order.ID, services.OrderStatusRejected); err != nil {
			log.Printf("reject out-of-range order_id=%s: %v", order.ID, err)
		}
		b.sendWithKeyboard(chatID, quote.UnavailableReason, b.mainMenuKeyboard())
		return
	}

	attached, err := services.AttachLocationAndFee(ctx, order.ID, lat, lon, quote.TotalFee, quote.NearestBranch)
	if err != nil {
		log.Printf("attach fee order_id=%s: %v", order.ID, err)
		b.send(chatID, "❌ Lokatsiyani qayta ishlashda xatolik yuz berdi!")
		return
	}
	if !attached {
		b.send(chatID, "ℹ️ Bu buyurtma uchun manzil allaqachon qabul qilingan.")
		return
	}

	order.Lat, order.Lon = &lat, &lon
	order.DeliveryFee = &quote.TotalFee
	order.NearestBranch = &quote.NearestBranch

	b.send(chatID, services.FormatDeliveryInfo(quote, b.cfg.Delivery))
	b.postOrderToChannel(ctx, order, quote)

	confirm := tgbotapi.NewMessage(chatID, services.BuildCustomerConfirmation(order))
	confirm.ReplyMarkup = cancelKeyboard(order.ID)
	if _, err := b.api.Send(confirm); err != nil {
		log.Printf("send confirmation order_id=%s: %v", order.ID, err)
	}
}

// postOrderToChannel sends the order card to the branch review channel and
// remembers the message pointer for later edits.
func (b *Bot) postOrderToChannel(ctx context.Context, order *models.Order, quote services.DeliveryQuote) {
	var deliveryInfo string
	if order.NearestBranch != nil {
		deliveryInfo = services.FormatDeliveryInfo(quote, b.cfg.Delivery)
	}
	card := services.BuildChannelOrderCard(order, deliveryInfo)
	channelID := b.router.ChannelFor(order.Branch)

	msg := tgbotapi.NewMessage(channelID, card.Text)
	if kb := cardMarkup(card); kb != nil {
		msg.ReplyMarkup = *kb
	}
	sent, err := b.api.Send(msg)
	if err != nil {
		log.Printf("post order card order_id=%s channel_id=%d: %v", order.ID, channelID, err)
		return
	}
	if err := services.SaveOrderChannelMessage(ctx, order.ID, channelID, sent.MessageID); err != nil {
		log.Printf("save card pointer order_id=%s: %v", order.ID, err)
	}
}

func (b *Bot) handleCallback(cq *tgbotapi.CallbackQuery) {
	data := cq.Data
	switch {
	case strings.HasPrefix(data, "accept_order_"):
		b.handleDecision(cq, strings.TrimPrefix(data, "accept_order_"), services.OrderStatusAccepted)
	case strings.HasPrefix(data, "reject_order_"):
		b.handleDecision(cq, strings.TrimPrefix(data, "reject_order_"), services.OrderStatusRejected)
	case strings.HasPrefix(data, "cancel_order_"):
		b.handleCustomerCancel(cq, strings.TrimPrefix(data, "cancel_order_"))
	case strings.HasPrefix(data, "admin_page_"):
		b.handleAdminPageCallback(cq)
	case data == "admin_main_menu":
		b.answerCallback(cq.ID, "")
		if cq.Message != nil {
			b.sendWithKeyboard(cq.Message.Chat.ID, "🏠 Bosh menyu", b.mainMenuKeyboard())
		}
	default:
		b.answerCallback(cq.ID, "")
	}
}

// handleDecision commits an operator accept/reject from the review channel.
// The status CAS decides races; only the winner edits the card and
// notifies the customer.
func (b *Bot) handleDecision(cq *tgbotapi.CallbackQuery, orderID, target string) {
	ctx := context.Background()

	order, err := services.DecideOrder(ctx, orderID, target)
	if err != nil {
		var already *services.ErrAlreadyDecided
		switch {
		case errors.As(err, &already):
			b.answerCallback(cq.ID, "ℹ️ Allaqachon hal qilingan: "+services.StatusLabel(already.CurrentStatus))
		case errors.Is(err, services.ErrOrderNotFound):
			b.answerCallback(cq.ID, "❌ Buyurtma topilmadi")
		default:
			log.Printf("decide order_id=%s target=%s: %v", orderID, target, err)
			b.answerCallback(cq.ID, "❌ Xatolik yuz berdi")
		}
		return
	}

	b.answerCallback(cq.ID, "✅ "+services.StatusLabel(target))

	actor := ""
	if cq.From != nil {
		actor = cq.From.UserName
		if actor == "" {
			actor = cq.From.FirstName
		}
	}
	if cq.Message != nil {
		edit := tgbotapi.NewEditMessageText(cq.Message.Chat.ID, cq.Message.MessageID,
			services.DecidedCardText(cq.Message.Text, target, actor))
		if _, err := b.api.Send(edit); err != nil && !strings.Contains(err.Error(), "not modified") {
			log.Printf("edit card order_id=%s: %v", orderID, err)
		}
	}

	b.notifyCustomer(ctx, order, target)
}

// handleCustomerCancel withdraws a still-pending order at the customer's
// request, then updates the already-posted channel card via its pointer.
func (b *Bot) handleCustomerCancel(cq *tgbotapi.CallbackQuery, orderID string) {
	ctx := context.Background()

	order, err := services.GetOrder(ctx, orderID)
	if err != nil || order == nil {
		b.answerCallback(cq.ID, "❌ Buyurtma topilmadi")
		return
	}
	if cq.From == nil || order.UserID != cq.From.ID {
		b.answerCallback(cq.ID, "❌ Bu sizning buyurtmangiz emas")
		return
	}

	order, err = services.DecideOrder(ctx, orderID, services.OrderStatusCancelled)
	if err != nil {
		var already *services.ErrAlreadyDecided
		if errors.As(err, &already) {
			b.answerCallback(cq.ID, "ℹ️ Allaqachon hal qilingan: "+services.StatusLabel(already.CurrentStatus))
		} else {
			log.Printf("cancel order_id=%s: %v", orderID, err)
			b.answerCallback(cq.ID, "❌ Xatolik yuz berdi")
		}
		return
	}

	b.answerCallback(cq.ID, "🚫 Bekor qilindi")
	if cq.Message != nil {
		edit := tgbotapi.NewEditMessageText(cq.Message.Chat.ID, cq.Message.MessageID,
			fmt.Sprintf("🚫 Buyurtma #%s bekor qilindi.", orderID))
		if _, err := b.api.Send(edit); err != nil {
			log.Printf("edit customer message order_id=%s: %v", orderID, err)
		}
	}

	// The channel card lives in another chat; find it through the pointer.
	chatID, messageID, ok, err := services.GetOrderChannelMessage(ctx, orderID)
	if err != nil {
		log.Printf("get card pointer order_id=%s: %v", orderID, err)
	}
	if ok {
		card := services.BuildChannelOrderCard(order, "")
		edit := tgbotapi.NewEditMessageText(chatID, messageID,
			services.DecidedCardText(card.Text, services.OrderStatusCancelled, ""))
		if _, err := b.api.Send(edit); err != nil {
			log.Printf("edit channel card order_id=%s: %v", orderID, err)
		}
	}
}

func validCoordinate(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lon) || math.IsInf(lon, 0) {
		return false
	}
	// A zero-like pair is missing data, not the Gulf of Guinea.
	if lat == 0 && lon == 0 {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
