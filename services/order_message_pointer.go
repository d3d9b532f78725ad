package services

import (
	"context"
	"errors"

	"popays-telegram/db"

	"github.com/jackc/pgx/v5"
)

// GetOrderChannelMessage returns the review-channel chat and message id for
// the order's card. ok is false if the card was never posted (or the
// pointer was lost), in which case the caller skips the edit.
func GetOrderChannelMessage(ctx context.Context, orderID string) (chatID int64, messageID int, ok bool, err error) {
	err = db.Pool.QueryRow(ctx, `
		SELECT chat_id, message_id FROM order_channel_messages WHERE order_id = $1`,
		orderID,
	).Scan(&chatID, &messageID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, 0, false, nil
		}
		return 0, 0, false, err
	}
	return chatID, messageID, true, nil
}

// SaveOrderChannelMessage remembers where the order's card was posted so a
// later decision from outside the channel (customer cancel) can still edit
// the card.
func SaveOrderChannelMessage(ctx context.Context, orderID string, chatID int64, messageID int) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO order_channel_messages (order_id, chat_id, message_id, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (order_id) DO UPDATE SET chat_id = EXCLUDED.chat_id, message_id = EXCLUDED.message_id, updated_at = now()`,
		orderID, chatID, messageID,
	)
	return err
}
