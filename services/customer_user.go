package services

import (
	"context"

	"popays-telegram/db"
)

// UpsertCustomer records (or refreshes) a customer the bot has talked to.
// Called on /start; the table is the recipient list for broadcasts.
func UpsertCustomer(ctx context.Context, tgUserID int64, username, firstName string) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO customer_users (tg_user_id, username, first_name, last_seen_at)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), now())
		ON CONFLICT (tg_user_id) DO UPDATE SET
			username = COALESCE(NULLIF(EXCLUDED.username, ''), customer_users.username),
			first_name = COALESCE(NULLIF(EXCLUDED.first_name, ''), customer_users.first_name),
			last_seen_at = now()`,
		tgUserID, username, firstName,
	)
	return err
}

// ListBroadcastRecipients returns every known customer chat id, including
// users who never placed an order.
func ListBroadcastRecipients(ctx context.Context) ([]int64, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT tg_user_id FROM customer_users
		UNION
		SELECT DISTINCT user_id FROM orders`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
