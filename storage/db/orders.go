package db

import "context"

type CreateOrderParams struct {
	ID              string
	BusinessID      string
	CartID          string
	StripeSessionID string
	AmountCents     int64
	CustomerEmail   string
}

func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO orders (id, business_id, cart_id, stripe_session_id, amount_cents, customer_email)
		VALUES (?, ?, ?, ?, ?, ?)`,
		arg.ID, arg.BusinessID, arg.CartID, arg.StripeSessionID, arg.AmountCents, arg.CustomerEmail,
	)
	return err
}

func (q *Queries) GetOrderByStripeSession(ctx context.Context, stripeSessionID string) (Order, error) {
	var o Order
	err := q.db.QueryRowContext(ctx, `
		SELECT id, business_id, cart_id, stripe_session_id, amount_cents, customer_email, status, receipt_path, created_at
		FROM orders WHERE stripe_session_id = ?`, stripeSessionID,
	).Scan(&o.ID, &o.BusinessID, &o.CartID, &o.StripeSessionID, &o.AmountCents, &o.CustomerEmail, &o.Status, &o.ReceiptPath, &o.CreatedAt)
	return o, err
}

type MarkOrderPaidParams struct {
	ID          string
	ReceiptPath string
}

func (q *Queries) MarkOrderPaid(ctx context.Context, arg MarkOrderPaidParams) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE orders SET status = 'paid', receipt_path = ? WHERE id = ?`, arg.ReceiptPath, arg.ID)
	return err
}
