package db

import (
	"context"
	"database/sql"
)

type CreateBusinessParams struct {
	ID              string
	OwnerUserID     string
	Name            string
	Slug            string
	Tagline         string
	Bio             string
	LogoURL         string
	StripeAccountID string
}

func (q *Queries) CreateBusiness(ctx context.Context, arg CreateBusinessParams) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO businesses (id, owner_user_id, name, slug, tagline, bio, logo_url, stripe_account_id)
		VALUES (?, NULLIF(?, ''), ?, ?, ?, ?, ?, ?)`,
		arg.ID, arg.OwnerUserID, arg.Name, arg.Slug, arg.Tagline, arg.Bio, arg.LogoURL, arg.StripeAccountID,
	)
	return err
}

const businessColumns = `id, owner_user_id, name, slug, tagline, bio, logo_url, stripe_account_id, created_at, updated_at`

func scanBusiness(row *sql.Row) (Business, error) {
	var b Business
	err := row.Scan(&b.ID, &b.OwnerUserID, &b.Name, &b.Slug, &b.Tagline, &b.Bio, &b.LogoURL, &b.StripeAccountID, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func (q *Queries) GetBusiness(ctx context.Context, id string) (Business, error) {
	return scanBusiness(q.db.QueryRowContext(ctx, `SELECT `+businessColumns+` FROM businesses WHERE id = ?`, id))
}

func (q *Queries) GetBusinessBySlug(ctx context.Context, slug string) (Business, error) {
	return scanBusiness(q.db.QueryRowContext(ctx, `SELECT `+businessColumns+` FROM businesses WHERE slug = ?`, slug))
}

type UpdateBusinessBrandingParams struct {
	ID      string
	Name    string
	Tagline string
	Bio     string
	LogoURL string
}

func (q *Queries) UpdateBusinessBranding(ctx context.Context, arg UpdateBusinessBrandingParams) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE businesses
		SET name = ?, tagline = ?, bio = ?, logo_url = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		arg.Name, arg.Tagline, arg.Bio, arg.LogoURL, arg.ID,
	)
	return err
}

type CreateProductParams struct {
	ID          string
	BusinessID  string
	Name        string
	Description string
	PriceCents  int64
	ImageURL    string
}

func (q *Queries) CreateProduct(ctx context.Context, arg CreateProductParams) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO products (id, business_id, name, description, price_cents, image_url)
		VALUES (?, ?, ?, ?, ?, ?)`,
		arg.ID, arg.BusinessID, arg.Name, arg.Description, arg.PriceCents, arg.ImageURL,
	)
	return err
}

func (q *Queries) GetProduct(ctx context.Context, id string) (Product, error) {
	var p Product
	err := q.db.QueryRowContext(ctx, `
		SELECT id, business_id, name, description, price_cents, image_url, active, created_at
		FROM products WHERE id = ?`, id,
	).Scan(&p.ID, &p.BusinessID, &p.Name, &p.Description, &p.PriceCents, &p.ImageURL, &p.Active, &p.CreatedAt)
	return p, err
}

func (q *Queries) ListActiveProducts(ctx context.Context, businessID string) ([]Product, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, business_id, name, description, price_cents, image_url, active, created_at
		FROM products WHERE business_id = ? AND active = 1
		ORDER BY created_at`, businessID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.BusinessID, &p.Name, &p.Description, &p.PriceCents, &p.ImageURL, &p.Active, &p.CreatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
