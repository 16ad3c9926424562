package db

import (
	"database/sql"
	"time"
)

type Business struct {
	ID              string
	OwnerUserID     sql.NullString
	Name            string
	Slug            string
	Tagline         string
	Bio             string
	LogoURL         string
	StripeAccountID string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Product struct {
	ID          string
	BusinessID  string
	Name        string
	Description string
	PriceCents  int64
	ImageURL    string
	Active      int64
	CreatedAt   time.Time
}

type Cart struct {
	ID         string
	BusinessID string
	UserID     sql.NullString
	AnonID     sql.NullString
	UpdatedAt  time.Time
}

type CartItem struct {
	ID                 string
	CartID             string
	ProductID          string
	OptionID           sql.NullString
	Qty                int64
	PriceCentsSnapshot int64
	NameSnapshot       string
}

type Concept struct {
	ID                 string
	BusinessID         string
	Kind               string
	Title              string
	Promise            string
	Goal               string
	CadenceDays        int64
	CadencePosts       int64
	KeyMessages        string
	SuggestedPlatforms string
	Audience           string
	CreatedAt          time.Time
}

type ConceptPost struct {
	ID         string
	ConceptID  string
	Platform   string
	Hook       string
	Caption    string
	Hashtags   string
	MediaGuide sql.NullString
	Status     string
	CreatedAt  time.Time
}

type OnboardingSession struct {
	ID                string
	AnonID            string
	UserID            sql.NullString
	BusinessID        sql.NullString
	Step              string
	Payload           string
	Completed         int64
	RecoveryFlaggedAt sql.NullTime
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type Order struct {
	ID              string
	BusinessID      string
	CartID          string
	StripeSessionID string
	AmountCents     int64
	CustomerEmail   string
	Status          string
	ReceiptPath     string
	CreatedAt       time.Time
}
