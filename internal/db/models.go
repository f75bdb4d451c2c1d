package db

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// Category is a fixed vehicle category seeded at install time.
type Category struct {
	ID   string
	Name string
}

// Car is a rentable vehicle. PricePerDay is stored in centavos.
type Car struct {
	ID          int64
	CategoryID  string
	Name        string
	PricePerDay int64
	IsAvailable bool
}

// Service is an optional booking add-on. Price is stored in centavos.
type Service struct {
	ID      int64
	Name    string
	Price   int64
	IsDaily bool
}

// User is a registered account. Roles defaults to {customer}.
type User struct {
	ID           pgtype.UUID
	Name         string
	Email        string
	PasswordHash string
	Roles        []string
	CreatedAt    pgtype.Timestamptz
	UpdatedAt    pgtype.Timestamptz
}

// Session stores a hashed refresh token.
type Session struct {
	ID           pgtype.UUID
	UserID       pgtype.UUID
	RefreshToken string
	UserAgent    pgtype.Text
	Ip           pgtype.Text
	ExpiresAt    pgtype.Timestamptz
	CreatedAt    pgtype.Timestamptz
}

// Transaction is an immutable booking record. User and car fields are
// denormalized snapshots taken at booking time.
type Transaction struct {
	ID           int64
	OccurredAt   time.Time
	UserName     string
	UserEmail    string
	CarModel     string
	Duration     int32
	ServicesUsed string
	FinalTotal   int64
}

// Message is a customer-submitted note, read-only after creation.
type Message struct {
	ID          int64
	CreatedAt   time.Time
	UserName    string
	UserEmail   string
	MessageText string
}

// DomainEvent is a persisted record of something that happened.
type DomainEvent struct {
	ID          pgtype.UUID
	Topic       string
	AggregateID string
	Payload     []byte
	OccurredAt  pgtype.Timestamptz
}
