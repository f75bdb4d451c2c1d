package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// DBTX abstracts a pgx pool, connection, or transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Queries bundles all SQL access used by the services.
type Queries struct {
	db DBTX
}

// New constructs a Queries instance over the given connection source.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns Queries bound to the provided transaction.
func (q *Queries) WithTx(tx pgx.Tx) *Queries {
	return &Queries{db: tx}
}

// ListCategories returns all categories ordered by their stable id.
func (q *Queries) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := q.db.Query(ctx, `SELECT id, name FROM categories ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetCategoryByID fetches one category; pgx.ErrNoRows when absent.
func (q *Queries) GetCategoryByID(ctx context.Context, id string) (Category, error) {
	var c Category
	err := q.db.QueryRow(ctx, `SELECT id, name FROM categories WHERE id = $1`, id).
		Scan(&c.ID, &c.Name)
	return c, err
}

// ListCarsByCategory returns cars in a category sorted by name, optionally
// restricted to available units.
func (q *Queries) ListCarsByCategory(ctx context.Context, categoryID string, onlyAvailable bool) ([]Car, error) {
	sql := `SELECT id, category_id, name, price_per_day, is_available FROM cars WHERE category_id = $1`
	if onlyAvailable {
		sql += ` AND is_available`
	}
	sql += ` ORDER BY name`
	rows, err := q.db.Query(ctx, sql, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCars(rows)
}

// ListCars returns the whole fleet sorted by category then name.
func (q *Queries) ListCars(ctx context.Context, onlyAvailable bool) ([]Car, error) {
	sql := `SELECT id, category_id, name, price_per_day, is_available FROM cars`
	if onlyAvailable {
		sql += ` WHERE is_available`
	}
	sql += ` ORDER BY category_id, name`
	rows, err := q.db.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCars(rows)
}

// GetCarByID fetches one car; pgx.ErrNoRows when absent.
func (q *Queries) GetCarByID(ctx context.Context, id int64) (Car, error) {
	var c Car
	err := q.db.QueryRow(ctx,
		`SELECT id, category_id, name, price_per_day, is_available FROM cars WHERE id = $1`, id).
		Scan(&c.ID, &c.CategoryID, &c.Name, &c.PricePerDay, &c.IsAvailable)
	return c, err
}

// SetCarsAvailability applies the flag to every listed car in one statement
// and reports how many rows matched plus the distinct categories they belong
// to. Unknown ids simply do not match.
func (q *Queries) SetCarsAvailability(ctx context.Context, ids []int64, available bool) (int64, []string, error) {
	rows, err := q.db.Query(ctx,
		`UPDATE cars SET is_available = $1 WHERE id = ANY($2) RETURNING category_id`, available, ids)
	if err != nil {
		return 0, nil, err
	}
	defer rows.Close()
	var updated int64
	var categoryIDs []string
	seen := map[string]struct{}{}
	for rows.Next() {
		var categoryID string
		if err := rows.Scan(&categoryID); err != nil {
			return 0, nil, err
		}
		updated++
		if _, ok := seen[categoryID]; ok {
			continue
		}
		seen[categoryID] = struct{}{}
		categoryIDs = append(categoryIDs, categoryID)
	}
	return updated, categoryIDs, rows.Err()
}

// ListServices returns all add-on services ordered by id.
func (q *Queries) ListServices(ctx context.Context) ([]Service, error) {
	rows, err := q.db.Query(ctx, `SELECT id, name, price, is_daily FROM services ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Service
	for rows.Next() {
		var s Service
		if err := rows.Scan(&s.ID, &s.Name, &s.Price, &s.IsDaily); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetServicesByIDs returns the services matching ids, ordered by id.
func (q *Queries) GetServicesByIDs(ctx context.Context, ids []int64) ([]Service, error) {
	rows, err := q.db.Query(ctx,
		`SELECT id, name, price, is_daily FROM services WHERE id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Service
	for rows.Next() {
		var s Service
		if err := rows.Scan(&s.ID, &s.Name, &s.Price, &s.IsDaily); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// CreateUserParams captures the insert payload for a new account.
type CreateUserParams struct {
	Name         string
	Email        string
	PasswordHash string
	Roles        []string
}

// CreateUser inserts an account; unique-violation surfaces as *pgconn.PgError 23505.
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	roles := arg.Roles
	if len(roles) == 0 {
		roles = []string{"customer"}
	}
	var u User
	err := q.db.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, roles)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, email, password_hash, roles, created_at, updated_at`,
		arg.Name, arg.Email, arg.PasswordHash, roles).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Roles, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// GetUserByEmail fetches an account by normalized email.
func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := q.db.QueryRow(ctx, `
		SELECT id, name, email, password_hash, roles, created_at, updated_at
		FROM users WHERE email = $1`, email).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Roles, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// GetUserByID fetches an account by id.
func (q *Queries) GetUserByID(ctx context.Context, id pgtype.UUID) (User, error) {
	var u User
	err := q.db.QueryRow(ctx, `
		SELECT id, name, email, password_hash, roles, created_at, updated_at
		FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Roles, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// CreateSessionParams captures a refresh session insert.
type CreateSessionParams struct {
	UserID       pgtype.UUID
	RefreshToken string
	UserAgent    pgtype.Text
	Ip           pgtype.Text
	ExpiresAt    pgtype.Timestamptz
}

// CreateSession stores a hashed refresh token for a user.
func (q *Queries) CreateSession(ctx context.Context, arg CreateSessionParams) (Session, error) {
	var s Session
	err := q.db.QueryRow(ctx, `
		INSERT INTO sessions (user_id, refresh_token, user_agent, ip, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, refresh_token, user_agent, ip, expires_at, created_at`,
		arg.UserID, arg.RefreshToken, arg.UserAgent, arg.Ip, arg.ExpiresAt).
		Scan(&s.ID, &s.UserID, &s.RefreshToken, &s.UserAgent, &s.Ip, &s.ExpiresAt, &s.CreatedAt)
	return s, err
}

// GetSessionByToken fetches the session matching a hashed refresh token.
func (q *Queries) GetSessionByToken(ctx context.Context, refreshToken string) (Session, error) {
	var s Session
	err := q.db.QueryRow(ctx, `
		SELECT id, user_id, refresh_token, user_agent, ip, expires_at, created_at
		FROM sessions WHERE refresh_token = $1`, refreshToken).
		Scan(&s.ID, &s.UserID, &s.RefreshToken, &s.UserAgent, &s.Ip, &s.ExpiresAt, &s.CreatedAt)
	return s, err
}

// RotateSessionTokenParams swaps the stored token for a session.
type RotateSessionTokenParams struct {
	ID           pgtype.UUID
	RefreshToken string
	ExpiresAt    pgtype.Timestamptz
}

// RotateSessionToken replaces the stored refresh token in place.
func (q *Queries) RotateSessionToken(ctx context.Context, arg RotateSessionTokenParams) (Session, error) {
	var s Session
	err := q.db.QueryRow(ctx, `
		UPDATE sessions SET refresh_token = $2, expires_at = $3 WHERE id = $1
		RETURNING id, user_id, refresh_token, user_agent, ip, expires_at, created_at`,
		arg.ID, arg.RefreshToken, arg.ExpiresAt).
		Scan(&s.ID, &s.UserID, &s.RefreshToken, &s.UserAgent, &s.Ip, &s.ExpiresAt, &s.CreatedAt)
	return s, err
}

// DeleteSessionByToken revokes one session by hashed token.
func (q *Queries) DeleteSessionByToken(ctx context.Context, refreshToken string) error {
	_, err := q.db.Exec(ctx, `DELETE FROM sessions WHERE refresh_token = $1`, refreshToken)
	return err
}

// DeleteSessionsByUser revokes every session belonging to a user.
func (q *Queries) DeleteSessionsByUser(ctx context.Context, userID pgtype.UUID) error {
	_, err := q.db.Exec(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID)
	return err
}

// CreateTransactionParams captures the denormalized booking snapshot.
type CreateTransactionParams struct {
	OccurredAt   time.Time
	UserName     string
	UserEmail    string
	CarModel     string
	Duration     int32
	ServicesUsed string
	FinalTotal   int64
}

// CreateTransaction appends an immutable booking record.
func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) (Transaction, error) {
	var t Transaction
	err := q.db.QueryRow(ctx, `
		INSERT INTO transactions (occurred_at, user_name, user_email, car_model, duration, services_used, final_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, occurred_at, user_name, user_email, car_model, duration, services_used, final_total`,
		arg.OccurredAt, arg.UserName, arg.UserEmail, arg.CarModel, arg.Duration, arg.ServicesUsed, arg.FinalTotal).
		Scan(&t.ID, &t.OccurredAt, &t.UserName, &t.UserEmail, &t.CarModel, &t.Duration, &t.ServicesUsed, &t.FinalTotal)
	return t, err
}

// ListTransactions returns the full booking history, newest first.
func (q *Queries) ListTransactions(ctx context.Context) ([]Transaction, error) {
	rows, err := q.db.Query(ctx, `
		SELECT id, occurred_at, user_name, user_email, car_model, duration, services_used, final_total
		FROM transactions ORDER BY occurred_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.OccurredAt, &t.UserName, &t.UserEmail, &t.CarModel, &t.Duration, &t.ServicesUsed, &t.FinalTotal); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// CreateMessageParams captures a customer message snapshot.
type CreateMessageParams struct {
	CreatedAt   time.Time
	UserName    string
	UserEmail   string
	MessageText string
}

// CreateMessage appends a customer message.
func (q *Queries) CreateMessage(ctx context.Context, arg CreateMessageParams) (Message, error) {
	var m Message
	err := q.db.QueryRow(ctx, `
		INSERT INTO messages (created_at, user_name, user_email, message_text)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, user_name, user_email, message_text`,
		arg.CreatedAt, arg.UserName, arg.UserEmail, arg.MessageText).
		Scan(&m.ID, &m.CreatedAt, &m.UserName, &m.UserEmail, &m.MessageText)
	return m, err
}

// ListMessages returns all messages, newest first.
func (q *Queries) ListMessages(ctx context.Context) ([]Message, error) {
	rows, err := q.db.Query(ctx, `
		SELECT id, created_at, user_name, user_email, message_text
		FROM messages ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.CreatedAt, &m.UserName, &m.UserEmail, &m.MessageText); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// InsertDomainEventParams captures a domain event insert.
type InsertDomainEventParams struct {
	Topic       string
	AggregateID string
	Payload     []byte
}

// InsertDomainEvent persists a domain event and returns the stored row.
func (q *Queries) InsertDomainEvent(ctx context.Context, arg InsertDomainEventParams) (DomainEvent, error) {
	var ev DomainEvent
	err := q.db.QueryRow(ctx, `
		INSERT INTO domain_events (topic, aggregate_id, payload)
		VALUES ($1, $2, $3)
		RETURNING id, topic, aggregate_id, payload, occurred_at`,
		arg.Topic, arg.AggregateID, arg.Payload).
		Scan(&ev.ID, &ev.Topic, &ev.AggregateID, &ev.Payload, &ev.OccurredAt)
	return ev, err
}

func scanCars(rows pgx.Rows) ([]Car, error) {
	var out []Car
	for rows.Next() {
		var c Car
		if err := rows.Scan(&c.ID, &c.CategoryID, &c.Name, &c.PricePerDay, &c.IsAvailable); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
