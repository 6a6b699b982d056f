package kudos

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"kudos/internal/database"
)

var (
	ErrKudoNotFound      = errors.New("kudo not found")
	ErrRecipientNotFound = errors.New("recipient not found")
)

const foreignKeyViolation = "23503"

const recentLimit = 3

// Repository provides Postgres access to kudos
type Repository struct {
	db database.Service
}

func NewRepository(db database.Service) *Repository {
	return &Repository{db: db}
}

const kudoColumns = `
		k.kudo_id, k.author_id, k.recipient_id, k.message,
		k.background_color, k.text_color, k.emoji, k.created_at,
		ap.first_name, ap.last_name, COALESCE(ap.profile_picture, '')`

// Create inserts a kudo and returns it with the author profile attached.
// An unknown recipient surfaces as ErrRecipientNotFound via the FK constraint.
func (r *Repository) Create(ctx context.Context, authorID string, req CreateKudoRequest) (*Kudo, error) {
	var k Kudo
	err := r.db.QueryRow(ctx, `
		INSERT INTO kudos (author_id, recipient_id, message, background_color, text_color, emoji)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING kudo_id, author_id, recipient_id, message, background_color, text_color, emoji, created_at`,
		authorID, req.RecipientID, req.Message,
		req.Style.BackgroundColor, req.Style.TextColor, req.Style.Emoji,
	).Scan(&k.KudoID, &k.AuthorID, &k.RecipientID, &k.Message,
		&k.Style.BackgroundColor, &k.Style.TextColor, &k.Style.Emoji, &k.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return nil, ErrRecipientNotFound
		}
		log.Printf("Failed to insert kudo from %s: %v", authorID, err)
		return nil, fmt.Errorf("failed to create kudo: %w", err)
	}

	err = r.db.QueryRow(ctx, `
		SELECT first_name, last_name, COALESCE(profile_picture, '')
		FROM profiles WHERE user_id = $1`, authorID,
	).Scan(&k.Author.FirstName, &k.Author.LastName, &k.Author.ProfilePicture)
	if err != nil {
		return nil, fmt.Errorf("failed to load author profile: %w", err)
	}
	return &k, nil
}

// ListFiltered returns the feed narrowed by filter, author profiles included.
func (r *Repository) ListFiltered(ctx context.Context, filter FeedFilter) ([]Kudo, error) {
	query, args := buildFeedQuery(filter)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		log.Printf("Failed to query kudos feed: %v", err)
		return nil, fmt.Errorf("failed to list kudos: %w", err)
	}
	defer rows.Close()
	return scanKudos(rows)
}

// Recent returns the newest kudos capped at a small fixed count.
func (r *Repository) Recent(ctx context.Context) ([]Kudo, error) {
	rows, err := r.db.Query(ctx, `
		SELECT`+kudoColumns+`
		FROM kudos k
		JOIN profiles ap ON ap.user_id = k.author_id
		ORDER BY k.created_at DESC
		LIMIT $1`, recentLimit)
	if err != nil {
		log.Printf("Failed to query recent kudos: %v", err)
		return nil, fmt.Errorf("failed to list recent kudos: %w", err)
	}
	defer rows.Close()
	return scanKudos(rows)
}

// RecipientContact returns the email and first name of a user, used
// to address notification events.
func (r *Repository) RecipientContact(ctx context.Context, userID string) (string, string, error) {
	var email, firstName string
	err := r.db.QueryRow(ctx, `
		SELECT u.email, p.first_name
		FROM users u
		JOIN profiles p ON p.user_id = u.id
		WHERE u.id = $1`, userID,
	).Scan(&email, &firstName)
	if err != nil {
		return "", "", fmt.Errorf("failed to load recipient contact: %w", err)
	}
	return email, firstName, nil
}

// buildFeedQuery maps the filter onto a whitelisted ORDER BY and an
// optional ILIKE search over message text and author names.
func buildFeedQuery(filter FeedFilter) (string, []interface{}) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT` + kudoColumns + `
		FROM kudos k
		JOIN profiles ap ON ap.user_id = k.author_id`)

	var args []interface{}
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+search+"%")
		sb.WriteString(`
		WHERE (k.message ILIKE $1 OR ap.first_name ILIKE $1 OR ap.last_name ILIKE $1)`)
	}

	switch filter.Sort {
	case "sender":
		sb.WriteString(`
		ORDER BY ap.first_name ASC, ap.last_name ASC, k.created_at DESC`)
	case "emoji":
		sb.WriteString(`
		ORDER BY k.emoji ASC, k.created_at DESC`)
	default:
		sb.WriteString(`
		ORDER BY k.created_at DESC`)
	}
	return sb.String(), args
}

type rowScanner interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

func scanKudos(rows rowScanner) ([]Kudo, error) {
	kudos := []Kudo{}
	for rows.Next() {
		var k Kudo
		if err := rows.Scan(&k.KudoID, &k.AuthorID, &k.RecipientID, &k.Message,
			&k.Style.BackgroundColor, &k.Style.TextColor, &k.Style.Emoji, &k.CreatedAt,
			&k.Author.FirstName, &k.Author.LastName, &k.Author.ProfilePicture); err != nil {
			return nil, fmt.Errorf("failed to scan kudo: %w", err)
		}
		kudos = append(kudos, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read kudos: %w", err)
	}
	return kudos, nil
}
