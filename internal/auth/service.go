// Package auth implements registration, login and session gating for the
// kudos application. Credentials live in PostgreSQL; sessions are stateless
// signed cookies issued by the session package.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log"

	"kudos/internal/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrEmailExists is returned when registering with an email already in use
	ErrEmailExists = errors.New("email already registered")
	// ErrCreateFailed is returned when user creation yields no usable record
	ErrCreateFailed = errors.New("failed to create user")
	// ErrInvalidCredentials is returned for both unknown email and wrong
	// password so the two cases are indistinguishable to the caller
	ErrInvalidCredentials = errors.New("incorrect login")
	// ErrUserNotFound is returned when a user id resolves to no record
	ErrUserNotFound = errors.New("user not found")
)

// uniqueViolation is the PostgreSQL error code for unique constraint violations
const uniqueViolation = "23505"

// Service defines the authentication service interface
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	Login(ctx context.Context, email, password string) (*User, error)
	GetUserByID(ctx context.Context, userID string) (*User, error)
}

// service implements the Service interface
type service struct {
	db database.Service
}

// NewService creates a new authentication service
func NewService(db database.Service) Service {
	return &service{db: db}
}

// Register creates a user with a hashed password and an attached profile.
// Email uniqueness is enforced by the users_email_key constraint rather than
// a pre-check, so concurrent registrations with the same email cannot both
// succeed; the losing insert maps to ErrEmailExists.
func (s *service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	digest, err := HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	user := &User{
		ID:    uuid.New().String(),
		Email: req.Email,
		Profile: Profile{
			FirstName: req.FirstName,
			LastName:  req.LastName,
		},
	}

	insertUser := `
		INSERT INTO users (id, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	var createdID string
	err = tx.QueryRow(ctx, insertUser, user.ID, user.Email, digest).Scan(
		&createdID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "users_email_key") {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	if createdID == "" {
		return nil, ErrCreateFailed
	}

	insertProfile := `
		INSERT INTO profiles (user_id, first_name, last_name)
		VALUES ($1, $2, $3)
	`
	if _, err := tx.Exec(ctx, insertProfile, user.ID, req.FirstName, req.LastName); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit registration: %w", err)
	}

	log.Printf("Registered new user %s (ID: %s)", user.Email, user.ID)
	return user, nil
}

// Login looks up the user by email and verifies the password. Unknown email
// and wrong password both return ErrInvalidCredentials.
func (s *service) Login(ctx context.Context, email, password string) (*User, error) {
	query := `
		SELECT u.id, u.email, u.password_hash, u.created_at, u.updated_at,
		       p.first_name, p.last_name, p.department, p.profile_picture
		FROM users u
		JOIN profiles p ON p.user_id = u.id
		WHERE u.email = $1
	`

	var user User
	var digest string
	err := s.db.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&digest,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.Profile.FirstName,
		&user.Profile.LastName,
		&user.Profile.Department,
		&user.Profile.ProfilePicture,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !VerifyPassword(password, digest) {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

// GetUserByID loads a user and profile by id. The password hash is not part
// of the result.
func (s *service) GetUserByID(ctx context.Context, userID string) (*User, error) {
	query := `
		SELECT u.id, u.email, u.created_at, u.updated_at,
		       p.first_name, p.last_name, p.department, p.profile_picture
		FROM users u
		JOIN profiles p ON p.user_id = u.id
		WHERE u.id = $1
	`

	var user User
	err := s.db.QueryRow(ctx, query, userID).Scan(
		&user.ID,
		&user.Email,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.Profile.FirstName,
		&user.Profile.LastName,
		&user.Profile.Department,
		&user.Profile.ProfilePicture,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// isUniqueViolation checks if the error is a unique constraint violation on
// the named constraint
func isUniqueViolation(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == uniqueViolation && pgErr.ConstraintName == constraintName
}
