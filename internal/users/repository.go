// Package users exposes the user directory: the collaborator panel and
// profile updates. Registration and login live in the auth package.
package users

import (
	"context"
	"errors"
	"fmt"
	"log"

	"kudos/internal/database"

	"github.com/jackc/pgx/v5"
)

// ErrUserNotFound is returned when a user id resolves to no record
var ErrUserNotFound = errors.New("user not found")

// Repository handles database operations for the user directory
type Repository struct {
	db database.Service
}

// NewRepository creates a new users repository
func NewRepository(db database.Service) *Repository {
	return &Repository{db: db}
}

// GetOtherUsers returns every user except userID, ordered by profile first
// name ascending. This feeds the collaborator sidebar.
func (r *Repository) GetOtherUsers(ctx context.Context, userID string) ([]User, error) {
	query := `
		SELECT u.id, u.email, u.created_at,
		       p.first_name, p.last_name, p.department, p.profile_picture
		FROM users u
		JOIN profiles p ON p.user_id = u.id
		WHERE u.id <> $1
		ORDER BY p.first_name ASC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		log.Printf("Error querying other users: %v", err)
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	result := []User{}
	for rows.Next() {
		var u User
		err := rows.Scan(
			&u.ID,
			&u.Email,
			&u.CreatedAt,
			&u.Profile.FirstName,
			&u.Profile.LastName,
			&u.Profile.Department,
			&u.Profile.ProfilePicture,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		result = append(result, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return result, nil
}

// GetByID retrieves a single user with profile
func (r *Repository) GetByID(ctx context.Context, userID string) (*User, error) {
	query := `
		SELECT u.id, u.email, u.created_at,
		       p.first_name, p.last_name, p.department, p.profile_picture
		FROM users u
		JOIN profiles p ON p.user_id = u.id
		WHERE u.id = $1
	`

	var u User
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&u.ID,
		&u.Email,
		&u.CreatedAt,
		&u.Profile.FirstName,
		&u.Profile.LastName,
		&u.Profile.Department,
		&u.Profile.ProfilePicture,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &u, nil
}

// UpdateProfile applies the non-nil fields of the request to the user's
// profile and returns the updated record.
func (r *Repository) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*User, error) {
	updates := map[string]interface{}{}
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.Department != nil {
		updates["department"] = *req.Department
	}
	if req.ProfilePicture != nil {
		updates["profile_picture"] = *req.ProfilePicture
	}

	if len(updates) == 0 {
		return r.GetByID(ctx, userID)
	}

	query := `UPDATE profiles SET `
	args := []interface{}{}
	argPos := 1
	for field, value := range updates {
		if argPos > 1 {
			query += ", "
		}
		query += fmt.Sprintf("%s = $%d", field, argPos)
		args = append(args, value)
		argPos++
	}
	query += fmt.Sprintf(" WHERE user_id = $%d", argPos)
	args = append(args, userID)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		log.Printf("Error updating profile for %s: %v", userID, err)
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrUserNotFound
	}

	return r.GetByID(ctx, userID)
}
