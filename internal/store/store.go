// Package store persists identity, session, and health-profile records.
// Specialists reach it only through the narrow Store interface; agent code
// never sees SQL or schema.
package store

import (
	"context"
	"errors"
)

// ErrEmailTaken is returned by CreateAccount when the email is already
// registered.
var ErrEmailTaken = errors.New("email already registered")

// User is the identity record returned by credential verification.
type User struct {
	UserID int64
	Name   string
	Email  string
}

// NewAccount holds the fields collected by the registration agent.
type NewAccount struct {
	Email    string
	Phone    string
	Password string
	Name     string
}

// Profile holds the health-profile fields collected by the profile agent.
type Profile struct {
	Age              int      `json:"age,omitempty"`
	Gender           string   `json:"gender,omitempty"`
	HeightCm         float64  `json:"height_cm,omitempty"`
	WeightKg         float64  `json:"weight_kg,omitempty"`
	ActivityLevel    string   `json:"activity_level,omitempty"`
	DietPreference   string   `json:"diet_preference,omitempty"`
	HealthGoals      []string `json:"health_goals,omitempty"`
	HealthConditions []string `json:"health_conditions,omitempty"`
}

// SessionInfo is the session snapshot attached to each turn.
type SessionInfo struct {
	UserID        int64  `json:"user_id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	HasProfile    bool   `json:"has_profile"`
	Authenticated bool   `json:"authenticated"`
}

// Store is the command/query surface the specialists use. Implementations
// must be safe for concurrent use.
type Store interface {
	// VerifyCredentials checks an email-or-phone identifier and password.
	// Returns nil, nil when no account matches.
	VerifyCredentials(ctx context.Context, identifier, password string) (*User, error)

	// CreateSession issues a session token for a user, valid for 30 days.
	CreateSession(ctx context.Context, userID int64) (string, error)

	// DeleteSession revokes a session token. Missing tokens are not an error.
	DeleteSession(ctx context.Context, sessionID string) error

	// CreateAccount registers a new user and returns the new user ID.
	// Returns ErrEmailTaken when the email is already registered.
	CreateAccount(ctx context.Context, acct NewAccount) (int64, error)

	// UpsertProfile creates or replaces a user's health profile.
	UpsertProfile(ctx context.Context, userID int64, p Profile) error

	// UserFromSession resolves an unexpired session token to a snapshot.
	// Returns nil, nil for unknown or expired sessions.
	UserFromSession(ctx context.Context, sessionID string) (*SessionInfo, error)

	// Close releases the underlying database handle.
	Close() error
}
