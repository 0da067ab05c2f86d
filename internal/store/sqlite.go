package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

// sessionTTL is how long issued sessions stay valid.
const sessionTTL = 30 * 24 * time.Hour

// SQLiteStore implements Store on an embedded SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path and bootstraps the
// schema. Parent directories are created if needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// WAL for concurrent readers during a turn.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, err
	}

	log.Printf("[Store] ✅ Database ready at %s", path)
	return s, nil
}

func (s *SQLiteStore) createSchema() error {
	schema := `
CREATE TABLE IF NOT EXISTS users (
	user_id INTEGER PRIMARY KEY AUTOINCREMENT,
	email TEXT UNIQUE NOT NULL,
	phone TEXT UNIQUE,
	password_hash TEXT NOT NULL,
	name TEXT,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS user_profiles (
	profile_id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER UNIQUE REFERENCES users(user_id) ON DELETE CASCADE,
	age INTEGER,
	gender TEXT,
	height_cm REAL,
	weight_kg REAL,
	activity_level TEXT,
	diet_preference TEXT,
	health_goals TEXT,
	health_conditions TEXT,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS sessions (
	session_id TEXT PRIMARY KEY,
	user_id INTEGER REFERENCES users(user_id) ON DELETE CASCADE,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	expires_at TIMESTAMP
);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// VerifyCredentials checks identifier (email or phone) and password.
func (s *SQLiteStore) VerifyCredentials(ctx context.Context, identifier, password string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT user_id, COALESCE(name, ''), email, password_hash FROM users
		WHERE email = ? OR phone = ?`, identifier, identifier)

	var u User
	var hash string
	if err := row.Scan(&u.UserID, &u.Name, &u.Email, &hash); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("querying user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, nil
	}
	return &u, nil
}

// CreateSession issues a fresh session token for a user.
func (s *SQLiteStore) CreateSession(ctx context.Context, userID int64) (string, error) {
	sessionID := uuid.NewString()
	expires := time.Now().UTC().Add(sessionTTL)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (session_id, user_id, expires_at) VALUES (?, ?, ?)`,
		sessionID, userID, expires)
	if err != nil {
		return "", fmt.Errorf("creating session: %w", err)
	}
	return sessionID, nil
}

// DeleteSession revokes a session token.
func (s *SQLiteStore) DeleteSession(ctx context.Context, sessionID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// CreateAccount registers a new user with a bcrypt password hash.
func (s *SQLiteStore) CreateAccount(ctx context.Context, acct NewAccount) (int64, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(acct.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hashing password: %w", err)
	}

	var phone any
	if acct.Phone != "" {
		phone = acct.Phone
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (email, phone, password_hash, name) VALUES (?, ?, ?, ?)`,
		acct.Email, phone, string(hash), acct.Name)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrEmailTaken
		}
		return 0, fmt.Errorf("creating account: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading new user id: %w", err)
	}
	return id, nil
}

// isUniqueViolation detects SQLite unique-constraint failures without
// depending on driver-specific error types.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// UpsertProfile creates or replaces a user's health profile.
func (s *SQLiteStore) UpsertProfile(ctx context.Context, userID int64, p Profile) error {
	goals, err := json.Marshal(p.HealthGoals)
	if err != nil {
		return fmt.Errorf("encoding health goals: %w", err)
	}
	conditions, err := json.Marshal(p.HealthConditions)
	if err != nil {
		return fmt.Errorf("encoding health conditions: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO user_profiles
			(user_id, age, gender, height_cm, weight_kg, activity_level,
			 diet_preference, health_goals, health_conditions)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			age = excluded.age,
			gender = excluded.gender,
			height_cm = excluded.height_cm,
			weight_kg = excluded.weight_kg,
			activity_level = excluded.activity_level,
			diet_preference = excluded.diet_preference,
			health_goals = excluded.health_goals,
			health_conditions = excluded.health_conditions,
			updated_at = CURRENT_TIMESTAMP`,
		userID, p.Age, p.Gender, p.HeightCm, p.WeightKg, p.ActivityLevel,
		p.DietPreference, string(goals), string(conditions))
	if err != nil {
		return fmt.Errorf("upserting profile: %w", err)
	}
	return nil
}

// UserFromSession resolves an unexpired session token to a snapshot.
func (s *SQLiteStore) UserFromSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	if sessionID == "" {
		return nil, nil
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT s.user_id, COALESCE(u.name, ''), u.email,
			EXISTS(SELECT 1 FROM user_profiles p WHERE p.user_id = s.user_id)
		FROM sessions s
		JOIN users u ON u.user_id = s.user_id
		WHERE s.session_id = ? AND s.expires_at > ?`,
		sessionID, time.Now().UTC())

	var info SessionInfo
	if err := row.Scan(&info.UserID, &info.Name, &info.Email, &info.HasProfile); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("querying session: %w", err)
	}
	info.Authenticated = true
	return &info, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
