package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Errors returned by lookups. A missing credential is a terminal
// precondition for sync operations, not a retryable failure.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrCredentialNotFound = errors.New("no credential stored for user")
)

// Store wraps the relational database holding users, credentials and
// bookings.
type Store struct {
	db *gorm.DB
}

// Open connects to the database. driver is "sqlite" or "postgres".
func Open(driver, dsn string) (*Store, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Store{db: db}, nil
}

// NewWithDB wraps an existing gorm handle. Used by tests and by embedders
// that manage the connection themselves.
func NewWithDB(db *gorm.DB) *Store {
	return &Store{db: db}
}

// AutoMigrate creates or updates the schema for all models.
func (s *Store) AutoMigrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&User{}, &Credential{}, &Booking{}, &Participant{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// UserWithCredential loads a user and the associated credential record.
// Returns ErrCredentialNotFound if the user has no stored credential.
func (s *Store) UserWithCredential(ctx context.Context, userID uuid.UUID) (*User, error) {
	var user User
	err := s.db.WithContext(ctx).Preload("Credential").First(&user, "id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user %s: %w", userID, err)
	}
	if user.Credential == nil {
		return nil, ErrCredentialNotFound
	}
	return &user, nil
}

// BookingByID loads a booking with its organizer (including the organizer's
// credential) and participants in invitation order.
func (s *Store) BookingByID(ctx context.Context, bookingID uuid.UUID) (*Booking, error) {
	var booking Booking
	err := s.db.WithContext(ctx).
		Preload("Organizer.Credential").
		Preload("Participants", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Participants.User").
		First(&booking, "id = ?", bookingID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to load booking %s: %w", bookingID, err)
	}
	return &booking, nil
}

// SaveCredential stores a full credential record for a user, replacing any
// existing one. Used when a user first connects their calendar.
func (s *Store) SaveCredential(ctx context.Context, cred *Credential) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(cred).Error
	if err != nil {
		return fmt.Errorf("failed to save credential for user %s: %w", cred.UserID, err)
	}
	return nil
}

// SaveCredentialTokens persists rotated token values for a user. Only the
// fields present on the token are written: an access-token refresh does not
// touch the stored refresh token, and a refresh-token rotation without a new
// access token does not touch the stored access token or expiry.
func (s *Store) SaveCredentialTokens(ctx context.Context, userID uuid.UUID, token *oauth2.Token) error {
	updates := credentialUpdates(token)
	if len(updates) == 0 {
		return nil
	}

	result := s.db.WithContext(ctx).
		Model(&Credential{}).
		Where("user_id = ?", userID).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update credential for user %s: %w", userID, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCredentialNotFound
	}
	return nil
}

// credentialUpdates maps the non-empty fields of a rotated token onto
// credential columns.
func credentialUpdates(token *oauth2.Token) map[string]interface{} {
	updates := map[string]interface{}{}
	if token == nil {
		return updates
	}

	if token.AccessToken != "" {
		updates["access_token"] = token.AccessToken
		updates["expiry"] = token.Expiry
		if token.TokenType != "" {
			updates["token_type"] = token.TokenType
		}
	}
	if token.RefreshToken != "" {
		updates["refresh_token"] = token.RefreshToken
	}
	if idToken, ok := token.Extra("id_token").(string); ok && idToken != "" {
		updates["id_token"] = idToken
	}

	return updates
}

// SetBookingEventID persists the provider event identifier onto a booking.
func (s *Store) SetBookingEventID(ctx context.Context, bookingID uuid.UUID, eventID string) error {
	result := s.db.WithContext(ctx).
		Model(&Booking{}).
		Where("id = ?", bookingID).
		Update("event_id", eventID)
	if result.Error != nil {
		return fmt.Errorf("failed to set event ID on booking %s: %w", bookingID, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// ClearBookingEventID removes the provider event identifier from a booking
// after the remote event has been deleted.
func (s *Store) ClearBookingEventID(ctx context.Context, bookingID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Model(&Booking{}).
		Where("id = ?", bookingID).
		Update("event_id", "")
	if result.Error != nil {
		return fmt.Errorf("failed to clear event ID on booking %s: %w", bookingID, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// CreateUser inserts a user. Used by tests and seeding tooling.
func (s *Store) CreateUser(ctx context.Context, user *User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// CreateBooking inserts a booking along with its participant rows.
func (s *Store) CreateBooking(ctx context.Context, booking *Booking) error {
	if err := s.db.WithContext(ctx).Create(booking).Error; err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}
