package store

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an application user. CalendarID is the identifier of the calendar
// on the provider side that events for this user's bookings are written to;
// it is empty until the user connects a calendar.
type User struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email      string    `gorm:"not null;uniqueIndex"`
	CalendarID string

	Credential *Credential `gorm:"foreignKey:UserID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Credential is the stored OAuth token set for a user, one-to-one with User.
// It is updated whenever the provider rotates tokens and is never deleted by
// this module.
type Credential struct {
	UserID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	AccessToken  string    `gorm:"not null"`
	RefreshToken string
	Scope        string
	TokenType    string
	Expiry       time.Time
	IDToken      string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Booking is a scheduled event owned by an organizer with zero or more
// participants. EventID holds the provider's identifier for the mirrored
// calendar event; it is empty until a create sync succeeds.
type Booking struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrganizerID uuid.UUID `gorm:"type:uuid;not null;index"`
	Organizer   User      `gorm:"foreignKey:OrganizerID"`

	Title       string `gorm:"not null"`
	Description string
	StartTime   time.Time `gorm:"not null"`
	EndTime     time.Time `gorm:"not null"`

	EventID string

	Participants []Participant `gorm:"foreignKey:BookingID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Participant is a join row inviting a user to a booking. Position preserves
// invitation order.
type Participant struct {
	BookingID uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Position  int       `gorm:"not null"`

	User User `gorm:"foreignKey:UserID"`

	CreatedAt time.Time
}

// BeforeCreate assigns an ID when the caller did not set one.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// BeforeCreate assigns an ID when the caller did not set one.
func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
