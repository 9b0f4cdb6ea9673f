package sync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookwise/calsync/internal/calendar"
	"github.com/bookwise/calsync/internal/store"
)

// fakeStore is an in-memory BookingStore recording identifier writes.
type fakeStore struct {
	bookings map[uuid.UUID]*store.Booking

	setCalls   []string
	clearCalls int

	bookingErr error
	setErr     error
	clearErr   error
}

func newFakeStore(bookings ...*store.Booking) *fakeStore {
	fs := &fakeStore{bookings: map[uuid.UUID]*store.Booking{}}
	for _, b := range bookings {
		fs.bookings[b.ID] = b
	}
	return fs
}

func (f *fakeStore) BookingByID(_ context.Context, id uuid.UUID) (*store.Booking, error) {
	if f.bookingErr != nil {
		return nil, f.bookingErr
	}
	booking, ok := f.bookings[id]
	if !ok {
		return nil, store.ErrBookingNotFound
	}
	return booking, nil
}

func (f *fakeStore) SetBookingEventID(_ context.Context, id uuid.UUID, eventID string) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.setCalls = append(f.setCalls, eventID)
	if booking, ok := f.bookings[id]; ok {
		booking.EventID = eventID
	}
	return nil
}

func (f *fakeStore) ClearBookingEventID(_ context.Context, id uuid.UUID) error {
	if f.clearErr != nil {
		return f.clearErr
	}
	f.clearCalls++
	if booking, ok := f.bookings[id]; ok {
		booking.EventID = ""
	}
	return nil
}

// fakeProvider records provider calls.
type fakeProvider struct {
	insertID  string
	insertErr error
	updateErr error
	deleteErr error

	inserts []calendar.EventInput
	updates []string
	deletes []string

	lastCalendarID string
	lastInput      calendar.EventInput
}

func (f *fakeProvider) InsertEvent(_ context.Context, calendarID string, input calendar.EventInput) (string, error) {
	if f.insertErr != nil {
		return "", f.insertErr
	}
	f.lastCalendarID = calendarID
	f.lastInput = input
	f.inserts = append(f.inserts, input)
	return f.insertID, nil
}

func (f *fakeProvider) UpdateEvent(_ context.Context, calendarID, eventID string, input calendar.EventInput) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.lastCalendarID = calendarID
	f.lastInput = input
	f.updates = append(f.updates, eventID)
	return nil
}

func (f *fakeProvider) DeleteEvent(_ context.Context, calendarID, eventID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.lastCalendarID = calendarID
	f.deletes = append(f.deletes, eventID)
	return nil
}

// fakeFactory resolves every user to the same provider, or fails.
type fakeFactory struct {
	provider *fakeProvider
	err      error
	calls    int
}

func (f *fakeFactory) ClientForUser(_ context.Context, _ uuid.UUID) (Provider, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.provider, nil
}

func testBooking(calendarID, eventID string, participantEmails ...string) *store.Booking {
	booking := &store.Booking{
		ID:          uuid.New(),
		OrganizerID: uuid.New(),
		Organizer: store.User{
			Email:      "alice@x.com",
			CalendarID: calendarID,
		},
		Title:       "Sync",
		Description: "Weekly sync",
		StartTime:   time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		EndTime:     time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC),
		EventID:     eventID,
	}
	for i, email := range participantEmails {
		booking.Participants = append(booking.Participants, participant(email, i))
	}
	return booking
}

func newTestSyncer(fs *fakeStore, ff *fakeFactory) *Syncer {
	return New(fs, ff, nil)
}

func TestCreateEvent(t *testing.T) {
	booking := testBooking("alice-cal", "", "alice@x.com", "bob@x.com")
	fs := newFakeStore(booking)
	provider := &fakeProvider{insertID: "evt123"}
	ff := &fakeFactory{provider: provider}

	err := newTestSyncer(fs, ff).CreateEvent(context.Background(), booking.ID)
	require.NoError(t, err)

	// Organizer deduplicated, participants in order.
	require.Len(t, provider.inserts, 1)
	assert.Equal(t, []string{"alice@x.com", "bob@x.com"}, provider.lastInput.Attendees)
	assert.Equal(t, "alice-cal", provider.lastCalendarID)

	// The provider's identifier is persisted onto the booking.
	assert.Equal(t, []string{"evt123"}, fs.setCalls)
	assert.Equal(t, "evt123", booking.EventID)
}

func TestCreateEventMissingCalendarID(t *testing.T) {
	booking := testBooking("", "")
	fs := newFakeStore(booking)
	ff := &fakeFactory{provider: &fakeProvider{insertID: "evt123"}}

	err := newTestSyncer(fs, ff).CreateEvent(context.Background(), booking.ID)
	require.Error(t, err)
	assert.True(t, IsPrecondition(err))
	assert.ErrorIs(t, err, ErrNoCalendar)

	// No client resolution, no provider call, no persistence.
	assert.Zero(t, ff.calls)
	assert.Empty(t, fs.setCalls)
	assert.Empty(t, booking.EventID)
}

func TestCreateEventMissingCredential(t *testing.T) {
	booking := testBooking("alice-cal", "")
	fs := newFakeStore(booking)
	ff := &fakeFactory{err: store.ErrCredentialNotFound}

	err := newTestSyncer(fs, ff).CreateEvent(context.Background(), booking.ID)
	require.Error(t, err)
	assert.True(t, IsPrecondition(err))
	assert.ErrorIs(t, err, store.ErrCredentialNotFound)
	assert.Empty(t, fs.setCalls)
}

func TestCreateEventProviderFailure(t *testing.T) {
	booking := testBooking("alice-cal", "")
	fs := newFakeStore(booking)
	ff := &fakeFactory{provider: &fakeProvider{insertErr: errors.New("quota exceeded")}}

	err := newTestSyncer(fs, ff).CreateEvent(context.Background(), booking.ID)
	require.Error(t, err)
	assert.Equal(t, KindProvider, KindOf(err))

	// Identifier field left unchanged on failure.
	assert.Empty(t, fs.setCalls)
	assert.Empty(t, booking.EventID)
}

func TestCreateEventPersistFailure(t *testing.T) {
	booking := testBooking("alice-cal", "")
	fs := newFakeStore(booking)
	fs.setErr = errors.New("disk full")
	ff := &fakeFactory{provider: &fakeProvider{insertID: "evt123"}}

	err := newTestSyncer(fs, ff).CreateEvent(context.Background(), booking.ID)
	require.Error(t, err)
	assert.Equal(t, KindStorage, KindOf(err))
}

func TestCreateEventBookingNotFound(t *testing.T) {
	fs := newFakeStore()
	ff := &fakeFactory{provider: &fakeProvider{}}

	err := newTestSyncer(fs, ff).CreateEvent(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, KindStorage, KindOf(err))
	assert.ErrorIs(t, err, store.ErrBookingNotFound)
}

func TestUpdateEventExisting(t *testing.T) {
	booking := testBooking("alice-cal", "evt123", "bob@x.com")
	fs := newFakeStore(booking)
	provider := &fakeProvider{}
	ff := &fakeFactory{provider: provider}

	err := newTestSyncer(fs, ff).UpdateEvent(context.Background(), booking.ID)
	require.NoError(t, err)

	// Update targets the stored identifier; nothing re-persisted.
	assert.Equal(t, []string{"evt123"}, provider.updates)
	assert.Empty(t, provider.inserts)
	assert.Empty(t, fs.setCalls)
}

func TestUpdateEventDelegatesToCreate(t *testing.T) {
	booking := testBooking("alice-cal", "", "bob@x.com")
	fs := newFakeStore(booking)
	provider := &fakeProvider{insertID: "evt456"}
	ff := &fakeFactory{provider: provider}

	err := newTestSyncer(fs, ff).UpdateEvent(context.Background(), booking.ID)
	require.NoError(t, err)

	assert.Empty(t, provider.updates)
	require.Len(t, provider.inserts, 1)
	assert.Equal(t, []string{"evt456"}, fs.setCalls)
}

func TestUpdateEventMissingCalendarID(t *testing.T) {
	booking := testBooking("", "evt123")
	fs := newFakeStore(booking)
	ff := &fakeFactory{provider: &fakeProvider{}}

	err := newTestSyncer(fs, ff).UpdateEvent(context.Background(), booking.ID)
	require.Error(t, err)
	assert.True(t, IsPrecondition(err))
	assert.Zero(t, ff.calls)
}

func TestUpdateEventProviderFailure(t *testing.T) {
	booking := testBooking("alice-cal", "evt123")
	fs := newFakeStore(booking)
	ff := &fakeFactory{provider: &fakeProvider{updateErr: errors.New("gone")}}

	err := newTestSyncer(fs, ff).UpdateEvent(context.Background(), booking.ID)
	require.Error(t, err)
	assert.Equal(t, KindProvider, KindOf(err))
}

func TestDeleteEvent(t *testing.T) {
	booking := testBooking("alice-cal", "evt123")
	fs := newFakeStore(booking)
	provider := &fakeProvider{}
	ff := &fakeFactory{provider: provider}

	err := newTestSyncer(fs, ff).DeleteEvent(context.Background(), booking.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{"evt123"}, provider.deletes)
	// The stale identifier is cleared so later updates cannot target a
	// deleted remote event.
	assert.Equal(t, 1, fs.clearCalls)
	assert.Empty(t, booking.EventID)
}

func TestDeleteEventNoEventID(t *testing.T) {
	booking := testBooking("alice-cal", "")
	fs := newFakeStore(booking)
	provider := &fakeProvider{}
	ff := &fakeFactory{provider: provider}

	err := newTestSyncer(fs, ff).DeleteEvent(context.Background(), booking.ID)
	require.NoError(t, err)

	// No provider call at all.
	assert.Zero(t, ff.calls)
	assert.Empty(t, provider.deletes)
	assert.Zero(t, fs.clearCalls)
}

func TestDeleteEventMissingCalendarID(t *testing.T) {
	booking := testBooking("", "evt123")
	fs := newFakeStore(booking)
	ff := &fakeFactory{provider: &fakeProvider{}}

	err := newTestSyncer(fs, ff).DeleteEvent(context.Background(), booking.ID)
	require.Error(t, err)
	assert.True(t, IsPrecondition(err))
	assert.Zero(t, ff.calls)
}

func TestDeleteEventProviderFailure(t *testing.T) {
	booking := testBooking("alice-cal", "evt123")
	fs := newFakeStore(booking)
	ff := &fakeFactory{provider: &fakeProvider{deleteErr: errors.New("forbidden")}}

	err := newTestSyncer(fs, ff).DeleteEvent(context.Background(), booking.ID)
	require.Error(t, err)
	assert.Equal(t, KindProvider, KindOf(err))
	assert.Zero(t, fs.clearCalls)
	assert.Equal(t, "evt123", booking.EventID)
}

func TestErrorKinds(t *testing.T) {
	err := newError("create", KindPrecondition, ErrNoCalendar)
	assert.Equal(t, KindPrecondition, KindOf(err))
	assert.True(t, IsPrecondition(err))
	assert.ErrorIs(t, err, ErrNoCalendar)
	assert.Contains(t, err.Error(), "create")
	assert.Contains(t, err.Error(), "precondition")

	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
	assert.False(t, IsPrecondition(nil))
}

func TestClassifyResolution(t *testing.T) {
	assert.Equal(t, KindPrecondition, classifyResolution(store.ErrCredentialNotFound))
	assert.Equal(t, KindPrecondition, classifyResolution(store.ErrUserNotFound))
	assert.Equal(t, KindStorage, classifyResolution(errors.New("connection reset")))
}
