package sync

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bookwise/calsync/internal/calendar"
	"github.com/bookwise/calsync/internal/logging"
	"github.com/bookwise/calsync/internal/store"
)

const tracerName = "github.com/bookwise/calsync/internal/sync"

// BookingStore is the persistence surface the syncer needs.
// Implemented by store.Store.
type BookingStore interface {
	BookingByID(ctx context.Context, bookingID uuid.UUID) (*store.Booking, error)
	SetBookingEventID(ctx context.Context, bookingID uuid.UUID, eventID string) error
	ClearBookingEventID(ctx context.Context, bookingID uuid.UUID) error
}

// Provider is the calendar surface the syncer needs.
// Implemented by calendar.Client.
type Provider interface {
	InsertEvent(ctx context.Context, calendarID string, input calendar.EventInput) (string, error)
	UpdateEvent(ctx context.Context, calendarID, eventID string, input calendar.EventInput) error
	DeleteEvent(ctx context.Context, calendarID, eventID string) error
}

// ProviderFactory resolves a user into an authenticated provider client.
type ProviderFactory interface {
	ClientForUser(ctx context.Context, userID uuid.UUID) (Provider, error)
}

// ProviderFactoryFunc adapts a function to the ProviderFactory interface.
type ProviderFactoryFunc func(ctx context.Context, userID uuid.UUID) (Provider, error)

// ClientForUser calls f.
func (f ProviderFactoryFunc) ClientForUser(ctx context.Context, userID uuid.UUID) (Provider, error) {
	return f(ctx, userID)
}

// Syncer mirrors booking state into the calendar provider. All dependencies
// are injected; there is no shared global state.
type Syncer struct {
	store   BookingStore
	clients ProviderFactory
	logger  *slog.Logger
}

// New constructs a Syncer. A nil logger falls back to slog.Default().
func New(bookings BookingStore, clients ProviderFactory, logger *slog.Logger) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Syncer{
		store:   bookings,
		clients: clients,
		logger:  logger,
	}
}

// CreateEvent creates a provider event mirroring the booking and persists
// the provider's event identifier onto the booking record.
func (s *Syncer) CreateEvent(ctx context.Context, bookingID uuid.UUID) error {
	return s.run(ctx, "create", bookingID, s.create)
}

// UpdateEvent updates the provider event mirroring the booking. A booking
// that has no provider event yet is created instead.
func (s *Syncer) UpdateEvent(ctx context.Context, bookingID uuid.UUID) error {
	return s.run(ctx, "update", bookingID, s.update)
}

// DeleteEvent removes the provider event mirroring the booking and clears
// the stored event identifier. A booking with no provider event is a no-op.
func (s *Syncer) DeleteEvent(ctx context.Context, bookingID uuid.UUID) error {
	return s.run(ctx, "delete", bookingID, s.delete)
}

// run loads the booking, executes op inside a span, and records the outcome.
func (s *Syncer) run(ctx context.Context, op string, bookingID uuid.UUID, fn func(ctx context.Context, op string, booking *store.Booking) error) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "sync."+op)
	defer span.End()
	span.SetAttributes(attribute.String("booking.id", bookingID.String()))

	logger := logging.WithOperation(s.logger, op).With(logging.BookingID(bookingID.String()))

	booking, err := s.store.BookingByID(ctx, bookingID)
	if err != nil {
		return s.fail(span, logger, op, newError(op, KindStorage, err))
	}

	if err := fn(ctx, op, booking); err != nil {
		var syncErr *Error
		if !errors.As(err, &syncErr) {
			syncErr = newError(op, KindProvider, err)
		}
		return s.fail(span, logger, op, syncErr)
	}

	return nil
}

// create builds the payload, inserts the event with attendee notification,
// and persists the returned identifier.
func (s *Syncer) create(ctx context.Context, op string, booking *store.Booking) error {
	client, input, err := s.prepare(ctx, op, booking)
	if err != nil {
		return err
	}

	start := time.Now()
	eventID, err := client.InsertEvent(ctx, booking.Organizer.CalendarID, input)
	providerCallDuration.WithLabelValues("insert").Observe(time.Since(start).Seconds())
	if err != nil {
		return newError(op, KindProvider, err)
	}

	if err := s.store.SetBookingEventID(ctx, booking.ID, eventID); err != nil {
		return newError(op, KindStorage, err)
	}

	operationsTotal.WithLabelValues(op, logging.StatusSuccess).Inc()
	s.logger.Info("calendar event created",
		logging.Operation(op),
		logging.BookingID(booking.ID.String()),
		logging.EventID(eventID),
		logging.UserHash(booking.Organizer.Email),
		logging.Status(logging.StatusSuccess))
	return nil
}

// update replaces the provider event; bookings without one are created.
// The stored identifier is assumed unchanged and is not re-persisted.
func (s *Syncer) update(ctx context.Context, op string, booking *store.Booking) error {
	if booking.EventID == "" {
		return s.create(ctx, op, booking)
	}

	client, input, err := s.prepare(ctx, op, booking)
	if err != nil {
		return err
	}

	start := time.Now()
	err = client.UpdateEvent(ctx, booking.Organizer.CalendarID, booking.EventID, input)
	providerCallDuration.WithLabelValues("update").Observe(time.Since(start).Seconds())
	if err != nil {
		return newError(op, KindProvider, err)
	}

	operationsTotal.WithLabelValues(op, logging.StatusSuccess).Inc()
	s.logger.Info("calendar event updated",
		logging.Operation(op),
		logging.BookingID(booking.ID.String()),
		logging.EventID(booking.EventID),
		logging.UserHash(booking.Organizer.Email),
		logging.Status(logging.StatusSuccess))
	return nil
}

// delete removes the provider event and clears the stored identifier so a
// later update cannot target a deleted remote event.
func (s *Syncer) delete(ctx context.Context, op string, booking *store.Booking) error {
	if booking.Organizer.CalendarID == "" {
		return newError(op, KindPrecondition, ErrNoCalendar)
	}

	if booking.EventID == "" {
		s.logger.Info("booking has no calendar event, nothing to delete",
			logging.Operation(op),
			logging.BookingID(booking.ID.String()),
			logging.Status(logging.StatusSkipped))
		operationsTotal.WithLabelValues(op, logging.StatusSkipped).Inc()
		return nil
	}

	client, err := s.clients.ClientForUser(ctx, booking.OrganizerID)
	if err != nil {
		return newError(op, classifyResolution(err), err)
	}

	eventID := booking.EventID

	start := time.Now()
	err = client.DeleteEvent(ctx, booking.Organizer.CalendarID, eventID)
	providerCallDuration.WithLabelValues("delete").Observe(time.Since(start).Seconds())
	if err != nil {
		return newError(op, KindProvider, err)
	}

	if err := s.store.ClearBookingEventID(ctx, booking.ID); err != nil {
		return newError(op, KindStorage, err)
	}

	operationsTotal.WithLabelValues(op, logging.StatusSuccess).Inc()
	s.logger.Info("calendar event deleted",
		logging.Operation(op),
		logging.BookingID(booking.ID.String()),
		logging.EventID(eventID),
		logging.UserHash(booking.Organizer.Email),
		logging.Status(logging.StatusSuccess))
	return nil
}

// prepare checks the organizer precondition, builds the payload, and
// resolves the authenticated provider client.
func (s *Syncer) prepare(ctx context.Context, op string, booking *store.Booking) (Provider, calendar.EventInput, error) {
	if booking.Organizer.CalendarID == "" {
		return nil, calendar.EventInput{}, newError(op, KindPrecondition, ErrNoCalendar)
	}

	input := buildEventInput(booking)

	client, err := s.clients.ClientForUser(ctx, booking.OrganizerID)
	if err != nil {
		return nil, calendar.EventInput{}, newError(op, classifyResolution(err), err)
	}

	return client, input, nil
}

// fail records the outcome on the span, the metrics, and the log, then
// returns the error to the caller.
func (s *Syncer) fail(span trace.Span, logger *slog.Logger, op string, err *Error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, string(err.Kind))
	logger.Error("sync operation failed",
		slog.String("kind", string(err.Kind)),
		logging.Err(err.Err),
		logging.Status(logging.StatusError))
	operationsTotal.WithLabelValues(op, logging.StatusError).Inc()
	return err
}
