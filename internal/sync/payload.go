package sync

import (
	"github.com/bookwise/calsync/internal/calendar"
	"github.com/bookwise/calsync/internal/store"
)

// buildEventInput maps a booking onto a provider event payload.
//
// The attendee list starts with the organizer's email, followed by each
// distinct participant email in invitation order; empty emails and emails
// equal to the organizer's (exact string match) are skipped. Timestamp
// ordering and payload size are deliberately not validated here.
func buildEventInput(booking *store.Booking) calendar.EventInput {
	attendees := []string{booking.Organizer.Email}
	seen := map[string]bool{booking.Organizer.Email: true}

	for _, participant := range booking.Participants {
		email := participant.User.Email
		if email == "" || seen[email] {
			continue
		}
		seen[email] = true
		attendees = append(attendees, email)
	}

	return calendar.EventInput{
		Summary:     booking.Title,
		Description: booking.Description,
		Start:       booking.StartTime,
		End:         booking.EndTime,
		Attendees:   attendees,
	}
}
