// Package calendar provides a client for the Google Calendar API scoped to
// the operations the sync adapter needs: inserting, updating and deleting
// events with attendee notification.
//
// Clients are built per user from authenticated HTTP clients resolved
// through the google package.
package calendar
