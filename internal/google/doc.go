// Package google handles OAuth2 credential resolution for Google Calendar
// access.
//
// Stored credentials are turned into authenticated HTTP clients whose token
// source persists rotated access and refresh tokens back to the credential
// record. Persistence is attached exactly once per constructed client.
package google
