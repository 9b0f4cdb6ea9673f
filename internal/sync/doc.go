// Package sync mirrors booking state into a calendar provider.
//
// The Syncer has three entry points, one per booking lifecycle transition:
// CreateEvent, UpdateEvent and DeleteEvent. Each loads the booking, checks
// that the organizer has a connected calendar and a stored credential,
// builds the event payload, performs the provider call with attendee
// notification, and persists the resulting state.
//
// Failures are returned to the caller as *Error values classified by Kind
// (precondition, provider, storage); retry and notification policy is the
// caller's. Every provider and storage call completes before the next step;
// there is no transaction spanning the provider call and the subsequent
// write, so a crash between the two leaves the remote event without a
// stored identifier.
package sync
