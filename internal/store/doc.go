// Package store provides relational persistence for users, their OAuth
// credentials, and bookings.
//
// It is built on GORM and supports SQLite and PostgreSQL backends, selected
// by configuration. Token updates are column-wise: rotating one token value
// never overwrites the others.
package store
