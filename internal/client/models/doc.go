// Package models defines the client-side records exchanged with the
// express-api backend and persisted by the credential store.
package models
