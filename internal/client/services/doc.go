// Package services contains the application services of the console client:
// authentication (login, remembered login, registration, logout) and the
// student register.
//
// Services validate input locally and return *ValidationError before any
// network call. Backend failures surface as the transport package's typed
// errors, wrapped with the operation name.
package services
