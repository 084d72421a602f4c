// Package users keeps the accounts of the mock backend and signs them in.
package users

import "time"

// User is a registered account. PasswordDigest is the client-side MD5
// digest; the plaintext never reaches the backend.
type User struct {
	ID             string
	UserName       string
	PasswordDigest string
	Email          string
	Phone          string
	Level          int
	CreatedAt      time.Time
}
