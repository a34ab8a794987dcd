package id

import "github.com/google/uuid"

// New returns a random UUID string, used as the public id of bulletins and
// whisper messages.
func New() string {
	return uuid.NewString()
}
