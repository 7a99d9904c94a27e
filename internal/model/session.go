package model

import "time"

// Session represents the user info captured by the front end and persisted between visits.
// The auth code is stored encrypted and never leaves the service; HasAuthCode reports its presence.
type Session struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	HasAuthCode bool      `json:"hasAuthCode"`
	CreatedAt   time.Time `json:"createdAt"`
	LastSeenAt  time.Time `json:"lastSeenAt"`
}
