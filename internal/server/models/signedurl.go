package models

import "time"

// SignedURL is a time-limited download link for one object.
type SignedURL struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
