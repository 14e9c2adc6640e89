package models

import "time"

type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	Metadata     UserMetadata
	CreatedAt    time.Time
}

// UserMetadata is the free-form profile document stored with the account.
// Empty fields are omitted so partial documents can be merged.
type UserMetadata struct {
	FirstName  string `json:"first_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	AvatarPath string `json:"avatar_path,omitempty"`
}

// Profile is what the API returns for the current user.
type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
