// Package models defines server-side data models persisted in the database.
package models

import "time"

// File is the metadata row describing one uploaded object. Path is the
// object key in the bucket, "{user_id}/{uuid}.{ext}".
type File struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	MimeType  string    `json:"mime_type"`
	Starred   bool      `json:"starred"`
	CreatedAt time.Time `json:"created_at"`
}

// OwnedBy reports whether userID owns the record.
func (f *File) OwnedBy(userID string) bool {
	return f != nil && f.UserID == userID
}
