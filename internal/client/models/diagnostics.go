package models

import "time"

// StorageReport is the body of /api/debug/storage.
type StorageReport struct {
	Timestamp time.Time `json:"timestamp"`
	User      struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
	Bucket  string `json:"bucket"`
	Buckets struct {
		Count int      `json:"count"`
		Names []string `json:"names"`
		Error string   `json:"error,omitempty"`
	} `json:"buckets"`
	UserFiles struct {
		Count int    `json:"count"`
		Error string `json:"error,omitempty"`
	} `json:"user_files"`
	UploadTest struct {
		Success bool   `json:"success"`
		Path    string `json:"path"`
		Removed bool   `json:"removed"`
		Error   string `json:"error,omitempty"`
	} `json:"upload_test"`
	Environment map[string]string `json:"environment"`
}
