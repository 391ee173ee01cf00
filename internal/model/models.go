package model

import "time"

// User is a registered dashboard user.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Upload is the log entry of one installed CSV file.
type Upload struct {
	ID           string    `json:"id"`
	Source       string    `json:"source"`
	OriginalName string    `json:"originalName"`
	Path         string    `json:"path"`
	Size         int64     `json:"size"`
	Checksum     string    `json:"checksum"`
	Rows         int       `json:"rows"`
	CreatedAt    time.Time `json:"createdAt"`
}
