package model

import "time"

// Staff represents a teaching staff account. Staff are the actors attached
// to every column creation and score change.
type Staff struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// StaffLoginRequest is the payload for staff authentication.
type StaffLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=4,max=128"`
}

// StaffLoginResponse is returned after successful staff login.
type StaffLoginResponse struct {
	Token string `json:"token"`
	Staff Staff  `json:"staff"`
}
