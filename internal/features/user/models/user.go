package models

import "time"

// User is a registered user row. ProfilePicture holds the store-relative
// path of the uploaded picture (forward slashes), empty when none was
// attached. CreatedAt is assigned by the database at insert time.
type User struct {
	ID             int64     `json:"id" db:"id" example:"1"`
	Name           string    `json:"name" db:"name" example:"Ada Lovelace"`
	Email          string    `json:"email" db:"email" example:"ada@example.com"`
	Phone          string    `json:"phone" db:"phone" example:"555-0100"`
	ProfilePicture string    `json:"profile_picture,omitempty" db:"profile_picture" example:"uploads/1693400000000-avatar.png"`
	CreatedAt      time.Time `json:"created_at" db:"created_at" example:"2024-03-15T14:30:00Z"`
}

// CreateUserRequest is the multipart registration form. The profilePicture
// file field is read separately by the handler.
type CreateUserRequest struct {
	Name  string `form:"name" binding:"required"`
	Email string `form:"email" binding:"required,email"`
	Phone string `form:"phone"`
}

// UpdateUserRequest updates name and phone only; email and picture are
// immutable after registration.
type UpdateUserRequest struct {
	Name  string `json:"name" binding:"required" example:"Ada L."`
	Phone string `json:"phone" example:"555-0101"`
}

type CreateUserResponse struct {
	ID      int64  `json:"id" example:"1"`
	Message string `json:"message" example:"User registered successfully!"`
}

type MessageResponse struct {
	Message string `json:"message" example:"User updated successfully!"`
}

type ErrorResponse struct {
	Error string `json:"error" example:"Database error"`
}
