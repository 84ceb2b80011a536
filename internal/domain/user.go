package domain

import "time"

type User struct {
	UserID       string    `json:"id" dynamodbav:"user_id"`
	Username     string    `json:"username" dynamodbav:"username"`
	Email        string    `json:"email" dynamodbav:"email"`
	Phone        *string   `json:"phone,omitempty" dynamodbav:"phone"`
	PasswordHash string    `json:"-" dynamodbav:"password_hash"`
	FirstName    string    `json:"first_name" dynamodbav:"first_name"`
	LastName     string    `json:"last_name" dynamodbav:"last_name"`
	IsAdmin      bool      `json:"is_admin" dynamodbav:"is_admin"`
	CreatedAt    time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time `json:"updated" dynamodbav:"updated_at"`
	CreatedBy    string    `json:"created_by" dynamodbav:"created_by"`
	UpdatedBy    string    `json:"updated_by" dynamodbav:"updated_by"`
}

// StampCreated returns a copy of u with the creation audit fields set.
// A freshly registered user is its own creator, so actorID is the new
// user's id at registration time.
func StampCreated(u User, actorID string, now time.Time) User {
	u.CreatedAt = now
	u.UpdatedAt = now
	u.CreatedBy = actorID
	u.UpdatedBy = actorID
	return u
}

// StampUpdated returns a copy of u with the update audit fields set.
func StampUpdated(u User, actorID string, now time.Time) User {
	u.UpdatedAt = now
	u.UpdatedBy = actorID
	return u
}

type RegisterRequest struct {
	Username  string  `json:"username" validate:"required"`
	Password  string  `json:"password" validate:"required,min=8,max=72"`
	Email     string  `json:"email" validate:"required,email"`
	Phone     *string `json:"phone"`
	FirstName string  `json:"first_name" validate:"required"`
	LastName  string  `json:"last_name" validate:"required"`
}
