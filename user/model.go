package user

import "time"

// User is a stored user. The password hash is never serialized.
type User struct {
	ID           int64     `json:"userid"`
	Username     string    `json:"username"`
	PrimaryEmail string    `json:"primaryemail"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewUser is the payload of POST /users. Passwords are bounded in bytes
// as well as characters since bcrypt reads at most 72 bytes.
type NewUser struct {
	Username     string `json:"username" validate:"required,min=2,max=50"`
	PrimaryEmail string `json:"primaryemail" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8,max=72,maxbytes=72" redact:"true"`
}

// UpdateUser is the payload of PUT /users/:id. Empty fields are left
// unchanged.
type UpdateUser struct {
	Username     string `json:"username" validate:"omitempty,min=2,max=50"`
	PrimaryEmail string `json:"primaryemail" validate:"omitempty,email"`
	Password     string `json:"password" validate:"omitempty,min=8,max=72,maxbytes=72" redact:"true"`
}
