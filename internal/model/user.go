package model

import (
	"strings"
	"time"
)

// User represents an account record as stored in the `users` table.  Each
// field corresponds to a column.  The json tags are omitted on purpose:
// these structs are used by the repository layer and handlers define their
// own response types.
//
// Fields:
//  ID           – uuid primary key of the user.
//  Email        – unique email address (login key).
//  Phone        – unique phone number (alternate login key).
//  FirstName    – given name, may be empty.
//  LastName     – family name, may be empty.
//  ProfilePhoto – URL of the profile image, may be empty.
//  PasswordHash – bcrypt hashed password.
//  Role         – account role (User or Admin).
//  IsActive     – whether the account is active; inactive accounts cannot log in.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           string    // users.id (uuid)
	Email        string    // users.email
	Phone        string    // users.phone
	FirstName    string    // users.first_name
	LastName     string    // users.last_name
	ProfilePhoto string    // users.profile_photo
	PasswordHash string    // users.password_hash
	Role         Role      // users.role
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// FullName joins the name parts, tolerating either being empty.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
