package users

import (
	"strings"
	"time"

	"github.com/jrsteele09/gym-checkin/internal/errors"
	"golang.org/x/crypto/bcrypt"
)

const MinPasswordLength = 8

// Messages shown by the user management screen.
const (
	MsgUsernameRequired = "The username is required."
	MsgPasswordMismatch = "The passwords do not match!"
	MsgPasswordTooShort = "The password must have at least 8 characters!"
	MsgUsernameTaken    = "This username already exists!"
	MsgNoAdminRights    = "You do not have admin permissions to manage users."
)

// User is a staff account that can log in to the manager dashboard.
type User struct {
	ID           int       `json:"id"`                   // Unique identifier for the user
	Username     string    `json:"username"`             // Unique username
	Email        string    `json:"email,omitempty"`      // User's email address
	PasswordHash string    `json:"-"`                    // Hashed version of the user's password - never serialize
	FirstName    string    `json:"first_name,omitempty"` // First name of the user
	LastName     string    `json:"last_name,omitempty"`  // Last name of the user
	DateJoined   time.Time `json:"date_joined,omitzero"` // Date and time when the user was created
	IsStaff      bool      `json:"is_staff"`             // Can log in to the dashboard
	IsSuperuser  bool      `json:"is_superuser"`         // Full rights, can never be deleted from the dashboard
	IsAdmin      bool      `json:"is_admin"`             // Can manage other users
}

// CanManageUsers reports whether the users tab is available to u.
func (u *User) CanManageUsers() bool {
	return u != nil && (u.IsAdmin || u.IsSuperuser)
}

// Role is the label shown next to the user in the list.
func (u *User) Role() string {
	switch {
	case u.IsSuperuser:
		return "superuser"
	case u.IsStaff:
		return "staff"
	default:
		return "user"
	}
}

// CanDelete reports whether actor may delete target. Nobody deletes
// themselves or a superuser.
func CanDelete(actor, target *User) bool {
	if actor == nil || target == nil {
		return false
	}
	return actor.ID != target.ID && !target.IsSuperuser
}

// NewUser is the create-user request body.
type NewUser struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

// Validate checks the request before it is sent. A mismatched confirmation is
// reported before a short password.
func (n NewUser) Validate() error {
	if strings.TrimSpace(n.Username) == "" {
		return errors.Invalid("username", MsgUsernameRequired)
	}
	if n.Password != n.PasswordConfirm {
		return errors.Invalid("password_confirm", MsgPasswordMismatch)
	}
	if len(n.Password) < MinPasswordLength {
		return errors.Invalid("password", MsgPasswordTooShort)
	}
	return nil
}

// Update is a partial user update; nil fields are left unchanged.
type Update struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
	IsStaff  *bool   `json:"is_staff,omitempty"`
	IsAdmin  *bool   `json:"is_admin,omitempty"`
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// CheckPassword checks password against the user's stored hash.
func (u *User) CheckPassword(password string) bool {
	return CheckPasswordHash(password, u.PasswordHash)
}
