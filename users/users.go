package users

import (
	"fmt"
	"strings"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"golang.org/x/crypto/bcrypt"
)

// RoleType is the role carried in a bearer token's claims
type RoleType string

const (
	RoleAdmin    RoleType = "admin"     // Full access to every console screen
	RoleSubAdmin RoleType = "sub-admin" // Read/write on vendors, events, bod and members
	RoleUser     RoleType = "user"      // Authenticated, no console permissions
)

// Known reports whether the role is one the console understands.
func (r RoleType) Known() bool {
	switch r {
	case RoleAdmin, RoleSubAdmin, RoleUser:
		return true
	}
	return false
}

// User is the user object returned by the backend profile endpoints.
type User struct {
	ID           string   `json:"id,omitempty"`
	Name         string   `json:"name,omitempty"`
	Email        string   `json:"email,omitempty"`
	Phone        string   `json:"phone,omitempty"`
	Avatar       string   `json:"avatar,omitempty"`
	Role         RoleType `json:"role,omitempty"`
	PasswordHash string   `json:"-"` // Only populated by the dev backend - never serialize
}

// Credentials are sent once per login call and never persisted.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate will run validation rules
func (c Credentials) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Email, validation.Required, is.Email),
		validation.Field(&c.Password, validation.Required),
	)
}

// ProfileUpdate holds the profile fields to change; nil fields are left untouched.
type ProfileUpdate struct {
	Name   *string `json:"name,omitempty"`
	Email  *string `json:"email,omitempty"`
	Phone  *string `json:"phone,omitempty"`
	Avatar *string `json:"avatar,omitempty"`
}

// Validate will run validation rules against the trimmed values Apply stores.
func (p ProfileUpdate) Validate() error {
	if p.Name == nil && p.Email == nil && p.Phone == nil && p.Avatar == nil {
		return fmt.Errorf("no profile fields to update")
	}
	p = p.trimmed()
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.NilOrNotEmpty, validation.Length(1, 120)),
		validation.Field(&p.Email, validation.NilOrNotEmpty, is.Email),
		validation.Field(&p.Phone, validation.Length(0, 32)),
	)
}

// Apply copies the set fields onto the user.
func (p ProfileUpdate) Apply(u *User) {
	p = p.trimmed()
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
}

func (p ProfileUpdate) trimmed() ProfileUpdate {
	trim := func(s *string) *string {
		if s == nil {
			return nil
		}
		t := strings.TrimSpace(*s)
		return &t
	}
	return ProfileUpdate{Name: trim(p.Name), Email: trim(p.Email), Phone: trim(p.Phone), Avatar: p.Avatar}
}

// PasswordChange is the body of the change password call.
type PasswordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Validate will run validation rules
func (p PasswordChange) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.CurrentPassword, validation.Required),
		validation.Field(&p.NewPassword,
			validation.Required,
			validation.By(func(value interface{}) error {
				return ValidatePasswordStrength(value.(string))
			}),
			validation.By(func(value interface{}) error {
				if value.(string) == p.CurrentPassword {
					return fmt.Errorf("must differ from the current password")
				}
				return nil
			}),
		),
	)
}

// ValidatePasswordStrength checks if password meets security requirements:
// - At least 8 characters long
// - Contains uppercase and lowercase letters
// - Contains at least one number
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	var (
		hasUpper  bool
		hasLower  bool
		hasNumber bool
	)

	for _, char := range password {
		if unicode.IsUpper(char) {
			hasUpper = true
		} else if unicode.IsLower(char) {
			hasLower = true
		} else if unicode.IsDigit(char) {
			hasNumber = true
		}
	}

	if !hasUpper {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}
	if !hasNumber {
		return fmt.Errorf("password must contain at least one number")
	}

	return nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
