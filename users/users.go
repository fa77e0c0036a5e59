package users

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Group is a named permission group a user belongs to.
type Group struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Permission is an individual capability grant.
type Permission struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Codename string `json:"codename"`
}

// User is a back-office account. Field names mirror the upstream user table
// so that wire payloads keep the exact shape the dashboard expects.
type User struct {
	ID           int64      `json:"id,omitempty"`
	Username     string     `json:"username,omitempty"`
	Email        string     `json:"email,omitempty"`
	PasswordHash string     `json:"-"` // never serialized
	FirstName    string     `json:"first_name,omitempty"`
	LastName     string     `json:"last_name,omitempty"`
	IsStaff      bool       `json:"is_staff,omitempty"`
	IsSuperuser  bool       `json:"is_superuser,omitempty"`
	IsActive     bool       `json:"is_active,omitempty"`
	DateJoined   time.Time  `json:"date_joined,omitempty"`
	LastLogin    *time.Time `json:"last_login,omitempty"`

	Groups      []Group      `json:"groups,omitempty"`
	Permissions []Permission `json:"user_permissions,omitempty"`
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// CheckPassword checks a candidate password against the user's stored hash.
func (u *User) CheckPassword(password string) bool {
	return CheckPasswordHash(password, u.PasswordHash)
}

// FullName returns "first last", falling back to the username when both
// name parts are empty.
func (u *User) FullName() string {
	full := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if full == "" {
		return u.Username
	}
	return full
}

// GroupNames returns the flat list of group names.
func (u *User) GroupNames() []string {
	names := make([]string, 0, len(u.Groups))
	for _, g := range u.Groups {
		names = append(names, g.Name)
	}
	return names
}

// PermissionCodenames returns the flat list of permission codenames.
func (u *User) PermissionCodenames() []string {
	codes := make([]string, 0, len(u.Permissions))
	for _, p := range u.Permissions {
		codes = append(codes, p.Codename)
	}
	return codes
}
