package session

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// User is the normalized session user. Raw backend field names never leak
// past this type: both backend profile shapes converge here.
type User struct {
	ID          int64    `json:"id"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	IsStaff     bool     `json:"isStaff"`
	IsSuperuser bool     `json:"isSuperuser"`
	IsActive    bool     `json:"isActive"`
	DateJoined  string   `json:"dateJoined"`
	LastLogin   string   `json:"lastLogin"`
	Groups      []string `json:"groups"`
	Permissions []string `json:"permissions"`
}

// adminShape is the staff/admin profile payload. Groups and permissions
// arrive as nested objects.
type adminShape struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
	IsActive    bool   `json:"is_active"`
	DateJoined  string `json:"date_joined"`
	LastLogin   string `json:"last_login"`
	Groups      []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"groups"`
	UserPermissions []struct {
		ID       int64  `json:"id"`
		Name     string `json:"name"`
		Codename string `json:"codename"`
	} `json:"user_permissions"`
}

// customerShape is the storefront profile payload: names live at the profile
// level, everything else on the nested user object, where group and
// permission grants are already flat strings.
type customerShape struct {
	ID     int64  `json:"id"`
	Nom    string `json:"nom"`
	Prenom string `json:"prenom"`
	User   struct {
		ID              int64    `json:"id"`
		Username        string   `json:"username"`
		Email           string   `json:"email"`
		FirstName       string   `json:"first_name"`
		LastName        string   `json:"last_name"`
		IsStaff         bool     `json:"is_staff"`
		IsSuperuser     bool     `json:"is_superuser"`
		IsActive        bool     `json:"is_active"`
		DateJoined      string   `json:"date_joined"`
		LastLogin       string   `json:"last_login"`
		Groups          []string `json:"groups"`
		UserPermissions []string `json:"user_permissions"`
	} `json:"user"`
}

// Normalize converts a raw backend profile payload into the session user.
// The branch condition is the presence of a top-level is_staff key: admin
// payloads always carry it, customer payloads never do.
func Normalize(raw json.RawMessage) (*User, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, errors.Wrap(err, "[Normalize] parse profile payload")
	}

	if _, isAdmin := probe["is_staff"]; isAdmin {
		return normalizeAdmin(raw)
	}
	return normalizeCustomer(raw)
}

func normalizeAdmin(raw json.RawMessage) (*User, error) {
	var shape adminShape
	if err := json.Unmarshal(raw, &shape); err != nil {
		return nil, errors.Wrap(err, "[Normalize] parse admin shape")
	}

	user := &User{
		ID:          shape.ID,
		Username:    shape.Username,
		Email:       shape.Email,
		FirstName:   shape.FirstName,
		LastName:    shape.LastName,
		IsStaff:     shape.IsStaff,
		IsSuperuser: shape.IsSuperuser,
		IsActive:    shape.IsActive,
		DateJoined:  shape.DateJoined,
		LastLogin:   shape.LastLogin,
		Groups:      make([]string, 0, len(shape.Groups)),
		Permissions: make([]string, 0, len(shape.UserPermissions)),
	}
	for _, g := range shape.Groups {
		user.Groups = append(user.Groups, g.Name)
	}
	for _, p := range shape.UserPermissions {
		user.Permissions = append(user.Permissions, p.Codename)
	}
	return user, nil
}

func normalizeCustomer(raw json.RawMessage) (*User, error) {
	var shape customerShape
	if err := json.Unmarshal(raw, &shape); err != nil {
		return nil, errors.Wrap(err, "[Normalize] parse customer shape")
	}

	// Profile-level names win; fall back to the nested user's name fields
	firstName := shape.Prenom
	if firstName == "" {
		firstName = shape.User.FirstName
	}
	lastName := shape.Nom
	if lastName == "" {
		lastName = shape.User.LastName
	}

	user := &User{
		ID:          shape.User.ID,
		Username:    shape.User.Username,
		Email:       shape.User.Email,
		FirstName:   firstName,
		LastName:    lastName,
		IsStaff:     shape.User.IsStaff,
		IsSuperuser: shape.User.IsSuperuser,
		IsActive:    shape.User.IsActive,
		DateJoined:  shape.User.DateJoined,
		LastLogin:   shape.User.LastLogin,
		Groups:      shape.User.Groups,
		Permissions: shape.User.UserPermissions,
	}
	if user.Groups == nil {
		user.Groups = []string{}
	}
	if user.Permissions == nil {
		user.Permissions = []string{}
	}
	return user, nil
}
