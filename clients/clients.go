package clients

import (
	"github.com/mpigajesse/yoozak-backoffice/users"
)

// Client is a storefront customer profile linked one-to-one to a user
// account. Staff accounts have no Client record; the presence or absence of
// one decides which profile shape the API serves.
type Client struct {
	ID             int64
	UserID         int64
	Nom            string
	Prenom         string
	Phone          string
	Genre          string
	PointsFidelite int
}

// nestedUserPayload is the user object embedded in a customer profile. Unlike
// the admin shape, group and permission grants are flattened to plain strings
// and there is no is_staff key at the top level of the enclosing profile.
type nestedUserPayload struct {
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
}

// ProfilePayload is the wire form of a customer profile.
type ProfilePayload struct {
	ID             int64             `json:"id"`
	Nom            string            `json:"nom"`
	Prenom         string            `json:"prenom"`
	Phone          string            `json:"phone,omitempty"`
	Genre          string            `json:"genre,omitempty"`
	PointsFidelite int               `json:"point_de_fidelite"`
	User           nestedUserPayload `json:"user"`
}

// ProfilePayload serializes the client profile in the customer shape.
func (c *Client) ProfilePayload(user *users.User) ProfilePayload {
	admin := user.AdminPayload()
	return ProfilePayload{
		ID:             c.ID,
		Nom:            c.Nom,
		Prenom:         c.Prenom,
		Phone:          c.Phone,
		Genre:          c.Genre,
		PointsFidelite: c.PointsFidelite,
		User: nestedUserPayload{
			ID:              user.ID,
			Username:        user.Username,
			Email:           user.Email,
			FirstName:       user.FirstName,
			LastName:        user.LastName,
			IsStaff:         user.IsStaff,
			IsSuperuser:     user.IsSuperuser,
			IsActive:        user.IsActive,
			DateJoined:      admin.DateJoined,
			LastLogin:       admin.LastLogin,
			Groups:          user.GroupNames(),
			UserPermissions: user.PermissionCodenames(),
		},
	}
}
