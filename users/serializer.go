package users

import "time"

// AdminPayload is the wire form of a staff/admin user record. The presence
// of the is_staff key is what profile consumers branch on, so it is always
// emitted here, even when false.
type AdminPayload struct {
	ID              int64        `json:"id"`
	Username        string       `json:"username"`
	Email           string       `json:"email"`
	FirstName       string       `json:"first_name"`
	LastName        string       `json:"last_name"`
	IsStaff         bool         `json:"is_staff"`
	IsSuperuser     bool         `json:"is_superuser"`
	IsActive        bool         `json:"is_active"`
	DateJoined      string       `json:"date_joined"`
	LastLogin       string       `json:"last_login"`
	Groups          []Group      `json:"groups"`
	UserPermissions []Permission `json:"user_permissions"`
}

// SimplePayload is the compact user form embedded in organisation records.
type SimplePayload struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	IsActive bool   `json:"is_active"`
}

// AdminPayload serializes the user in the admin profile shape.
func (u *User) AdminPayload() AdminPayload {
	p := AdminPayload{
		ID:              u.ID,
		Username:        u.Username,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		IsStaff:         u.IsStaff,
		IsSuperuser:     u.IsSuperuser,
		IsActive:        u.IsActive,
		DateJoined:      formatTime(u.DateJoined),
		Groups:          u.Groups,
		UserPermissions: u.Permissions,
	}
	if u.LastLogin != nil {
		p.LastLogin = formatTime(*u.LastLogin)
	}
	if p.Groups == nil {
		p.Groups = []Group{}
	}
	if p.UserPermissions == nil {
		p.UserPermissions = []Permission{}
	}
	return p
}

// SimplePayload serializes the user in the compact organisation form.
func (u *User) SimplePayload() SimplePayload {
	return SimplePayload{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		FullName: u.FullName(),
		IsActive: u.IsActive,
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
