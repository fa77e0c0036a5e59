package users_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mpigajesse/yoozak-backoffice/users"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := users.HashPassword("secret123")
	require.NoError(t, err)
	require.NotEqual(t, "secret123", hash)

	user := &users.User{PasswordHash: hash}
	require.True(t, user.CheckPassword("secret123"))
	require.False(t, user.CheckPassword("Secret123"))
}

func TestFullNameFallsBackToUsername(t *testing.T) {
	user := &users.User{Username: "ana"}
	require.Equal(t, "ana", user.FullName())

	user.FirstName = "Ana"
	user.LastName = "Benali"
	require.Equal(t, "Ana Benali", user.FullName())
}

func TestAdminPayloadAlwaysEmitsStaffKeyAndEmptyCollections(t *testing.T) {
	user := &users.User{
		ID:         7,
		Username:   "ana",
		IsStaff:    false,
		DateJoined: time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC),
	}

	raw, err := json.Marshal(user.AdminPayload())
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Contains(t, decoded, "is_staff", "consumers branch on key presence, even when false")
	require.Equal(t, "[]", string(decoded["groups"]))
	require.Equal(t, "[]", string(decoded["user_permissions"]))
	require.Equal(t, `"2025-01-15T10:00:00Z"`, string(decoded["date_joined"]))
}

func TestGrantFlattening(t *testing.T) {
	user := &users.User{
		Groups: []users.Group{{ID: 1, Name: "managers"}},
		Permissions: []users.Permission{
			{ID: 10, Name: "Can add order", Codename: "add_order"},
		},
	}
	require.Equal(t, []string{"managers"}, user.GroupNames())
	require.Equal(t, []string{"add_order"}, user.PermissionCodenames())
}
