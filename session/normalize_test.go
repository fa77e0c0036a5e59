package session_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mpigajesse/yoozak-backoffice/session"
)

const adminPayload = `{
	"id": 7,
	"username": "ana",
	"email": "ana@yoozak.local",
	"first_name": "Ana",
	"last_name": "Benali",
	"is_staff": true,
	"is_superuser": true,
	"is_active": true,
	"date_joined": "2025-01-15T10:00:00Z",
	"last_login": "2025-06-01T08:30:00Z",
	"groups": [{"id": 1, "name": "managers"}, {"id": 2, "name": "logistics"}],
	"user_permissions": [
		{"id": 10, "name": "Can add order", "codename": "add_order"},
		{"id": 11, "name": "Can change order", "codename": "change_order"}
	]
}`

const customerPayload = `{
	"id": 42,
	"nom": "Alami",
	"prenom": "Walid",
	"phone": "0600000000",
	"genre": "Homme",
	"point_de_fidelite": 120,
	"user": {
		"id": 9,
		"username": "walid",
		"email": "walid@example.com",
		"first_name": "W.",
		"last_name": "A.",
		"is_staff": false,
		"is_superuser": false,
		"is_active": true,
		"date_joined": "2025-03-01T12:00:00Z",
		"last_login": "",
		"groups": ["customers"],
		"user_permissions": ["view_own_orders"]
	}
}`

func TestNormalizeAdminShape(t *testing.T) {
	user, err := session.Normalize(json.RawMessage(adminPayload))
	require.NoError(t, err)

	require.Equal(t, int64(7), user.ID)
	require.Equal(t, "ana", user.Username)
	require.Equal(t, "Ana", user.FirstName)
	require.Equal(t, "Benali", user.LastName)
	require.True(t, user.IsStaff)
	require.True(t, user.IsSuperuser)
	require.True(t, user.IsActive)
	require.Equal(t, []string{"managers", "logistics"}, user.Groups)
	require.Equal(t, []string{"add_order", "change_order"}, user.Permissions)
}

func TestNormalizeCustomerShape(t *testing.T) {
	user, err := session.Normalize(json.RawMessage(customerPayload))
	require.NoError(t, err)

	// identity comes from the nested user, names from the profile level
	require.Equal(t, int64(9), user.ID)
	require.Equal(t, "walid", user.Username)
	require.Equal(t, "Walid", user.FirstName)
	require.Equal(t, "Alami", user.LastName)
	require.False(t, user.IsStaff)
	require.True(t, user.IsActive)
	require.Equal(t, []string{"customers"}, user.Groups)
	require.Equal(t, []string{"view_own_orders"}, user.Permissions)
}

func TestNormalizeCustomerNameFallback(t *testing.T) {
	payload := `{
		"id": 42,
		"nom": "",
		"prenom": "",
		"user": {
			"id": 9,
			"username": "walid",
			"first_name": "Walid",
			"last_name": "Alami",
			"is_active": true
		}
	}`
	user, err := session.Normalize(json.RawMessage(payload))
	require.NoError(t, err)
	require.Equal(t, "Walid", user.FirstName)
	require.Equal(t, "Alami", user.LastName)
}

func TestNormalizeBranchesOnStaffKeyPresence(t *testing.T) {
	// is_staff: false is still the admin shape; only a missing key selects
	// the customer branch
	payload := `{"id": 3, "username": "bob", "is_staff": false, "groups": [], "user_permissions": []}`
	user, err := session.Normalize(json.RawMessage(payload))
	require.NoError(t, err)
	require.Equal(t, int64(3), user.ID)
	require.Equal(t, "bob", user.Username)
	require.False(t, user.IsStaff)
}

func TestNormalizeIsDeterministic(t *testing.T) {
	first, err := session.Normalize(json.RawMessage(adminPayload))
	require.NoError(t, err)
	second, err := session.Normalize(json.RawMessage(adminPayload))
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestNormalizeRejectsGarbage(t *testing.T) {
	_, err := session.Normalize(json.RawMessage(`[1, 2, 3]`))
	require.Error(t, err)
}
