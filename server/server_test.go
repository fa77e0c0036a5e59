package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mpigajesse/yoozak-backoffice/clients"
	fakeclientrepo "github.com/mpigajesse/yoozak-backoffice/clients/repofake"
	"github.com/mpigajesse/yoozak-backoffice/internal/config"
	fakeorganisationrepo "github.com/mpigajesse/yoozak-backoffice/organisation/repofake"
	"github.com/mpigajesse/yoozak-backoffice/server"
	"github.com/mpigajesse/yoozak-backoffice/token"
	refreshrepofake "github.com/mpigajesse/yoozak-backoffice/token/refresh/repofake"
	"github.com/mpigajesse/yoozak-backoffice/users"
	fakeuserrepo "github.com/mpigajesse/yoozak-backoffice/users/repofake"
)

type testFixture struct {
	server  *server.Server
	users   *fakeuserrepo.FakeUserRepo
	clients *fakeclientrepo.FakeClientRepo
}

func newTestFixture(t *testing.T) *testFixture {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("BOOTSTRAP_ADMIN_PASSWORD", "bootstrap-password")
	t.Setenv("ENV", "TEST")

	userRepo := fakeuserrepo.NewFakeUserRepo()
	clientRepo := fakeclientrepo.NewFakeClientRepo()
	repos := server.Repos{
		Users:         userRepo,
		Clients:       clientRepo,
		Organisation:  fakeorganisationrepo.NewFakeOrganisationRepo(),
		RefreshTokens: refreshrepofake.NewFakeRefreshTokenRepo(),
	}

	srv, err := server.New(config.New(), repos)
	require.NoError(t, err)

	return &testFixture{server: srv, users: userRepo, clients: clientRepo}
}

func (f *testFixture) createUser(t *testing.T, username, password string, isStaff, isSuperuser bool) *users.User {
	t.Helper()
	hash, err := users.HashPassword(password)
	require.NoError(t, err)
	user := &users.User{
		Username:     username,
		Email:        username + "@yoozak.local",
		PasswordHash: hash,
		IsStaff:      isStaff,
		IsSuperuser:  isSuperuser,
		IsActive:     true,
	}
	require.NoError(t, f.users.Create(context.Background(), user))
	return user
}

func (f *testFixture) request(t *testing.T, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reqBody *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(raw)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, reqBody)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	return rec
}

func (f *testFixture) login(t *testing.T, username, password string) (access, refresh string) {
	t.Helper()
	rec := f.request(t, http.MethodPost, server.RouteAuthLogin, "", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Access, resp.Refresh
}

func TestLoginReturnsTokenPairAndUser(t *testing.T) {
	f := newTestFixture(t)
	f.createUser(t, "ana", "secret123", true, false)

	rec := f.request(t, http.MethodPost, server.RouteAuthLogin, "", map[string]string{
		"username": "ana",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Contains(t, resp, "access")
	require.Contains(t, resp, "refresh")
	require.Contains(t, resp, "user")

	var user map[string]any
	require.NoError(t, json.Unmarshal(resp["user"], &user))
	require.Equal(t, "ana", user["username"])
	require.Equal(t, true, user["is_staff"])
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	f := newTestFixture(t)
	f.createUser(t, "ana", "secret123", true, false)

	rec := f.request(t, http.MethodPost, server.RouteAuthLogin, "", map[string]string{
		"username": "ana",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.request(t, http.MethodPost, server.RouteAuthLogin, "", map[string]string{
		"username": "ghost",
		"password": "secret123",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginRejectsMissingFields(t *testing.T) {
	f := newTestFixture(t)

	rec := f.request(t, http.MethodPost, server.RouteAuthLogin, "", map[string]string{"username": "ana"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginRefusesNonStaff(t *testing.T) {
	f := newTestFixture(t)
	f.createUser(t, "customer", "secret123", false, false)

	rec := f.request(t, http.MethodPost, server.RouteAuthLogin, "", map[string]string{
		"username": "customer",
		"password": "secret123",
	})
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRefreshIssuesNewAccessTokenOnly(t *testing.T) {
	f := newTestFixture(t)
	f.createUser(t, "ana", "secret123", true, false)
	_, refreshToken := f.login(t, "ana", "secret123")

	rec := f.request(t, http.MethodPost, server.RouteAuthRefresh, "", map[string]string{"refresh": refreshToken})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp["access"])
	_, hasRefresh := resp["refresh"]
	require.False(t, hasRefresh, "refresh token must not be rotated")

	// the same refresh token stays valid
	rec = f.request(t, http.MethodPost, server.RouteAuthRefresh, "", map[string]string{"refresh": refreshToken})
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRefreshRechecksStaffStatus(t *testing.T) {
	f := newTestFixture(t)
	user := f.createUser(t, "ana", "secret123", true, false)
	_, refreshToken := f.login(t, "ana", "secret123")

	user.IsStaff = false
	require.NoError(t, f.users.Update(context.Background(), user))

	rec := f.request(t, http.MethodPost, server.RouteAuthRefresh, "", map[string]string{"refresh": refreshToken})
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRefreshRejectsUnknownToken(t *testing.T) {
	f := newTestFixture(t)

	rec := f.request(t, http.MethodPost, server.RouteAuthRefresh, "", map[string]string{"refresh": "bogus"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestVerifyToken(t *testing.T) {
	f := newTestFixture(t)
	f.createUser(t, "ana", "secret123", true, false)
	access, _ := f.login(t, "ana", "secret123")

	rec := f.request(t, http.MethodPost, server.RouteTokenVerify, "", map[string]string{"token": access})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.request(t, http.MethodPost, server.RouteTokenVerify, "", map[string]string{"token": "garbage"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "token_not_valid", resp["code"])
}

func TestProfileRequiresAuth(t *testing.T) {
	f := newTestFixture(t)

	rec := f.request(t, http.MethodGet, server.RouteProfile, "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.request(t, http.MethodGet, server.RouteProfile, "not-a-token", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProfileServesAdminShape(t *testing.T) {
	f := newTestFixture(t)
	f.createUser(t, "ana", "secret123", true, false)
	access, _ := f.login(t, "ana", "secret123")

	rec := f.request(t, http.MethodGet, server.RouteProfile, access, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var profile map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	require.Contains(t, profile, "is_staff")
	require.Contains(t, profile, "groups")
	require.Contains(t, profile, "user_permissions")
}

func TestCurrentUserServesCustomerShape(t *testing.T) {
	f := newTestFixture(t)
	user := f.createUser(t, "walid", "secret123", false, false)
	require.NoError(t, f.clients.Upsert(context.Background(), &clients.Client{
		UserID:         user.ID,
		Nom:            "Alami",
		Prenom:         "Walid",
		PointsFidelite: 120,
	}))

	// customers cannot log in to the back office, mint a token directly
	access := f.mintToken(t, user)

	rec := f.request(t, http.MethodGet, server.RouteCurrentUser, access, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var profile map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	require.NotContains(t, profile, "is_staff")
	require.Equal(t, "Alami", profile["nom"])
	require.Equal(t, "Walid", profile["prenom"])
	require.Equal(t, float64(120), profile["point_de_fidelite"])

	nested, ok := profile["user"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "walid", nested["username"])
}

func TestCurrentUserWithoutProfileIsRefused(t *testing.T) {
	f := newTestFixture(t)
	user := f.createUser(t, "walid", "secret123", false, false)
	access := f.mintToken(t, user)

	rec := f.request(t, http.MethodGet, server.RouteCurrentUser, access, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestProfileUpdateMergesFields(t *testing.T) {
	f := newTestFixture(t)
	f.createUser(t, "ana", "secret123", true, false)
	access, _ := f.login(t, "ana", "secret123")

	rec := f.request(t, http.MethodPatch, server.RouteProfileUpdate, access, map[string]string{
		"first_name": "Ana",
		"last_name":  "Benali",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var profile map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	require.Equal(t, "Ana", profile["first_name"])
	require.Equal(t, "Benali", profile["last_name"])
	require.Equal(t, "ana", profile["username"], "untouched fields keep their values")
}

func TestUsersListPagination(t *testing.T) {
	f := newTestFixture(t)
	f.createUser(t, "ana", "secret123", true, false)
	for i := 0; i < 15; i++ {
		f.createUser(t, fmt.Sprintf("user%02d", i), "secret123", false, false)
	}
	access, _ := f.login(t, "ana", "secret123")

	rec := f.request(t, http.MethodGet, server.RouteUsers+"?page=1&page_size=10", access, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Count    int              `json:"count"`
		Next     *string          `json:"next"`
		Previous *string          `json:"previous"`
		Results  []map[string]any `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 17, resp.Count) // 15 + ana + bootstrap admin
	require.Len(t, resp.Results, 10)
	require.NotNil(t, resp.Next)
	require.Nil(t, resp.Previous)
}

func TestUsersListRequiresStaff(t *testing.T) {
	f := newTestFixture(t)
	user := f.createUser(t, "walid", "secret123", false, false)
	access := f.mintToken(t, user)

	rec := f.request(t, http.MethodGet, server.RouteUsers, access, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUserCreate(t *testing.T) {
	f := newTestFixture(t)
	f.createUser(t, "ana", "secret123", true, false)
	access, _ := f.login(t, "ana", "secret123")

	rec := f.request(t, http.MethodPost, server.RouteUserCreate, access, map[string]any{
		"username": "newstaff",
		"password": "secret123",
		"is_staff": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// duplicate username
	rec = f.request(t, http.MethodPost, server.RouteUserCreate, access, map[string]any{
		"username": "newstaff",
		"password": "secret123",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUserDeleteRequiresSuperuser(t *testing.T) {
	f := newTestFixture(t)
	f.createUser(t, "ana", "secret123", true, false)
	victim := f.createUser(t, "victim", "secret123", true, false)
	access, _ := f.login(t, "ana", "secret123")

	rec := f.request(t, http.MethodDelete, fmt.Sprintf("/api/users/delete/%d/", victim.ID), access, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUserDeleteRefusesSelf(t *testing.T) {
	f := newTestFixture(t)
	boss := f.createUser(t, "boss", "secret123", true, true)
	access, _ := f.login(t, "boss", "secret123")

	rec := f.request(t, http.MethodDelete, fmt.Sprintf("/api/users/delete/%d/", boss.ID), access, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUserDelete(t *testing.T) {
	f := newTestFixture(t)
	f.createUser(t, "boss", "secret123", true, true)
	victim := f.createUser(t, "victim", "secret123", true, false)
	access, _ := f.login(t, "boss", "secret123")

	rec := f.request(t, http.MethodDelete, fmt.Sprintf("/api/users/delete/%d/", victim.ID), access, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.request(t, http.MethodGet, fmt.Sprintf("/api/users/%d/", victim.ID), access, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrganisationCRUD(t *testing.T) {
	f := newTestFixture(t)
	f.createUser(t, "ana", "secret123", true, false)
	access, _ := f.login(t, "ana", "secret123")

	// create pole
	rec := f.request(t, http.MethodPost, server.RoutePoles, access, map[string]any{
		"nom":  "Production",
		"code": "PROD",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var pole map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pole))
	poleID := int64(pole["id"].(float64))
	require.Equal(t, true, pole["est_actif"])

	// create service under the pole
	rec = f.request(t, http.MethodPost, server.RouteServices, access, map[string]any{
		"nom":  "Assemblage",
		"pole": poleID,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var service map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &service))
	serviceID := int64(service["id"].(float64))

	// create team under the service
	rec = f.request(t, http.MethodPost, server.RouteTeams, access, map[string]any{
		"nom":     "Equipe A",
		"service": serviceID,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// list services filtered by pole
	rec = f.request(t, http.MethodGet, fmt.Sprintf("/api/services/?pole=%d", poleID), access, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var services []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &services))
	require.Len(t, services, 1)

	// patch the pole
	rec = f.request(t, http.MethodPatch, fmt.Sprintf("/api/poles/%d/", poleID), access, map[string]any{
		"est_actif": false,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pole))
	require.Equal(t, false, pole["est_actif"])

	// delete the pole
	rec = f.request(t, http.MethodDelete, fmt.Sprintf("/api/poles/%d/", poleID), access, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.request(t, http.MethodGet, fmt.Sprintf("/api/poles/%d/", poleID), access, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServiceCreateRejectsUnknownPole(t *testing.T) {
	f := newTestFixture(t)
	f.createUser(t, "ana", "secret123", true, false)
	access, _ := f.login(t, "ana", "secret123")

	rec := f.request(t, http.MethodPost, server.RouteServices, access, map[string]any{
		"nom":  "Orphan",
		"pole": 9999,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBootstrapAdminCanLogin(t *testing.T) {
	f := newTestFixture(t)

	access, _ := f.login(t, "admin", "bootstrap-password")
	require.NotEmpty(t, access)
}

// mintToken issues an access token directly, the way the storefront does for
// customer accounts that can never pass the staff-only login.
func (f *testFixture) mintToken(t *testing.T, user *users.User) string {
	t.Helper()
	access, err := token.NewManager(config.New()).CreateAccessToken(user)
	require.NoError(t, err)
	return access
}
