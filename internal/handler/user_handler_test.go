package handler_test

import (
	"net/http"
	"testing"

	"github.com/gatherhq/gatherspace/internal/models"
	"github.com/gatherhq/gatherspace/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserList_AdminOnly(t *testing.T) {
	r, db := setupAPI(t)

	alice := testutil.CreateUser(t, db, "alice", models.RoleUser)
	admin := testutil.CreateUser(t, db, "root", models.RoleAdmin)

	w := doRequest(t, r, http.MethodGet, "/api/users", nil, testutil.AccessToken(t, alice))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(t, r, http.MethodGet, "/api/users", nil, testutil.AccessToken(t, admin))
	require.Equal(t, http.StatusOK, w.Code)

	list := decodeList(t, w)
	require.Len(t, list, 2)
	for _, entry := range list {
		assert.NotContains(t, entry, "password_hash", "Password hash must never leave the server")
	}
}

func TestUserGet_AnyAuthenticatedUser(t *testing.T) {
	r, db := setupAPI(t)

	alice := testutil.CreateUser(t, db, "alice", models.RoleUser)
	bob := testutil.CreateUser(t, db, "bob", models.RoleUser)

	w := doRequest(t, r, http.MethodGet, "/api/users/"+bob.ID.String(), nil, testutil.AccessToken(t, alice))
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "bob", body["username"])
	assert.NotContains(t, body, "password_hash")
}

func TestUserCreate_AdminOnly(t *testing.T) {
	r, db := setupAPI(t)

	alice := testutil.CreateUser(t, db, "alice", models.RoleUser)
	admin := testutil.CreateUser(t, db, "root", models.RoleAdmin)

	payload := map[string]any{
		"username": "carol",
		"email":    "carol@example.com",
		"password": "Password123",
		"role":     "admin",
	}

	w := doRequest(t, r, http.MethodPost, "/api/users", payload, testutil.AccessToken(t, alice))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(t, r, http.MethodPost, "/api/users", payload, testutil.AccessToken(t, admin))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "admin", decodeBody(t, w)["role"], "Admins may assign any role")
}

func TestUserUpdate_SelfProfile(t *testing.T) {
	r, db := setupAPI(t)

	alice := testutil.CreateUser(t, db, "alice", models.RoleUser)

	w := doRequest(t, r, http.MethodPut, "/api/users/"+alice.ID.String(), map[string]any{
		"bio": "gopher at large",
	}, testutil.AccessToken(t, alice))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, "gopher at large", body["bio"])
	assert.Equal(t, "alice", body["username"], "Untouched fields survive the merge")
}

func TestUserUpdate_OtherUserForbidden(t *testing.T) {
	r, db := setupAPI(t)

	alice := testutil.CreateUser(t, db, "alice", models.RoleUser)
	bob := testutil.CreateUser(t, db, "bob", models.RoleUser)

	w := doRequest(t, r, http.MethodPut, "/api/users/"+bob.ID.String(), map[string]any{
		"bio": "vandalized",
	}, testutil.AccessToken(t, alice))

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUserUpdate_RoleEscalationForbidden(t *testing.T) {
	r, db := setupAPI(t)

	alice := testutil.CreateUser(t, db, "alice", models.RoleUser)

	w := doRequest(t, r, http.MethodPut, "/api/users/"+alice.ID.String(), map[string]any{
		"role": "admin",
	}, testutil.AccessToken(t, alice))

	assert.Equal(t, http.StatusForbidden, w.Code)

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", alice.ID).Error)
	assert.Equal(t, models.RoleUser, stored.Role)
}

func TestUserUpdate_AdminMayChangeRole(t *testing.T) {
	r, db := setupAPI(t)

	alice := testutil.CreateUser(t, db, "alice", models.RoleUser)
	admin := testutil.CreateUser(t, db, "root", models.RoleAdmin)

	w := doRequest(t, r, http.MethodPut, "/api/users/"+alice.ID.String(), map[string]any{
		"role": "admin",
	}, testutil.AccessToken(t, admin))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "admin", decodeBody(t, w)["role"])
}

func TestUserUpdate_PasswordChangeRehashes(t *testing.T) {
	r, db := setupAPI(t)

	alice := testutil.CreateUser(t, db, "alice", models.RoleUser)

	w := doRequest(t, r, http.MethodPut, "/api/users/"+alice.ID.String(), map[string]any{
		"password": "NewSecret456",
	}, testutil.AccessToken(t, alice))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doRequest(t, r, http.MethodPost, "/api/auth/login", map[string]any{
		"email":    "alice@example.com",
		"password": "NewSecret456",
	}, "")
	assert.Equal(t, http.StatusOK, w.Code, "New password must work for login")

	w = doRequest(t, r, http.MethodPost, "/api/auth/login", map[string]any{
		"email":    "alice@example.com",
		"password": testutil.Password,
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code, "Old password must stop working")
}

func TestUserUpdate_DuplicateEmail(t *testing.T) {
	r, db := setupAPI(t)

	alice := testutil.CreateUser(t, db, "alice", models.RoleUser)
	testutil.CreateUser(t, db, "bob", models.RoleUser)

	w := doRequest(t, r, http.MethodPut, "/api/users/"+alice.ID.String(), map[string]any{
		"email": "bob@example.com",
	}, testutil.AccessToken(t, alice))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserDelete_AdminOnlyAndPermanent(t *testing.T) {
	r, db := setupAPI(t)

	alice := testutil.CreateUser(t, db, "alice", models.RoleUser)
	admin := testutil.CreateUser(t, db, "root", models.RoleAdmin)

	w := doRequest(t, r, http.MethodDelete, "/api/users/"+alice.ID.String(), nil, testutil.AccessToken(t, alice))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(t, r, http.MethodDelete, "/api/users/"+alice.ID.String(), nil, testutil.AccessToken(t, admin))
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", alice.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count, "Delete removes the row outright")
}
