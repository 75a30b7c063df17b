package handler_test

import (
	"net/http"
	"testing"

	"github.com/gatherhq/gatherspace/internal/models"
	"github.com/gatherhq/gatherspace/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Walks the happy path end to end against a single database: registration,
// login, community and post creation, then the authorization ladder around
// deleting someone else's post.
func TestAPIFlow(t *testing.T) {
	r, db := setupAPI(t)

	// Alice signs up.
	w := doRequest(t, r, http.MethodPost, "/api/auth/register", map[string]any{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "Password123",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// And logs in fresh.
	w = doRequest(t, r, http.MethodPost, "/api/auth/login", map[string]any{
		"email":    "alice@example.com",
		"password": "Password123",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	aliceToken := decodeBody(t, w)["access_token"].(string)

	// Alice builds her corner of the platform.
	w = doRequest(t, r, http.MethodPost, "/api/communities", map[string]any{
		"name": "gophers",
	}, aliceToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	communityID := decodeBody(t, w)["id"].(string)

	w = doRequest(t, r, http.MethodPost, "/api/posts", map[string]any{
		"title":        "welcome",
		"content":      "introduce yourselves",
		"community_id": communityID,
	}, aliceToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	postID := decodeBody(t, w)["id"].(string)

	// Bob joins and reacts, but cannot remove Alice's post.
	bob := testutil.CreateUser(t, db, "bob", models.RoleUser)
	bobToken := testutil.AccessToken(t, bob)

	w = doRequest(t, r, http.MethodPost, "/api/reactions", map[string]any{
		"entity_type":   "Post",
		"entity_id":     postID,
		"reaction_type": "like",
	}, bobToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doRequest(t, r, http.MethodDelete, "/api/posts/"+postID, nil, bobToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// An admin can.
	admin := testutil.CreateUser(t, db, "root", models.RoleAdmin)
	w = doRequest(t, r, http.MethodDelete, "/api/posts/"+postID, nil, testutil.AccessToken(t, admin))
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, r, http.MethodGet, "/api/posts/"+postID, nil, aliceToken)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Unauthenticated traffic never reaches protected routes.
	w = doRequest(t, r, http.MethodGet, "/api/posts", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
