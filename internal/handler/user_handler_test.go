package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()

	w := doRequest(t, router, http.MethodPost, "/api/v1/auth/register", gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "password123",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	var registered map[string]string
	decodeBody(t, w, &registered)
	assert.NotEmpty(t, registered["token"])
	assert.Equal(t, "customer", registered["role"])

	// Duplicate username.
	w = doRequest(t, router, http.MethodPost, "/api/v1/auth/register", gin.H{
		"username": "alice",
		"email":    "other@example.com",
		"password": "password123",
	}, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	// Login by username.
	w = doRequest(t, router, http.MethodPost, "/api/v1/auth/login", gin.H{
		"login":    "alice",
		"password": "password123",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	// Login by email.
	w = doRequest(t, router, http.MethodPost, "/api/v1/auth/login", gin.H{
		"login":    "alice@example.com",
		"password": "password123",
	}, "")
	assert.Equal(t, http.StatusOK, w.Code)

	// Wrong password.
	w = doRequest(t, router, http.MethodPost, "/api/v1/auth/login", gin.H{
		"login":    "alice",
		"password": "nope-nope-nope",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()

	w := doRequest(t, router, http.MethodPost, "/api/v1/auth/register", gin.H{
		"username": "bob",
		"email":    "not-an-email",
		"password": "short",
	}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Errors map[string]string `json:"errors"`
	}
	decodeBody(t, w, &body)
	assert.Contains(t, body.Errors, "Email")
	assert.Contains(t, body.Errors, "Password")
}

func TestGetMeAndUpdate(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()

	_, token := createTestUser(t, "alice", "customer")

	w := doRequest(t, router, http.MethodGet, "/api/v1/users/me", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	var me PrivateUserResponse
	decodeBody(t, w, &me)
	assert.Equal(t, "alice", me.Username)
	assert.Equal(t, "alice@example.com", me.Email)

	w = doRequest(t, router, http.MethodPut, "/api/v1/users/me", gin.H{
		"phone": "08123456789",
		"bio":   "weekend player",
	}, token)
	require.Equal(t, http.StatusOK, w.Code)

	decodeBody(t, w, &me)
	assert.Equal(t, "08123456789", me.Phone)
	assert.Equal(t, "weekend player", me.Bio)
	// Untouched fields survive a partial update.
	assert.Equal(t, "alice@example.com", me.Email)
}

func TestRequestsRequireAuth(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()

	w := doRequest(t, router, http.MethodGet, "/api/v1/users/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(t, router, http.MethodGet, "/api/v1/users/me", nil, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSearchUsersExcludesViewer(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()

	_, token := createTestUser(t, "alice", "customer")
	createTestUser(t, "alina", "customer")
	createTestUser(t, "bob", "customer")

	w := doRequest(t, router, http.MethodGet, "/api/v1/users?q=ali", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	var page PaginatedResponse[PublicUserResponse]
	decodeBody(t, w, &page)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "alina", page.Data[0].Username)
}

func TestGetUserByIDSelfReturnsPrivateProfile(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()

	alice, token := createTestUser(t, "alice", "customer")
	bob, _ := createTestUser(t, "bob", "customer")

	w := doRequest(t, router, http.MethodGet, "/api/v1/users/"+itoa(bob.ID), nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	var public PublicUserResponse
	decodeBody(t, w, &public)
	assert.Equal(t, "bob", public.Username)

	w = doRequest(t, router, http.MethodGet, "/api/v1/users/"+itoa(alice.ID), nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	var private PrivateUserResponse
	decodeBody(t, w, &private)
	assert.Equal(t, "alice@example.com", private.Email)
}
