package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createMatch1v1(t *testing.T, router *gin.Engine, token string) uint {
	t.Helper()
	w := doRequest(t, router, http.MethodPost, "/api/v1/matches/1v1", nil, token)
	require.Equal(t, http.StatusCreated, w.Code)
	var body struct {
		MatchID uint `json:"match_id"`
	}
	decodeBody(t, w, &body)
	return body.MatchID
}

func getMatch(t *testing.T, router *gin.Engine, token string, id uint) MatchResponse {
	t.Helper()
	w := doRequest(t, router, http.MethodGet, "/api/v1/matches/"+itoa(id), nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	var match MatchResponse
	decodeBody(t, w, &match)
	return match
}

func TestCreate1v1AndJoin(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()

	_, aliceToken := createTestUser(t, "alice", "customer")
	_, bobToken := createTestUser(t, "bob", "customer")
	_, carolToken := createTestUser(t, "carol", "customer")

	matchID := createMatch1v1(t, router, aliceToken)

	match := getMatch(t, router, bobToken, matchID)
	assert.Equal(t, "1v1", match.Mode)
	assert.Equal(t, 1, match.PlayerCount)
	assert.Equal(t, 2, match.MaxPlayers)
	assert.False(t, match.IsFull)
	assert.True(t, match.CanJoin)

	// The creator already holds a slot.
	match = getMatch(t, router, aliceToken, matchID)
	assert.False(t, match.CanJoin)

	// One creation per user while registered.
	w := doRequest(t, router, http.MethodPost, "/api/v1/matches/1v1", nil, aliceToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, router, http.MethodPost, "/api/v1/matches/"+itoa(matchID)+"/join", nil, bobToken)
	require.Equal(t, http.StatusOK, w.Code)

	match = getMatch(t, router, carolToken, matchID)
	assert.Equal(t, 2, match.PlayerCount)
	assert.True(t, match.IsFull)
	assert.False(t, match.CanJoin)

	// Full match rejects further joins.
	w = doRequest(t, router, http.MethodPost, "/api/v1/matches/"+itoa(matchID)+"/join", nil, carolToken)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]any
	decodeBody(t, w, &body)
	assert.Equal(t, "Match is full", body["message"])

	// Rejoining is reported as informational, not an error.
	w = doRequest(t, router, http.MethodPost, "/api/v1/matches/"+itoa(matchID)+"/join", nil, bobToken)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &body)
	assert.Equal(t, "info", body["status"])
}

func TestCreate2v2WithTempTeammate(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()

	_, aliceToken := createTestUser(t, "alice", "customer")
	_, bobToken := createTestUser(t, "bob", "customer")
	_, carolToken := createTestUser(t, "carol", "customer")

	// Teammate is required.
	w := doRequest(t, router, http.MethodPost, "/api/v1/matches/2v2", gin.H{}, aliceToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, router, http.MethodPost, "/api/v1/matches/2v2", gin.H{"teammate": "Rudi"}, aliceToken)
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		MatchID uint `json:"match_id"`
	}
	decodeBody(t, w, &created)

	// The named teammate occupies a slot without an account.
	match := getMatch(t, router, bobToken, created.MatchID)
	assert.Equal(t, "2v2", match.Mode)
	assert.Equal(t, "Rudi", match.TempTeammate)
	assert.Equal(t, 2, match.PlayerCount)
	assert.Equal(t, 4, match.MaxPlayers)
	assert.True(t, match.CanJoin)

	w = doRequest(t, router, http.MethodPost, "/api/v1/matches/"+itoa(created.MatchID)+"/join", nil, bobToken)
	require.Equal(t, http.StatusOK, w.Code)
	w = doRequest(t, router, http.MethodPost, "/api/v1/matches/"+itoa(created.MatchID)+"/join", nil, carolToken)
	require.Equal(t, http.StatusOK, w.Code)

	match = getMatch(t, router, bobToken, created.MatchID)
	assert.Equal(t, 4, match.PlayerCount)
	assert.True(t, match.IsFull)
}

func TestJoinWhileInAnotherMatch(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()

	_, aliceToken := createTestUser(t, "alice", "customer")
	_, bobToken := createTestUser(t, "bob", "customer")

	createMatch1v1(t, router, aliceToken)
	otherID := createMatch1v1(t, router, bobToken)

	w := doRequest(t, router, http.MethodPost, "/api/v1/matches/"+itoa(otherID)+"/join", nil, aliceToken)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]any
	decodeBody(t, w, &body)
	assert.Equal(t, "You are already registered in another match", body["message"])
}

func TestLeaveMatch(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()

	_, aliceToken := createTestUser(t, "alice", "customer")
	_, bobToken := createTestUser(t, "bob", "customer")

	matchID := createMatch1v1(t, router, aliceToken)
	w := doRequest(t, router, http.MethodPost, "/api/v1/matches/"+itoa(matchID)+"/join", nil, bobToken)
	require.Equal(t, http.StatusOK, w.Code)

	// A regular player leaving keeps the match alive.
	w = doRequest(t, router, http.MethodPost, "/api/v1/matches/leave", nil, bobToken)
	require.Equal(t, http.StatusOK, w.Code)

	match := getMatch(t, router, bobToken, matchID)
	assert.Equal(t, 1, match.PlayerCount)
	assert.True(t, match.CanJoin)

	// The creator leaving dissolves it.
	w = doRequest(t, router, http.MethodPost, "/api/v1/matches/leave", nil, aliceToken)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, router, http.MethodGet, "/api/v1/matches/"+itoa(matchID), nil, bobToken)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Leaving with no registration is a 404.
	w = doRequest(t, router, http.MethodPost, "/api/v1/matches/leave", nil, bobToken)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteMatchPermissions(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()

	_, aliceToken := createTestUser(t, "alice", "customer")
	_, bobToken := createTestUser(t, "bob", "customer")

	matchID := createMatch1v1(t, router, aliceToken)

	w := doRequest(t, router, http.MethodDelete, "/api/v1/matches/"+itoa(matchID), nil, bobToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(t, router, http.MethodDelete, "/api/v1/matches/"+itoa(matchID), nil, aliceToken)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, router, http.MethodGet, "/api/v1/matches/"+itoa(matchID), nil, aliceToken)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Creator is free to start a new match afterwards.
	createMatch1v1(t, router, aliceToken)
}
