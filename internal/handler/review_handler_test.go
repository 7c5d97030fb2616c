package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReviewAndDuplicate(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()

	_, token := createTestUser(t, "alice", "customer")
	venue := createTestVenue(t, "Padel Arena")

	w := doRequest(t, router, http.MethodPost, "/api/v1/reviews/venues/"+venue.ID.String(), gin.H{
		"comment": "Great courts, friendly staff",
	}, token)
	require.Equal(t, http.StatusCreated, w.Code)

	var review ReviewResponse
	decodeBody(t, w, &review)
	assert.Equal(t, "alice", review.Username)
	// Rating is snapshotted from the venue's upstream rating.
	assert.Equal(t, 4.5, review.Rating)

	// One review per user per venue.
	w = doRequest(t, router, http.MethodPost, "/api/v1/reviews/venues/"+venue.ID.String(), gin.H{
		"comment": "Changed my mind",
	}, token)
	require.Equal(t, http.StatusConflict, w.Code)
	var body map[string]any
	decodeBody(t, w, &body)
	assert.Equal(t, "You have already reviewed this court. Edit your review instead.", body["message"])
}

func TestAnonymousReviewMasksUsername(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()

	_, aliceToken := createTestUser(t, "alice", "customer")
	_, bobToken := createTestUser(t, "bob", "customer")
	venue := createTestVenue(t, "Padel Arena")

	w := doRequest(t, router, http.MethodPost, "/api/v1/reviews/venues/"+venue.ID.String(), gin.H{
		"comment":   "Decent but crowded",
		"anonymous": true,
	}, aliceToken)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(t, router, http.MethodGet, "/api/v1/venues/"+venue.ID.String()+"/reviews", nil, bobToken)
	require.Equal(t, http.StatusOK, w.Code)

	var listing struct {
		Reviews   []ReviewResponse `json:"reviews"`
		AvgRating float64          `json:"avg_rating"`
	}
	decodeBody(t, w, &listing)
	require.Len(t, listing.Reviews, 1)
	assert.Equal(t, "Anonymous", listing.Reviews[0].Username)
	assert.Equal(t, 4.5, listing.AvgRating)

	// The author still sees it under their own reviews.
	w = doRequest(t, router, http.MethodGet, "/api/v1/reviews/me", nil, aliceToken)
	require.Equal(t, http.StatusOK, w.Code)
	var mine struct {
		Reviews []ReviewResponse `json:"reviews"`
	}
	decodeBody(t, w, &mine)
	assert.Len(t, mine.Reviews, 1)
}

func TestUpdateReview(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()

	_, token := createTestUser(t, "alice", "customer")
	_, otherToken := createTestUser(t, "bob", "customer")
	venue := createTestVenue(t, "Padel Arena")

	w := doRequest(t, router, http.MethodPost, "/api/v1/reviews/venues/"+venue.ID.String(), gin.H{
		"comment": "First impression",
	}, token)
	require.Equal(t, http.StatusCreated, w.Code)
	var review ReviewResponse
	decodeBody(t, w, &review)

	// Only the author may edit.
	w = doRequest(t, router, http.MethodPut, "/api/v1/reviews/"+itoa(review.ID), gin.H{
		"comment": "Hijacked",
	}, otherToken)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, router, http.MethodPut, "/api/v1/reviews/"+itoa(review.ID), gin.H{
		"comment":   "Second visit, even better",
		"anonymous": true,
	}, token)
	require.Equal(t, http.StatusOK, w.Code)

	var updated map[string]any
	decodeBody(t, w, &updated)
	assert.Equal(t, "Second visit, even better", updated["comment"])
	assert.Equal(t, true, updated["anonymous"])
}

func TestDeleteReviewFreesSlot(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()

	_, token := createTestUser(t, "alice", "customer")
	venue := createTestVenue(t, "Padel Arena")

	w := doRequest(t, router, http.MethodPost, "/api/v1/reviews/venues/"+venue.ID.String(), gin.H{
		"comment": "First take",
	}, token)
	require.Equal(t, http.StatusCreated, w.Code)
	var review ReviewResponse
	decodeBody(t, w, &review)

	w = doRequest(t, router, http.MethodDelete, "/api/v1/reviews/"+itoa(review.ID), nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	// Deleting releases the one-review-per-venue slot.
	w = doRequest(t, router, http.MethodPost, "/api/v1/reviews/venues/"+venue.ID.String(), gin.H{
		"comment": "Second take",
	}, token)
	assert.Equal(t, http.StatusCreated, w.Code)
}
