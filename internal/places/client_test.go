package places

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchFixture = `{
	"status": "OK",
	"results": [
		{
			"place_id": "p1",
			"name": "Padel Arena",
			"formatted_address": "Jl. Satu No. 1, Jakarta",
			"rating": 4.7,
			"user_ratings_total": 210,
			"photos": [{"photo_reference": "ref-123"}]
		},
		{
			"place_id": "p2",
			"name": "Court Central",
			"formatted_address": "Jl. Dua No. 2, Jakarta",
			"rating": 4.2,
			"user_ratings_total": 80
		}
	]
}`

func TestTextSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "padel courts in jakarta", r.URL.Query().Get("query"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "sports_complex", r.URL.Query().Get("type"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(searchFixture))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	results, err := client.TextSearch(context.Background(), "padel courts in jakarta")
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "p1", results[0].PlaceID)
	assert.Equal(t, "Padel Arena", results[0].Name)
	assert.Equal(t, "Jl. Satu No. 1, Jakarta", results[0].Address)
	assert.Equal(t, 4.7, results[0].Rating)
	assert.Equal(t, 210, results[0].TotalReview)
	assert.Contains(t, results[0].ThumbnailURL, "photoreference=ref-123")
	assert.Contains(t, results[0].ThumbnailURL, "key=test-key")

	// No photos means no thumbnail.
	assert.Empty(t, results[1].ThumbnailURL)
}

func TestTextSearchUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	_, err := client.TextSearch(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
}

func TestTextSearchBadBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	_, err := client.TextSearch(context.Background(), "anything")
	require.Error(t, err)
}
