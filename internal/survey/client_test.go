package survey

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/spetersoncode/fieldwork/internal/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("test-key", WithBaseURL(srv.URL))
}

func TestCreateStudy(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/studies/", r.URL.Path)
		assert.Equal(t, "Token test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Color study", body["name"])

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"study-1","status":"UNPUBLISHED"}`))
	})

	result, err := client.CreateStudy(context.Background(), map[string]any{
		"name":   "Color study",
		"reward": 150,
	})

	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"study-1","status":"UNPUBLISHED"}`, string(result))
}

func TestGetStudy(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/studies/study-1/", r.URL.Path)
		w.Write([]byte(`{"id":"study-1"}`))
	})

	result, err := client.GetStudy(context.Background(), "study-1")

	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"study-1"}`, string(result))
}

func TestUpdateStudy(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/studies/study-1/", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(300), body["reward"])

		w.Write([]byte(`{"id":"study-1","reward":300}`))
	})

	_, err := client.UpdateStudy(context.Background(), "study-1", map[string]any{"reward": 300})
	require.NoError(t, err)
}

func TestLaunchStudy(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/studies/study-1/transition/", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "PUBLISH", body["action"])

		w.Write([]byte(`{"id":"study-1","status":"ACTIVE"}`))
	})

	result, err := client.LaunchStudy(context.Background(), "study-1")

	require.NoError(t, err)
	assert.Contains(t, string(result), "ACTIVE")
}

func TestSubmissions(t *testing.T) {
	t.Run("unwraps results envelope", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/studies/study-1/submissions/", r.URL.Path)
			w.Write([]byte(`{"results":[{"id":"sub-1"},{"id":"sub-2"}],"meta":{"count":2}}`))
		})

		result, err := client.Submissions(context.Background(), "study-1")

		require.NoError(t, err)
		assert.JSONEq(t, `[{"id":"sub-1"},{"id":"sub-2"}]`, string(result))
	})

	t.Run("missing results yields empty array", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		})

		result, err := client.Submissions(context.Background(), "study-1")

		require.NoError(t, err)
		assert.JSONEq(t, `[]`, string(result))
	})
}

func TestStudyStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"id": "study-1",
			"status": "ACTIVE",
			"name": "Color study",
			"total_available_places": 50,
			"places_taken": 12,
			"completion_rate": 0.24
		}`))
	})

	status, err := client.StudyStatus(context.Background(), "study-1")

	require.NoError(t, err)
	assert.Equal(t, "study-1", status.ID)
	assert.Equal(t, "ACTIVE", status.Status)
	assert.Equal(t, 50, status.TotalAvailablePlaces)
	assert.Equal(t, 12, status.PlacesTaken)
	require.NotNil(t, status.CompletionRate)
	assert.InDelta(t, 0.24, *status.CompletionRate, 1e-9)
}

func TestListStudies(t *testing.T) {
	t.Run("passes limit as query parameter", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/studies/", r.URL.Path)
			assert.Equal(t, "5", r.URL.Query().Get("limit"))
			w.Write([]byte(`{"results":[{"id":"study-1"}]}`))
		})

		result, err := client.ListStudies(context.Background(), 5)

		require.NoError(t, err)
		assert.JSONEq(t, `[{"id":"study-1"}]`, string(result))
	})

	t.Run("omits limit when zero", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Empty(t, r.URL.RawQuery)
			w.Write([]byte(`{"results":[]}`))
		})

		_, err := client.ListStudies(context.Background(), 0)
		require.NoError(t, err)
	})
}

func TestDeleteStudy(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/studies/study-1/", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})

	err := client.DeleteStudy(context.Background(), "study-1")
	require.NoError(t, err)
}

func TestCreateTestParticipant(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/researchers/participants/", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "tester@example.com", body["email"])

		w.Write([]byte(`{"participant_id":"part-1"}`))
	})

	result, err := client.CreateTestParticipant(context.Background(), "tester@example.com")

	require.NoError(t, err)
	assert.Contains(t, string(result), "part-1")
}

func TestLaunchTestStudy(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/studies/study-1/test-study", r.URL.Path)
		w.Write([]byte(`{"study_id":"study-1","study_url":"https://example.com/t/study-1"}`))
	})

	result, err := client.LaunchTestStudy(context.Background(), "study-1")

	require.NoError(t, err)
	assert.Contains(t, string(result), "study_url")
}

func TestGetRetriesTransientErrors(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"id":"study-1"}`))
	}))
	t.Cleanup(srv.Close)

	client := NewClient("test-key",
		WithBaseURL(srv.URL),
		WithRetry(retry.Config{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 1}),
	)

	result, err := client.GetStudy(context.Background(), "study-1")

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.JSONEq(t, `{"id":"study-1"}`, string(result))
}

func TestPostDoesNotRetry(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	client := NewClient("test-key",
		WithBaseURL(srv.URL),
		WithRetry(retry.Config{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 1}),
	)

	_, err := client.CreateStudy(context.Background(), map[string]any{"name": "x"})

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"detail":"reward is required"}}`))
	})

	_, err := client.CreateStudy(context.Background(), map[string]any{"name": "incomplete"})

	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, string(apiErr.Body), "reward is required")
	assert.Contains(t, apiErr.Error(), "400")
}
