package textgen_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/verudex/Momentum-sub000/internal/textgen"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_EstimateCalories(t *testing.T) {
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/generate/estimate", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		reqBytes, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var req map[string]string
		require.NoError(t, json.Unmarshal(reqBytes, &req))
		assert.Equal(t, "chicken rice, one plate", req["prompt"])

		w.Header().Set("Content-Type", "application/json")
		_, err = w.Write([]byte(`{"text":"around 640 kcal"}`))
		require.NoError(t, err)
	}))
	defer testServer.Close()

	client := textgen.NewClient(testServer.URL)
	text, err := client.EstimateCalories(context.Background(), "chicken rice, one plate")
	require.NoError(t, err)
	assert.Equal(t, "around 640 kcal", text)
}

func TestClient_GeneratePlan(t *testing.T) {
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/generate/plan", r.URL.Path)
		_, err := w.Write([]byte(`{"text":"3x per week full body"}`))
		require.NoError(t, err)
	}))
	defer testServer.Close()

	client := textgen.NewClient(testServer.URL)
	text, err := client.GeneratePlan(context.Background(), "build strength, 3 days a week")
	require.NoError(t, err)
	assert.Equal(t, "3x per week full body", text)
}

func TestClient_Errors(t *testing.T) {
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer testServer.Close()

	client := textgen.NewClient(testServer.URL)

	_, err := client.EstimateCalories(context.Background(), "")
	require.ErrorIs(t, err, textgen.ErrEmptyPrompt)

	_, err = client.EstimateCalories(context.Background(), "some meal")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 503")
}
