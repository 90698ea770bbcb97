package simengine

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expectedSign(secret, apiKey, data string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(apiKey + data))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestFetchRoundResults(t *testing.T) {
	score := 85.0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/results", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		var req ResultsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "key-1", req.APIKey)
		assert.Equal(t, 42, req.RoundID)
		assert.Equal(t, expectedSign("secret-1", "key-1", "42"), req.Sign)

		json.NewEncoder(w).Encode(ResultsResponse{
			Status:  StatusOK,
			RoundID: 42,
			Results: []ResultEntry{
				{TeamID: 1, Revenue: 120000, Profit: 30000, ROI: 1.4, MarketShare: 22, NPS: 35, Margin: 18, AlignmentScore: &score},
				{TeamID: 2, Revenue: 90000, Profit: 12000, ROI: 0.8, MarketShare: 15, NPS: 10, Margin: 9},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "key-1", "secret-1")
	resp, err := client.FetchRoundResults(context.Background(), 42)
	require.NoError(t, err)

	assert.Equal(t, StatusOK, resp.Status)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, 85.0, *resp.Results[0].AlignmentScore)
	assert.Nil(t, resp.Results[1].AlignmentScore)
}

func TestFetchRoundResultsEngineError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ResultsResponse{Status: StatusError, Message: "round not closed"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "key-1", "secret-1")
	_, err := client.FetchRoundResults(context.Background(), 7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "round not closed")
}

func TestFetchRoundResultsStillProcessing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ResultsResponse{Status: StatusProcessing, RoundID: 7})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "key-1", "secret-1")
	resp, err := client.FetchRoundResults(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, StatusProcessing, resp.Status)
	assert.Empty(t, resp.Results)
}

func TestGetStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/status", r.URL.Path)

		var req StatusRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, expectedSign("secret-1", "key-1", "status"), req.Sign)

		json.NewEncoder(w).Encode(StatusResponse{Status: StatusOK, Version: "2.3.1"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "key-1", "secret-1")
	status, err := client.GetStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2.3.1", status.Version)
}

func TestServerErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "key-1", "secret-1")
	_, err := client.GetStatus(context.Background())
	assert.Error(t, err)
}
