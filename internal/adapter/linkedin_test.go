package adapter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/empleoradar/backend/internal/config"
	"github.com/empleoradar/backend/internal/domain"
)

func linkedinClient(tokenServer, apiServer *httptest.Server) *LinkedInAPI {
	a := NewLinkedInAPI(config.Credentials{ClientID: "id", ClientSecret: "secret"})
	a.tokenURL = tokenServer.URL
	a.baseURL = apiServer.URL
	return a
}

func TestLinkedInAPIUnconfigured(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("unconfigured adapter must not call the API")
	}))
	defer server.Close()

	a := NewLinkedInAPI(config.Credentials{})
	a.tokenURL = server.URL
	a.baseURL = server.URL

	jobs, err := a.Search(context.Background(), "developer", "madrid")
	assert.NoError(t, err)
	assert.Nil(t, jobs)
}

func TestLinkedInAPITokenIsCached(t *testing.T) {
	var tokenCalls atomic.Int32
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenCalls.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		assert.Equal(t, "id", r.PostForm.Get("client_id"))
		assert.Equal(t, "secret", r.PostForm.Get("client_secret"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token": "tok-1", "expires_in": 3600}`))
	}))
	defer tokenServer.Close()

	apiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"elements": []}`))
	}))
	defer apiServer.Close()

	a := linkedinClient(tokenServer, apiServer)

	_, err := a.Search(context.Background(), "developer", "madrid")
	require.NoError(t, err)
	_, err = a.Search(context.Background(), "developer", "madrid")
	require.NoError(t, err)

	assert.Equal(t, int32(1), tokenCalls.Load(), "token must be reused while far from expiry")
}

func TestLinkedInAPITokenRefetchedNearExpiry(t *testing.T) {
	var tokenCalls atomic.Int32
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenCalls.Add(1)
		w.Write([]byte(`{"access_token": "tok", "expires_in": 30}`))
	}))
	defer tokenServer.Close()

	apiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"elements": []}`))
	}))
	defer apiServer.Close()

	a := linkedinClient(tokenServer, apiServer)

	// A 30s lifetime sits inside the one minute expiry margin, so every
	// search pays for a fresh token.
	a.Search(context.Background(), "developer", "madrid")
	a.Search(context.Background(), "developer", "madrid")

	assert.Equal(t, int32(2), tokenCalls.Load())
}

func TestLinkedInAPIMapsElements(t *testing.T) {
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access_token": "tok", "expires_in": 3600}`))
	}))
	defer tokenServer.Close()

	apiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "developer", q.Get("q"))
		assert.Equal(t, "madrid", q.Get("location"))
		assert.Equal(t, "10", q.Get("count"))

		w.Write([]byte(`{"elements": [
			{
				"id": 99,
				"title": "Backend Developer",
				"companyName": "ACME",
				"location": "Madrid",
				"jobUrl": "https://www.linkedin.com/jobs/view/99",
				"description": "Equipo de plataforma"
			},
			{"id": 100}
		]}`))
	}))
	defer apiServer.Close()

	jobs, err := linkedinClient(tokenServer, apiServer).Search(context.Background(), "developer", "madrid")
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	first := jobs[0]
	assert.Equal(t, "li-api-99", first.ID)
	assert.Equal(t, "Backend Developer", first.Title)
	assert.Equal(t, domain.SourceLinkedIn, first.Source)
	assert.Equal(t, []string{"API Oficial"}, first.Tags)

	second := jobs[1]
	assert.Equal(t, "Oferta LinkedIn", second.Title)
	assert.Equal(t, "Empresa", second.Company)
	assert.Equal(t, "madrid", second.Location)
	assert.Equal(t, "https://www.linkedin.com/jobs/view/100", second.URL)
}

func TestLinkedInAPIForbiddenReturnsNotice(t *testing.T) {
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access_token": "tok", "expires_in": 3600}`))
	}))
	defer tokenServer.Close()

	apiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer apiServer.Close()

	jobs, err := linkedinClient(tokenServer, apiServer).Search(context.Background(), "developer", "madrid")
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	rec := jobs[0]
	assert.Equal(t, "li-restricted", rec.ID)
	assert.Equal(t, []string{domain.TagRestricted}, rec.Tags)
	assert.True(t, rec.IsDiagnostic())
}

func TestSearchLocation(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Madrid, España", "Madrid, Spain"},
		{"madrid, españa", "madrid, Spain"},
		{"Barcelona, Spain", "Barcelona, Spain"},
		{"Remote", "Remote"},
		{"Almería", "Almería, Spain"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, searchLocation(tt.in), "input %q", tt.in)
	}
}

func TestLinkedInAPITokenFailureIsSilent(t *testing.T) {
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "invalid_client"}`))
	}))
	defer tokenServer.Close()

	a := NewLinkedInAPI(config.Credentials{ClientID: "id", ClientSecret: "bad"})
	a.tokenURL = tokenServer.URL

	jobs, err := a.Search(context.Background(), "developer", "madrid")
	assert.NoError(t, err)
	assert.Nil(t, jobs)
}
