package adapter

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/empleoradar/backend/internal/config"
	"github.com/empleoradar/backend/internal/domain"
)

func infojobsClient(server *httptest.Server) *InfoJobsAPI {
	a := NewInfoJobsAPI(config.Credentials{ClientID: "id", ClientSecret: "secret"})
	a.baseURL = server.URL
	return a
}

func TestInfoJobsAPIUnconfigured(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("unconfigured adapter must not call the API")
	}))
	defer server.Close()

	for _, creds := range []config.Credentials{
		{},
		{ClientID: "your_client_id", ClientSecret: "your_client_secret"},
	} {
		a := NewInfoJobsAPI(creds)
		a.baseURL = server.URL

		jobs, err := a.Search(context.Background(), "developer", "madrid")
		assert.NoError(t, err)
		assert.Nil(t, jobs)
	}
}

func TestInfoJobsAPIMapsOffers(t *testing.T) {
	published := time.Now().UTC().Add(-24 * time.Hour).Format(time.RFC3339)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("id:secret"))
		assert.Equal(t, wantAuth, r.Header.Get("Authorization"))

		q := r.URL.Query()
		assert.Equal(t, "developer", q.Get("q"))
		assert.Equal(t, "Madrid", q.Get("province"), "country suffix is stripped")
		assert.Equal(t, "20", q.Get("maxResults"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"offers": [
			{
				"id": "abc123",
				"title": "Backend Developer",
				"link": "https://www.infojobs.net/of-iabc123",
				"author": {"name": "ACME", "logoUrl": "https://cdn/acme.png"},
				"province": {"value": "Madrid"},
				"category": {"value": "Informática"},
				"published": "` + published + `",
				"salaryDescription": "30.000€ - 40.000€",
				"requirementMin": "Experiencia con Go"
			},
			{
				"id": "def456",
				"title": "Data Engineer",
				"link": "https://www.infojobs.net/of-idef456"
			},
			{
				"id": "ghi789",
				"title": "Sin Enlace"
			}
		]}`))
	}))
	defer server.Close()

	jobs, err := infojobsClient(server).Search(context.Background(), "developer", "Madrid, España")
	require.NoError(t, err)
	require.Len(t, jobs, 2, "the link-less offer is dropped")

	first := jobs[0]
	assert.Equal(t, "ij-abc123", first.ID)
	assert.Equal(t, "Backend Developer", first.Title)
	assert.Equal(t, "ACME", first.Company)
	assert.Equal(t, "Madrid", first.Location)
	assert.Equal(t, domain.SourceInfoJobs, first.Source)
	assert.Equal(t, "Ayer", first.PostedAt)
	assert.Equal(t, "30.000€ - 40.000€", first.Salary)
	assert.Equal(t, []string{"InfoJobs", "Informática"}, first.Tags)
	require.NotNil(t, first.Logo)
	assert.Equal(t, "https://cdn/acme.png", *first.Logo)

	second := jobs[1]
	assert.Equal(t, "Empresa en InfoJobs", second.Company)
	assert.Equal(t, "Madrid, España", second.Location)
	assert.Equal(t, "Ver en InfoJobs", second.Salary)
	assert.Equal(t, "Ver oferta completa en InfoJobs", second.Description)
	assert.Nil(t, second.Logo)
}

func TestInfoJobsAPIDiagnosticRecords(t *testing.T) {
	tests := []struct {
		status  int
		wantID  string
		wantTag string
	}{
		{http.StatusUnauthorized, "ij-error-401", domain.TagAuthError},
		{http.StatusTooManyRequests, "ij-error-429", domain.TagRateLimit},
		{http.StatusForbidden, "ij-error-403", domain.TagSourceRestricted},
	}

	for _, tt := range tests {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))

		jobs, err := infojobsClient(server).Search(context.Background(), "developer", "madrid")
		server.Close()

		require.NoError(t, err)
		require.Len(t, jobs, 1, "status %d", tt.status)
		rec := jobs[0]
		assert.Equal(t, tt.wantID, rec.ID)
		assert.Equal(t, []string{tt.wantTag}, rec.Tags)
		assert.True(t, rec.IsDiagnostic())
		assert.True(t, rec.Valid())
		assert.Equal(t, "Ahora", rec.PostedAt)
		assert.Equal(t, "#", rec.URL)
	}
}

func TestInfoJobsScrapeSearchURL(t *testing.T) {
	a := NewInfoJobsScrape(nil)

	assert.Contains(t, a.searchURL("golang", "Madrid"), "provinceIds=33")
	assert.Contains(t, a.searchURL("golang", "Remoto"), "teleworkingIds=2")

	unknown := a.searchURL("golang", "Villarriba")
	assert.NotContains(t, unknown, "provinceIds")
	assert.NotContains(t, unknown, "teleworkingIds")
	assert.Contains(t, unknown, "keywords=golang")
}

func TestInfoJobsAPIUnexpectedStatusIsSilent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	jobs, err := infojobsClient(server).Search(context.Background(), "developer", "madrid")
	assert.NoError(t, err)
	assert.Nil(t, jobs)
}
