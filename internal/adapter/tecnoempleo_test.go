package adapter

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/empleoradar/backend/internal/domain"
)

type deadBrowser struct {
	borrows int
}

func (b *deadBrowser) Page(_ time.Duration) (context.Context, context.CancelFunc, error) {
	b.borrows++
	return nil, nil, errors.New("browser unavailable")
}

func TestTecnoempleoFeed(t *testing.T) {
	published := time.Now().UTC().Add(-3 * 24 * time.Hour).Format(time.RFC1123Z)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "golang", q.Get("te"))
		assert.Equal(t, "Madrid", q.Get("lo"), "country suffix is stripped")

		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:dc="http://purl.org/dc/elements/1.1/">
  <channel>
    <title>Tecnoempleo</title>
    <link>https://www.tecnoempleo.com</link>
    <description>Ofertas</description>
    <item>
      <title>Backend Developer Go</title>
      <link>https://www.tecnoempleo.com/oferta/1</link>
      <description>&lt;p&gt;Equipo de plataforma&lt;/p&gt;</description>
      <dc:creator>ACME</dc:creator>
      <pubDate>` + published + `</pubDate>
    </item>
    <item>
      <title>Sin Enlace</title>
      <description>descartada</description>
    </item>
  </channel>
</rss>`))
	}))
	defer server.Close()

	browser := &deadBrowser{}
	a := NewTecnoempleo(browser)
	a.feedURL = server.URL

	jobs, err := a.Search(context.Background(), "golang", "Madrid, España")
	require.NoError(t, err)
	require.Len(t, jobs, 1, "the link-less item is dropped")

	rec := jobs[0]
	assert.Equal(t, "Backend Developer Go", rec.Title)
	assert.Equal(t, "ACME", rec.Company)
	assert.Equal(t, "Madrid, España", rec.Location)
	assert.Equal(t, domain.SourceTecnoempleo, rec.Source)
	assert.Equal(t, "Hace 3 días", rec.PostedAt)
	assert.Equal(t, []string{"Tech", "RSS"}, rec.Tags)
	assert.Equal(t, "Equipo de plataforma", rec.Description)

	assert.Zero(t, browser.borrows, "a healthy feed must not touch the browser")
}

func TestTecnoempleoFeedFailureFallsBackToScrape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	browser := &deadBrowser{}
	a := NewTecnoempleo(browser)
	a.feedURL = server.URL

	_, err := a.Search(context.Background(), "golang", "madrid")
	assert.Error(t, err)
	assert.Equal(t, 1, browser.borrows, "feed failure must chain into the scrape fallback")
}
