package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFogosFeed_FetchIncidents_WrappedShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":[
			{"id":"1","natureza":"Incêndio","concelho":"Sertã","lat":"39.8","lng":"-8.1"},
			{"id":2,"natureza":"Acidente","concelho":"Oleiros","lat":39.9,"lng":-7.9}
		]}`))
	}))
	defer server.Close()

	feed := NewFogosFeed(server.URL, 5*time.Second)
	incidents, err := feed.FetchIncidents(context.Background())

	require.NoError(t, err)
	require.Len(t, incidents, 2)
	assert.Equal(t, "1", incidents[0].ID)
	assert.Equal(t, "39.8", incidents[0].Lat)
	assert.Equal(t, "2", incidents[1].ID)
	assert.Equal(t, "-7.9", incidents[1].Lng)
}

func TestFogosFeed_FetchIncidents_BareArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"9","natureza":"Queda de árvore"}]`))
	}))
	defer server.Close()

	feed := NewFogosFeed(server.URL, 5*time.Second)
	incidents, err := feed.FetchIncidents(context.Background())

	require.NoError(t, err)
	require.Len(t, incidents, 1)
	assert.Equal(t, "9", incidents[0].ID)
}

func TestFogosFeed_FetchIncidents_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	feed := NewFogosFeed(server.URL, 5*time.Second)
	_, err := feed.FetchIncidents(context.Background())

	assert.Error(t, err)
}

func TestFogosFeed_FetchIncidents_UnknownShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`"not incidents"`))
	}))
	defer server.Close()

	feed := NewFogosFeed(server.URL, 5*time.Second)
	_, err := feed.FetchIncidents(context.Background())

	assert.Error(t, err)
}
