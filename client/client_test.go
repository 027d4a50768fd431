package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", srv.Client())
}

func TestClient_GetEvent(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/events/3", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"id":3,"name":"Spring Open","format":"Full Contact",
			"publishBrackets":true,"showBrackets":true,
			"brackets":[{"id":1,"bracketNumber":1,"title":"-71kg","members":[{"name":"Ann","bracket":1}]}]}}`))
	})

	event, err := c.GetEvent(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "Spring Open", event.Name)
	assert.True(t, event.BracketsVisible())
	require.Len(t, event.Brackets, 1)
	assert.Equal(t, "Ann", event.Brackets[0].Members[0].Name)
}

func TestClient_EnvelopeFailure(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"message":"the requested resource could not be found"}`))
	})

	_, err := c.GetEvent(context.Background(), 9)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "the requested resource could not be found", apiErr.Message)
}

func TestClient_SuccessFalseWithOK(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"message":"maintenance"}`))
	})

	_, err := c.ListEvents(context.Background(), 1, 10)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusOK, apiErr.StatusCode)
	assert.False(t, IsNotFound(err))
}

func TestClient_ListEvents(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{"success":true,"data":{"items":[{"id":1,"name":"A"},{"id":2,"name":"B"}],
			"pagination":{"currentPage":2,"totalPages":3,"totalItems":12,"pageSize":5}}}`))
	})

	page, err := c.ListEvents(context.Background(), 2, 5)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 12, page.Pagination.TotalItems)
}

func TestClient_GetDashboard(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2024-05-01", r.URL.Query().Get("startDate"))
		assert.Empty(t, r.URL.Query().Get("endDate"))
		_, _ = w.Write([]byte(`{"success":true,"data":{"eventsTotal":4,"ticketsSold":30,"revenueCents":90000,
			"dailySales":[{"date":"2024-05-02","ticketsSold":30,"revenueCents":90000}]}}`))
	})

	d, err := c.GetDashboard(context.Background(), time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 4, d.TotalEvents)
	assert.Equal(t, int64(90000), d.RevenueCents)
	require.Len(t, d.Daily, 1)
}
