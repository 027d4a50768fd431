package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/fight-events/brackets"
	"github.com/Dosada05/fight-events/client"
)

const eventJSON = `{"success":true,"data":{"id":1,"name":"Spring Open","format":"Full Contact",
	"publishBrackets":%s,"showBrackets":true,
	"brackets":[
		{"id":1,"bracketNumber":1,"title":"-71kg","ageClass":"Senior",
		 "members":[{"name":"Ann","bracket":1,"position":1},{"name":"Bo","bracket":1,"position":2}],
		 "bouts":[{"id":7,"boutNumber":1,"redCorner":{"name":"Ann"},"blueCorner":{"name":"Bo"},
		           "fight":{"status":"completed","winner":"red"}}]},
		{"id":2,"bracketNumber":2,"title":"-60kg","ageClass":"Junior",
		 "members":[{"name":"Cy","bracket":2,"position":1}]}
	]}}`

func apiServing(t *testing.T, published string) *client.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprintf(w, eventJSON, published)
	}))
	t.Cleanup(srv.Close)
	return client.New(srv.URL, srv.Client())
}

func TestShowBrackets_Public(t *testing.T) {
	api := apiServing(t, "true")
	var out bytes.Buffer

	require.NoError(t, showBrackets(context.Background(), api, &out, 1, brackets.SitePublic, ""))
	assert.Contains(t, out.String(), "Bracket 1 - -71kg")
	assert.Contains(t, out.String(), "Bracket 2 - -60kg")
	assert.Contains(t, out.String(), "[1] Ann")
}

func TestShowBrackets_AdminListsParticipantsFirst(t *testing.T) {
	api := apiServing(t, "true")
	var out bytes.Buffer

	require.NoError(t, showBrackets(context.Background(), api, &out, 1, brackets.SiteAdmin, ""))
	assert.Contains(t, out.String(), "Spring Open: 3 participants")
	assert.Contains(t, out.String(), "(fighter)")
}

func TestShowBrackets_TournamentUnpublished(t *testing.T) {
	api := apiServing(t, "false")
	var out bytes.Buffer

	require.NoError(t, showBrackets(context.Background(), api, &out, 1, brackets.SiteTournament, ""))
	assert.Equal(t, brackets.MessageBracketsUnavailable+"\n", out.String())
}

func TestShowBrackets_TournamentAgeClass(t *testing.T) {
	api := apiServing(t, "true")
	var out bytes.Buffer

	require.NoError(t, showBrackets(context.Background(), api, &out, 1, brackets.SiteTournament, "Junior"))
	assert.Contains(t, out.String(), "Bracket 2")
	assert.NotContains(t, out.String(), "Bracket 1")

	out.Reset()
	require.NoError(t, showBrackets(context.Background(), api, &out, 1, brackets.SiteTournament, "Masters"))
	assert.Equal(t, brackets.MessageNoBrackets+"\n", out.String())
}

func TestShowFightCard(t *testing.T) {
	api := apiServing(t, "true")
	var out bytes.Buffer

	require.NoError(t, showFightCard(context.Background(), api, &out, 1))
	assert.Contains(t, out.String(), "1 -71kg")
	assert.Contains(t, out.String(), "completed - RED wins")
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "0.05", formatCents(5))
	assert.Equal(t, "345.50", formatCents(34550))
	assert.Equal(t, "-1.00", formatCents(-100))
}
