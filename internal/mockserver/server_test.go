package mockserver

import (
	"context"
	"math/rand"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"prospectsheet/internal/dispatch"
	"prospectsheet/internal/model"
	"prospectsheet/internal/nocodb"
)

func start(t *testing.T, seed []model.Record) (*Server, *nocodb.Client, string) {
	t.Helper()
	s := New(seed, Options{Token: "tok"})
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	c := nocodb.NewClient(nocodb.Options{
		BaseURL:    srv.URL + "/api/v2/tables/tbl1/records",
		Token:      "tok",
		PageSize:   4,
		HTTPClient: srv.Client(),
		Logger:     zap.NewNop(),
	})
	return s, c, srv.URL
}

func TestGenerateIsDeterministic(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	a := Generate(5, rand.New(rand.NewSource(7)), now)
	b := Generate(5, rand.New(rand.NewSource(7)), now)
	require.Len(t, a, 5)
	assert.Equal(t, a, b)
	for i, r := range a {
		row := model.MapRemoteToRow(r)
		assert.Equal(t, i+1, r["Id"])
		assert.NotEmpty(t, row.SpreadsheetID)
		assert.Contains(t, row.Sheet, row.SpreadsheetID)
	}
}

func TestClientRoundTrip(t *testing.T) {
	seed := Generate(10, rand.New(rand.NewSource(1)), time.Now())
	s, c, _ := start(t, seed)
	ctx := context.Background()

	recs, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 10, "list follows pages of 4")

	created, err := c.Create(ctx, model.Payload{"sdr": "Nora", "client": "ACME"})
	require.NoError(t, err)
	id, ok := created.RecordID()
	require.True(t, ok)
	assert.Equal(t, "11", id)

	_, err = c.Update(ctx, "3", model.Payload{"sdr": "Zoe", "margen_min": 15.0})
	require.NoError(t, err)

	all := s.Records()
	require.Len(t, all, 11)
	assert.Equal(t, "Zoe", all[2]["sdr"])
	assert.Equal(t, "Nora", all[10]["sdr"])
}

func TestUpdateUnknownRecord(t *testing.T) {
	_, c, _ := start(t, Generate(2, rand.New(rand.NewSource(1)), time.Now()))
	_, err := c.Update(context.Background(), "99", model.Payload{"sdr": "x"})
	var we *nocodb.RemoteWriteError
	require.ErrorAs(t, err, &we)
	assert.Equal(t, 404, we.Status)
}

func TestRejectsWrongToken(t *testing.T) {
	s := New(nil, Options{Token: "tok"})
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	c := nocodb.NewClient(nocodb.Options{BaseURL: srv.URL + "/api/v2/tables/t/records", Token: "nope", HTTPClient: srv.Client(), Logger: zap.NewNop()})
	_, err := c.List(context.Background())
	var re *nocodb.RemoteReadError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, 401, re.Status)
}

func TestWebhookRecordsAndFails(t *testing.T) {
	s, _, base := start(t, nil)
	s.FailWebhook("bad")
	wh := dispatch.NewWebhook(base+WebhookPath, nil, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, wh.Trigger(ctx, "good"))
	err := wh.Trigger(ctx, "bad")
	var he *dispatch.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, 500, he.Status)
	assert.Equal(t, []string{"good", "bad"}, s.Triggered())
}
