package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prospectsheet/internal/audit"
	"prospectsheet/internal/util/logx"
)

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

func tableServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/tables/tbl1/records", r.URL.Path)
		assert.Equal(t, "tok", r.Header.Get("xc-token"))
		_, _ = io.WriteString(w, `{"list":[
			{"Id":1,"sdr":"Ana","pais":"AR","spreadsheet_id":"s1"},
			{"Id":2,"sdr":"Luis","pais":"CL","spreadsheet_id":"s2"},
			{"Id":3,"sdr":"Bea","pais":"AR","spreadsheet_id":""}
		],"pageInfo":{"isLastPage":true}}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func baseArgs(srv *httptest.Server, auditPath string) []string {
	return []string{
		"--base-url", srv.URL + "/api/v2/tables/tbl1/records",
		"--token", "tok",
		"--audit-path", auditPath,
	}
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := runCLI(t, []string{"version"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(stdout), "prospectsheet "))
}

func TestExportCSVFilteredAndSorted(t *testing.T) {
	srv := tableServer(t)
	out := filepath.Join(t.TempDir(), "out.csv")
	args := append(baseArgs(srv, ""), "export", "--out", out, "--query", "ar", "--sort", "sdr:desc")
	stdout, _, err := runCLI(t, args)
	require.NoError(t, err)
	assert.Contains(t, string(stdout), "exported 2 rows to "+out)

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "SDR,País"))
	assert.True(t, strings.HasPrefix(lines[1], "Bea,AR"))
	assert.True(t, strings.HasPrefix(lines[2], "Ana,AR"))
}

func TestExportJSON(t *testing.T) {
	srv := tableServer(t)
	out := filepath.Join(t.TempDir(), "out.ndjson")
	args := append(baseArgs(srv, ""), "export", "--format", "json", "--out", out, "--where", `pais == "CL"`)
	_, _, err := runCLI(t, args)
	require.NoError(t, err)

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(b), &got))
	assert.Equal(t, "Luis", got["sdr"])
	assert.Equal(t, "2", got["id"])
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	srv := tableServer(t)
	_, _, err := runCLI(t, append(baseArgs(srv, ""), "export", "--format", "pdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestExportNeedsConfig(t *testing.T) {
	_, _, err := runCLI(t, []string{"--base-url", "", "--token", "", "export"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base url is required")
}

func TestDispatchByQueryPacesAndJournals(t *testing.T) {
	srv := tableServer(t)
	var (
		mu   sync.Mutex
		seen []string
	)
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		mu.Lock()
		seen = append(seen, body["spreadsheet_id"])
		mu.Unlock()
		if body["spreadsheet_id"] == "s1" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(hook.Close)

	journal := filepath.Join(t.TempDir(), "audit.ndjson")
	args := append(baseArgs(srv, journal),
		"--webhook-url", hook.URL, "--dispatch-interval", "1ms",
		"dispatch", "--where", `pais != ""`)
	start := time.Now()
	stdout, _, err := runCLI(t, args)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 dispatches failed")
	assert.GreaterOrEqual(t, time.Since(start), 2*time.Millisecond)

	// The row without a spreadsheet id is skipped
	assert.Equal(t, []string{"s1", "s2"}, seen)
	assert.Contains(t, string(stdout), "[1/2] Error al iniciar (s1): HTTP 500")
	assert.Contains(t, string(stdout), "[2/2] Inicio manual enviado (s2)")

	entries, err := audit.ReadAll(journal)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.False(t, entries[0].OK())
	assert.True(t, entries[1].OK())
}

func TestDispatchReportsJournalWriteFailure(t *testing.T) {
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(hook.Close)

	// A directory cannot be opened for appending.
	dir := t.TempDir()
	logx.Reset()
	stdout, _, err := runCLI(t, []string{
		"--audit-path", dir,
		"--webhook-url", hook.URL, "--dispatch-interval", "1ms",
		"dispatch", "--id", "s7",
	})
	require.NoError(t, err)
	assert.Contains(t, string(stdout), "[1/1] Inicio manual enviado (s7)")
	assert.Contains(t, logx.Dump(), "audit: ")
}

func TestDispatchNeedsWebhook(t *testing.T) {
	_, _, err := runCLI(t, []string{"--webhook-url", "", "dispatch", "--id", "s1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "webhook url is required")
}

func TestAuditPrintsJournal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.ndjson")
	j := audit.Open(path)
	require.NoError(t, j.Append(audit.Entry{Kind: audit.KindCommit, RecordID: "7", Key: "sdr", Value: "Ana"}))
	require.NoError(t, j.Append(audit.Entry{Kind: audit.KindDispatch, SpreadsheetID: "s9", Error: "HTTP 500"}))

	stdout, _, err := runCLI(t, []string{"--audit-path", path, "audit"})
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(stdout)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `sdr="Ana"`)
	assert.Contains(t, lines[0], "ok")
	assert.Contains(t, lines[1], "s9")
	assert.Contains(t, lines[1], "error: HTTP 500")

	stdout, _, err = runCLI(t, []string{"--audit-path", path, "audit", "-n", "1"})
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(stdout), "\n"))
}
