package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// statusPolls counts processing-status requests served by fakeBackend.
var statusPolls atomic.Int32

func fakeBackend(t *testing.T, online bool) *httptest.Server {
	t.Helper()
	statusPolls.Store(0)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.HasPrefix(r.URL.Path, "/processing_status/") {
			statusPolls.Add(1)
			_, _ = w.Write([]byte(`{"document_id":"doc-1","fast_track_completed":true,"vector_storage_ready":true,"qa_system_ready":true}`))
			return
		}
		switch r.URL.Path {
		case "/health":
			if !online {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(`{"detail":"down"}`))
				return
			}
			_, _ = w.Write([]byte(`{"status":"healthy","services":{"direct_processing":{"status":"healthy"},"vector_processing":{"status":"healthy"},"rag_qa":{"status":"healthy"}}}`))
		case "/rag_health":
			_, _ = w.Write([]byte(`{"status":"healthy","capabilities":{"question_answering":true}}`))
		case "/process_direct":
			_, _ = w.Write([]byte(`{
				"status": "success",
				"document_id": "doc-1",
				"components": {
					"summary": {"overview": "Mutual NDA", "document_type": "NDA", "main_parties": ["Acme", "Globex"]},
					"risk_assessment": {"overall_risk_level": "high", "risk_score": 8.5, "red_flags": ["Unlimited liability"]}
				}
			}`))
		case "/ask_question":
			_, _ = w.Write([]byte(`{"status":"success","answer":"Either party may terminate with 30 days notice.","follow_up_questions":["Is notice written?"]}`))
		case "/suggested_questions":
			_, _ = w.Write([]byte(`{"status":"success","suggested_questions":["Who are the parties?","When does it expire?"]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// run executes rootCmd with a clean environment and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true
	for _, key := range []string{"DB_HOST", "MINIO_ENDPOINT", "LOG_FILE"} {
		t.Setenv(key, "")
	}
	apiURL, verbose, reportOut, waitReady, documentID = "", false, "", false, ""

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.ExecuteContext(testContext(t))
	return stdout.String(), err
}

func findCommand(name string) *cobra.Command {
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == name {
			return cmd
		}
	}
	return nil
}

func TestCommands_Registered(t *testing.T) {
	for _, name := range []string{"health", "analyze", "ask", "suggest"} {
		cmd := findCommand(name)
		require.NotNil(t, cmd, "%s command not found in rootCmd", name)
		assert.NotEmpty(t, cmd.Short, "%s should have a short description", name)
	}

	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("api"))
	analyze := findCommand("analyze")
	assert.NotNil(t, analyze.Flags().Lookup("out"))
	assert.NotNil(t, analyze.Flags().Lookup("wait"))
	assert.NotNil(t, findCommand("ask").Flags().Lookup("document"))
	assert.Contains(t, analyze.Long, "--out report.pdf")
}

func TestHealth(t *testing.T) {
	srv := fakeBackend(t, true)

	out, err := run(t, "health", "--api", srv.URL)

	require.NoError(t, err)
	assert.Contains(t, out, "backend: online")
	assert.Contains(t, out, "question answering up")
}

func TestHealth_Offline(t *testing.T) {
	srv := fakeBackend(t, false)

	out, err := run(t, "health", "--api", srv.URL)

	require.Error(t, err)
	assert.Contains(t, out, "backend: offline")
	assert.Contains(t, out, "direct processing  down")
}

func TestAnalyze_WritesReport(t *testing.T) {
	srv := fakeBackend(t, true)
	dir := t.TempDir()
	src := filepath.Join(dir, "nda.pdf")
	require.NoError(t, os.WriteFile(src, []byte("%PDF-1.4"), 0o644))
	dst := filepath.Join(dir, "report.pdf")

	out, err := run(t, "analyze", src, "--api", srv.URL, "--out", dst)

	require.NoError(t, err)
	assert.Contains(t, out, "nda.pdf")
	assert.Contains(t, out, " HIGH RISK ")
	assert.Contains(t, out, "Mutual NDA")
	assert.Contains(t, out, "Unlimited liability")
	assert.Contains(t, out, "document id: doc-1")

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestAnalyze_WaitPollsOnce(t *testing.T) {
	srv := fakeBackend(t, true)
	t.Setenv("STATUS_POLL_DELAY", "0s")
	t.Setenv("STATUS_POLL_INTERVAL", "10ms")
	src := filepath.Join(t.TempDir(), "nda.pdf")
	require.NoError(t, os.WriteFile(src, []byte("%PDF-1.4"), 0o644))

	out, err := run(t, "analyze", src, "--api", srv.URL, "--wait")

	require.NoError(t, err)
	assert.Contains(t, out, "ready for questions")
	assert.Equal(t, int32(1), statusPolls.Load())
}

func TestAnalyze_MissingFile(t *testing.T) {
	srv := fakeBackend(t, true)

	_, err := run(t, "analyze", filepath.Join(t.TempDir(), "missing.pdf"), "--api", srv.URL)

	assert.Error(t, err)
}

func TestAnalyze_BackendUnreachable(t *testing.T) {
	srv := fakeBackend(t, true)
	url := srv.URL
	srv.Close()
	src := filepath.Join(t.TempDir(), "nda.pdf")
	require.NoError(t, os.WriteFile(src, []byte("%PDF-1.4"), 0o644))

	_, err := run(t, "analyze", src, "--api", url)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unable to reach the analysis service")
}

func TestAsk(t *testing.T) {
	srv := fakeBackend(t, true)

	out, err := run(t, "ask", "How", "can", "we", "terminate?", "--document", "doc-1", "--api", srv.URL)

	require.NoError(t, err)
	assert.Contains(t, out, "30 days notice")
	assert.Contains(t, out, "Is notice written?")
}

func TestSuggest(t *testing.T) {
	srv := fakeBackend(t, true)

	out, err := run(t, "suggest", "--api", srv.URL)

	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, []string{"1. Who are the parties?", "2. When does it expire?"}, lines)
}

func TestRiskBadge(t *testing.T) {
	color.NoColor = true
	assert.Equal(t, " LOW RISK ", riskBadge("LOW"))
	assert.Equal(t, " MEDIUM RISK ", riskBadge("MEDIUM"))
}
