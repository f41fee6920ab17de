package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/Veraticus/salesflow/internal/common"
	"github.com/Veraticus/salesflow/internal/storage"
	"github.com/Veraticus/salesflow/internal/testutil/salesdata"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogJSON = `{"products":[
	{"id":101,"title":"Laptop Pro","category":"laptops","brand":"Acme","price":999.5,"rating":4.5},
	{"id":102,"title":"Wireless Mouse","category":"accessories","brand":"Clicky","price":19.99,"rating":4.1}
]}`

type testEnv struct {
	dir       string
	input     string
	outputDir string
	dbPath    string
	config    string
	requests  *atomic.Int32
}

// newTestEnv writes a sales log and a config file pointing every path and
// the catalog URL into a temp dir.
func newTestEnv(t *testing.T, catalogStatus int) *testEnv {
	t.Helper()

	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		if catalogStatus != http.StatusOK {
			w.WriteHeader(catalogStatus)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(catalogJSON))
	}))
	t.Cleanup(server.Close)

	dir := t.TempDir()
	env := &testEnv{
		dir:       dir,
		input:     filepath.Join(dir, "sales_data.txt"),
		outputDir: filepath.Join(dir, "output"),
		dbPath:    filepath.Join(dir, "salesflow.db"),
		config:    filepath.Join(dir, "config.yaml"),
		requests:  &requests,
	}
	require.NoError(t, os.WriteFile(env.input, []byte(salesdata.FixtureMixed.Content()), 0600))

	config := fmt.Sprintf(`
input:
  path: %q
output:
  dir: %q
catalog:
  url: %q
  timeout: 2s
  retry_attempts: 1
database:
  path: %q
logging:
  level: error
`, env.input, env.outputDir, server.URL, env.dbPath)
	require.NoError(t, os.WriteFile(env.config, []byte(config), 0600))

	return env
}

func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)

	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", e.config}, args...))

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestVersion(t *testing.T) {
	env := newTestEnv(t, http.StatusOK)

	out, err := env.run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "salesflow version dev\n", out)
}

func TestAnalyze_WritesReportsAndRecordsRun(t *testing.T) {
	env := newTestEnv(t, http.StatusOK)

	out, err := env.run(t, "analyze", "--no-progress", "--xlsx", "sales.xlsx")
	require.NoError(t, err)

	assert.Contains(t, out, "Read 7 records (1 malformed lines discarded)")
	assert.Contains(t, out, "Valid: 4 | Invalid: 2")
	assert.Contains(t, out, "Analyzed 4 transactions, revenue ₹138,100.00")
	assert.Contains(t, out, "Enriched 2/4 transactions (50.0%) from remote catalog")
	assert.EqualValues(t, 1, env.requests.Load())

	for _, name := range []string{"sales_report.txt", "enriched_sales_data.txt", "sales.xlsx"} {
		path := filepath.Join(env.outputDir, name)
		assert.FileExists(t, path)
		assert.Contains(t, out, path)
	}

	reportText, err := os.ReadFile(filepath.Join(env.outputDir, "sales_report.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(reportText), "SALES ANALYTICS REPORT")

	// The remote catalog is cached for later offline runs.
	out, err = env.run(t, "catalog", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Laptop Pro")
	assert.Contains(t, out, "Wireless Mouse")

	out, err = env.run(t, "runs", "list")
	require.NoError(t, err)
	assert.Contains(t, out, env.input)
	assert.Contains(t, out, "138,100.00")
}

func TestAnalyze_FilterFlags(t *testing.T) {
	env := newTestEnv(t, http.StatusOK)

	out, err := env.run(t, "analyze", "--no-progress", "--region", "North", "--min-amount", "1000")
	require.NoError(t, err)
	assert.Contains(t, out, "Filtered out 2 by region and 0 by amount")
	assert.Contains(t, out, "Analyzed 2 transactions, revenue ₹135,000.00")
}

func TestAnalyze_FallsBackToCacheWhenCatalogFails(t *testing.T) {
	env := newTestEnv(t, http.StatusOK)
	_, err := env.run(t, "catalog", "sync")
	require.NoError(t, err)

	failing := newTestEnv(t, http.StatusBadGateway)
	failing.dbPath = env.dbPath
	config, err := os.ReadFile(failing.config)
	require.NoError(t, err)
	config = []byte(strings.Replace(string(config), filepath.Join(failing.dir, "salesflow.db"), env.dbPath, 1))
	require.NoError(t, os.WriteFile(failing.config, config, 0600))

	out, err := failing.run(t, "analyze", "--no-progress")
	require.NoError(t, err)
	assert.Contains(t, out, "Enriched 2/4 transactions (50.0%) from cache catalog")
}

func TestAnalyze_OfflineWithoutCache(t *testing.T) {
	env := newTestEnv(t, http.StatusOK)

	out, err := env.run(t, "analyze", "--no-progress", "--offline")
	require.NoError(t, err)
	assert.Contains(t, out, "Enriched 0/4 transactions (0.0%) from none catalog")
	assert.Zero(t, env.requests.Load())
}

func TestAnalyze_Errors(t *testing.T) {
	tests := []struct {
		name        string
		errContains string
		sentinel    error
		args        []string
	}{
		{
			name:        "missing file",
			args:        []string{"analyze", "--no-progress", "does-not-exist.txt"},
			sentinel:    common.ErrNoInput,
			errContains: "cannot read sales log does-not-exist.txt",
		},
		{
			name:        "max below min",
			args:        []string{"analyze", "--no-progress", "--min-amount", "500", "--max-amount", "100"},
			sentinel:    common.ErrInvalidConfig,
			errContains: "MaxAmount must not be less than MinAmount",
		},
		{
			name:        "negative bound",
			args:        []string{"analyze", "--no-progress", "--min-amount=-1"},
			sentinel:    common.ErrInvalidConfig,
			errContains: "MinAmount must be greater than or equal to 0",
		},
		{
			name:        "too many arguments",
			args:        []string{"analyze", "a.txt", "b.txt"},
			errContains: "accepts at most 1 arg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, http.StatusOK)

			_, err := env.run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
			if tt.sentinel != nil {
				assert.True(t, errors.Is(err, tt.sentinel), "expected %v, got %v", tt.sentinel, err)
			}
		})
	}
}

func TestRunsShow(t *testing.T) {
	env := newTestEnv(t, http.StatusOK)
	_, err := env.run(t, "analyze", "--no-progress", "--region", "South")
	require.NoError(t, err)

	store, err := storage.Open(context.Background(), env.dbPath)
	require.NoError(t, err)
	runs, err := store.ListRuns(context.Background(), 0)
	require.NoError(t, err)
	require.NoError(t, store.Close())
	require.Len(t, runs, 1)
	id := runs[0].ID

	out, err := env.run(t, "runs", "show", id)
	require.NoError(t, err)
	assert.Contains(t, out, id)
	assert.Contains(t, out, "Region filter:   South")
	assert.Contains(t, out, "Analyzed:        2")

	out, err = env.run(t, "runs", "show", id[:8])
	require.NoError(t, err)
	assert.Contains(t, out, id)

	_, err = env.run(t, "runs", "show", "zzzz")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestCatalogSync(t *testing.T) {
	env := newTestEnv(t, http.StatusOK)

	out, err := env.run(t, "catalog", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "catalog sync")

	out, err = env.run(t, "catalog", "sync")
	require.NoError(t, err)
	assert.Contains(t, out, "Cached 2 products")

	failing := newTestEnv(t, http.StatusNotFound)
	_, err = failing.run(t, "catalog", "sync")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrCatalogUnavailable))
}

func TestMigrate(t *testing.T) {
	env := newTestEnv(t, http.StatusOK)

	out, err := env.run(t, "migrate", "--status")
	require.NoError(t, err)
	assert.Contains(t, out, "Current version: 0")
	assert.Contains(t, out, fmt.Sprintf("Latest version:  %d", storage.ExpectedSchemaVersion))

	out, err = env.run(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, fmt.Sprintf("schema version %d", storage.ExpectedSchemaVersion))

	out, err = env.run(t, "migrate", "--status")
	require.NoError(t, err)
	assert.Contains(t, out, fmt.Sprintf("Current version: %d", storage.ExpectedSchemaVersion))
}
