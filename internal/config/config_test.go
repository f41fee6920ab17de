package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/salesflow/internal/common"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	v.SetEnvPrefix("SALESFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(newViper(t))
	require.NoError(t, err)

	assert.Equal(t, DefaultInputPath, cfg.Input.Path)
	assert.Equal(t, DefaultEncodingFallback, cfg.Input.EncodingFallback)
	assert.Equal(t, 5, cfg.Report.TopN)
	assert.Equal(t, 10, cfg.Report.LowThreshold)
	assert.Equal(t, "₹", cfg.Report.Currency)
	assert.Equal(t, "output", cfg.Output.Dir)
	assert.Equal(t, DefaultReportFile, cfg.Output.ReportFile)
	assert.Equal(t, DefaultEnrichedFile, cfg.Output.EnrichedFile)
	assert.Empty(t, cfg.Output.XLSXFile)
	assert.True(t, cfg.Catalog.Enabled)
	assert.Equal(t, DefaultCatalogTimeout, cfg.Catalog.Timeout)
	assert.Equal(t, 2, cfg.Catalog.RetryAttempts)
	assert.False(t, strings.HasPrefix(cfg.Database.Path, "~"), "database path should be expanded")
	assert.Nil(t, cfg.Filter.MinAmount)
	assert.Nil(t, cfg.Filter.MaxAmount)
	assert.Empty(t, cfg.Filter.Region)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
filter:
  region: North
  min_amount: 100
  max_amount: 5000
report:
  top_n: 3
catalog:
  enabled: false
  timeout: 2s
output:
  xlsx_file: sales.xlsx
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	v := newViper(t)
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "North", cfg.Filter.Region)
	require.NotNil(t, cfg.Filter.MinAmount)
	require.NotNil(t, cfg.Filter.MaxAmount)
	assert.Equal(t, 100.0, *cfg.Filter.MinAmount)
	assert.Equal(t, 5000.0, *cfg.Filter.MaxAmount)
	assert.Equal(t, 3, cfg.Report.TopN)
	assert.False(t, cfg.Catalog.Enabled)
	assert.Equal(t, 2*time.Second, cfg.Catalog.Timeout)
	assert.Equal(t, "sales.xlsx", cfg.Output.XLSXFile)

	filter := cfg.ValidationFilter()
	assert.Equal(t, "North", filter.Region)
	assert.Equal(t, cfg.Filter.MinAmount, filter.MinAmount)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("SALESFLOW_FILTER_MIN_AMOUNT", "250.5")
	t.Setenv("SALESFLOW_REPORT_LOW_THRESHOLD", "4")

	cfg, err := Load(newViper(t))
	require.NoError(t, err)

	require.NotNil(t, cfg.Filter.MinAmount)
	assert.Equal(t, 250.5, *cfg.Filter.MinAmount)
	assert.Nil(t, cfg.Filter.MaxAmount)
	assert.Equal(t, 4, cfg.Report.LowThreshold)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		set     map[string]any
		name    string
		wantMsg string
	}{
		{
			name:    "max below min",
			set:     map[string]any{"filter.min_amount": 500.0, "filter.max_amount": 100.0},
			wantMsg: "MaxAmount must not be less than MinAmount",
		},
		{
			name:    "negative min",
			set:     map[string]any{"filter.min_amount": -1.0},
			wantMsg: "MinAmount must be greater than or equal to 0",
		},
		{
			name:    "zero top n",
			set:     map[string]any{"report.top_n": 0},
			wantMsg: "TopN must be greater than or equal to 1",
		},
		{
			name:    "bad log level",
			set:     map[string]any{"logging.level": "loud"},
			wantMsg: "Level must be one of",
		},
		{
			name:    "report file with directory",
			set:     map[string]any{"output.report_file": "../escape.txt"},
			wantMsg: "ReportFile must be a plain file name",
		},
		{
			name:    "zero timeout",
			set:     map[string]any{"catalog.timeout": "0s"},
			wantMsg: "Timeout must be greater than 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newViper(t)
			for k, val := range tt.set {
				v.Set(k, val)
			}

			_, err := Load(v)
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("SALESFLOW_TEST_DIR", "/srv/data")

	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "~", want: home},
		{in: "~/sales.db", want: filepath.Join(home, "sales.db")},
		{in: "$SALESFLOW_TEST_DIR/sales.db", want: "/srv/data/sales.db"},
		{in: "/abs/path", want: "/abs/path"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}

func TestSheetsWriterConfig(t *testing.T) {
	t.Setenv("GOOGLE_SHEETS_CLIENT_ID", "")
	t.Setenv("GOOGLE_SHEETS_CLIENT_SECRET", "")
	t.Setenv("GOOGLE_SHEETS_REFRESH_TOKEN", "")
	t.Setenv("GOOGLE_SHEETS_SPREADSHEET_ID", "env-sheet")
	t.Setenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH", "")

	cfg, err := Load(newViper(t))
	require.NoError(t, err)

	_, err = cfg.SheetsWriterConfig()
	require.Error(t, err, "no credentials configured")

	cfg.Sheets.ServiceAccountPath = "/keys/sa.json"
	sheetsCfg, err := cfg.SheetsWriterConfig()
	require.NoError(t, err)
	assert.Equal(t, "/keys/sa.json", sheetsCfg.ServiceAccountPath)
	assert.Equal(t, "env-sheet", sheetsCfg.SpreadsheetID)
	assert.Equal(t, "Sales Analytics", sheetsCfg.SpreadsheetName)
	assert.Equal(t, "₹", sheetsCfg.Currency)
}
