package config

import (
	"os"

	"github.com/Veraticus/salesflow/internal/sheets"
)

// SheetsWriterConfig builds the Sheets writer configuration.
// Values from the config file or SALESFLOW_SHEETS_* take precedence over
// the GOOGLE_SHEETS_* environment variables, which in turn override defaults.
func (c *Config) SheetsWriterConfig() (*sheets.Config, error) {
	cfg := sheets.DefaultConfig()
	s := c.Sheets

	cfg.ServiceAccountPath = firstNonEmpty(s.ServiceAccountPath, ExpandPath(os.Getenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH")))
	cfg.ClientID = firstNonEmpty(s.ClientID, os.Getenv("GOOGLE_SHEETS_CLIENT_ID"))
	cfg.ClientSecret = firstNonEmpty(s.ClientSecret, os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET"))
	cfg.RefreshToken = firstNonEmpty(s.RefreshToken, os.Getenv("GOOGLE_SHEETS_REFRESH_TOKEN"))
	cfg.SpreadsheetID = firstNonEmpty(s.SpreadsheetID, os.Getenv("GOOGLE_SHEETS_SPREADSHEET_ID"))
	cfg.SpreadsheetName = firstNonEmpty(s.SpreadsheetName, os.Getenv("GOOGLE_SHEETS_SPREADSHEET_NAME"), cfg.SpreadsheetName)
	cfg.Currency = firstNonEmpty(c.Report.Currency, cfg.Currency)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
