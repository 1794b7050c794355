// Package sheets pulls the participant survey out of Google Sheets so the
// pipeline can run against the live worksheet instead of a manual CSV export.
package sheets

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"nwcli/internal/config"
)

// ErrNotConfigured is returned when no spreadsheet ID is set.
var ErrNotConfigured = errors.New("google sheets integration not configured")

// Client reads worksheet data through the Sheets API using a service account.
type Client struct {
	service       *sheets.Service
	spreadsheetID string
	worksheet     string
	logger        *slog.Logger
}

// NewClient builds a Sheets client from service-account credentials on disk.
func NewClient(ctx context.Context, credentialsPath string, cfg config.SheetsConfig, logger *slog.Logger) (*Client, error) {
	if cfg.SpreadsheetID == "" {
		return nil, ErrNotConfigured
	}
	if logger == nil {
		logger = slog.Default()
	}

	credentialsJSON, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials: %w", err)
	}

	service, err := sheets.NewService(ctx, option.WithCredentialsJSON(credentialsJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Client{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		worksheet:     cfg.WorksheetName,
		logger:        logger.With(slog.String("component", "sheets_client")),
	}, nil
}

// FetchRows reads the whole worksheet as string records.
func (c *Client) FetchRows(ctx context.Context) ([][]string, error) {
	resp, err := c.service.Spreadsheets.Values.Get(c.spreadsheetID, c.worksheet).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read worksheet %q: %w", c.worksheet, err)
	}
	if len(resp.Values) == 0 {
		return nil, fmt.Errorf("worksheet %q is empty", c.worksheet)
	}

	records := valuesToRecords(resp.Values)

	c.logger.InfoContext(ctx, "fetched worksheet",
		slog.String("worksheet", c.worksheet),
		slog.Int("rows", len(records)))

	return records, nil
}

// DownloadParticipants fetches the survey worksheet and writes it to destPath
// as plain CSV, where the file watcher and parser pick it up.
func (c *Client) DownloadParticipants(ctx context.Context, destPath string) error {
	records, err := c.FetchRows(ctx)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return err
	}
	return writeRecords(destPath, records)
}

// valuesToRecords flattens the API's interface{} cells into strings. The
// Sheets API returns numbers as float64; format them without the exponent
// notation strconv would otherwise pick for large balances.
func valuesToRecords(values [][]interface{}) [][]string {
	records := make([][]string, len(values))
	width := 0
	for _, row := range values {
		if len(row) > width {
			width = len(row)
		}
	}
	for i, row := range values {
		record := make([]string, width) // rows come back ragged; pad to header width
		for j, cell := range row {
			record[j] = cellString(cell)
		}
		records[i] = record
	}
	return records
}

func cellString(cell interface{}) string {
	switch v := cell.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func writeRecords(path string, records [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
