package gsheets

import (
	"context"
	"fmt"
	"log"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Client wraps the Sheets API for one master spreadsheet. All entity tabs
// live in that spreadsheet; row 1 of every tab is a header.
type Client struct {
	svc           *sheets.Service
	spreadsheetID string
}

// NewClient creates a Sheets client from a service account credentials file.
func NewClient(ctx context.Context, credentialsFile, spreadsheetID string) (*Client, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("SPREADSHEET_ID is empty")
	}

	svc, err := sheets.NewService(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Client{svc: svc, spreadsheetID: spreadsheetID}, nil
}

// SpreadsheetID returns the id of the master spreadsheet.
func (c *Client) SpreadsheetID() string {
	return c.spreadsheetID
}

// ReadAll returns every data row of a tab as strings, header excluded.
func (c *Client) ReadAll(ctx context.Context, sheetName string) ([][]string, error) {
	readRange := fmt.Sprintf("%s!A:Z", sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, readRange).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheetName, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for i, raw := range resp.Values {
		if i == 0 {
			continue // header
		}
		rows = append(rows, toStrings(raw))
	}
	return rows, nil
}

// Append adds a row at the bottom of a tab.
func (c *Client) Append(ctx context.Context, sheetName string, row []string) error {
	appendRange := fmt.Sprintf("%s!A:Z", sheetName)
	vr := &sheets.ValueRange{Values: [][]interface{}{toValues(row)}}

	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, appendRange, vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to append to sheet %s: %w", sheetName, err)
	}
	return nil
}

// findRowNumber scans column A for id and returns the 1-based row number.
func (c *Client) findRowNumber(ctx context.Context, sheetName, id string) (int, bool, error) {
	idRange := fmt.Sprintf("%s!A:A", sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, idRange).
		Context(ctx).Do()
	if err != nil {
		return 0, false, fmt.Errorf("failed to scan ids of sheet %s: %w", sheetName, err)
	}

	for i, raw := range resp.Values {
		if len(raw) > 0 && fmt.Sprint(raw[0]) == id {
			return i + 1, true, nil
		}
	}
	return 0, false, nil
}

// UpdateByID overwrites the row whose column A equals id. Returns false when
// the id is not present in the tab; the caller decides whether to append.
func (c *Client) UpdateByID(ctx context.Context, sheetName, id string, row []string) (bool, error) {
	rowNum, found, err := c.findRowNumber(ctx, sheetName, id)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}

	writeRange := fmt.Sprintf("%s!A%d:Z%d", sheetName, rowNum, rowNum)
	vr := &sheets.ValueRange{Values: [][]interface{}{toValues(row)}}

	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, writeRange, vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return false, fmt.Errorf("failed to update row %d of sheet %s: %w", rowNum, sheetName, err)
	}
	return true, nil
}

// ReplaceAll clears the tab body and rewrites it from scratch. Used by the
// full-refresh recovery mode; the header row is left untouched.
func (c *Client) ReplaceAll(ctx context.Context, sheetName string, rows [][]string) error {
	clearRange := fmt.Sprintf("%s!A2:Z10000", sheetName)
	_, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, clearRange,
		&sheets.ClearValuesRequest{}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to clear sheet %s: %w", sheetName, err)
	}

	if len(rows) == 0 {
		log.Printf("🧹 Sheet %s cleared, nothing to write", sheetName)
		return nil
	}

	values := make([][]interface{}, len(rows))
	for i, r := range rows {
		values[i] = toValues(r)
	}
	writeRange := fmt.Sprintf("%s!A2:Z%d", sheetName, len(rows)+1)
	vr := &sheets.ValueRange{Values: values}

	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, writeRange, vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to rewrite sheet %s: %w", sheetName, err)
	}
	return nil
}

// Ping verifies the spreadsheet is reachable with the current credentials.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("spreadsheetId").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("spreadsheet unreachable: %w", err)
	}
	return nil
}

func toValues(row []string) []interface{} {
	out := make([]interface{}, len(row))
	for i, v := range row {
		out[i] = v
	}
	return out
}

func toStrings(raw []interface{}) []string {
	out := make([]string, len(raw))
	for i, v := range raw {
		out[i] = fmt.Sprint(v)
	}
	return out
}
