package sheets

import (
	"context"
	"os"

	"github.com/cockroachdb/errors"
	drivev3 "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	sheetsv4 "google.golang.org/api/sheets/v4"
)

// Client is the tabular store adapter: rectangular range reads and writes
// on the bound spreadsheet, plus Drive file copies for the distinta
// template. The spreadsheet itself is externally owned.
type Client struct {
	srv           *sheetsv4.Service
	drive         *drivev3.Service
	spreadsheetID string
}

func New(ctx context.Context, serviceAccountJSONPath, spreadsheetID string) (*Client, error) {
	if _, err := os.Stat(serviceAccountJSONPath); err != nil {
		return nil, errors.Wrap(err, "service account json")
	}
	srv, err := sheetsv4.NewService(ctx,
		option.WithCredentialsFile(serviceAccountJSONPath),
		option.WithScopes(sheetsv4.SpreadsheetsScope, drivev3.DriveScope),
	)
	if err != nil {
		return nil, errors.Wrap(err, "sheets service")
	}
	drv, err := drivev3.NewService(ctx,
		option.WithCredentialsFile(serviceAccountJSONPath),
		option.WithScopes(drivev3.DriveScope),
	)
	if err != nil {
		return nil, errors.Wrap(err, "drive service")
	}
	return &Client{srv: srv, drive: drv, spreadsheetID: spreadsheetID}, nil
}

func (c *Client) SpreadsheetID() string { return c.spreadsheetID }
