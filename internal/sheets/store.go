package sheets

import (
	"context"

	"github.com/cockroachdb/errors"
	sheetsv4 "google.golang.org/api/sheets/v4"

	"github.com/tommasoguidi/doctori.github.io/internal/util"
)

// Sheet names of the bound spreadsheet. Header column order and the
// documented row windows are the contract every write relies on.
const (
	SheetPagamenti  = "pagamenti"
	SheetCalendario = "calendario"
	SheetTesserati  = "tesserati"
	SheetConvocati  = "convocati"
)

// ErrRangeFull is returned by FindFirstEmptyRow when every cell of the
// bounded range is occupied.
var ErrRangeFull = errors.New("nessuna riga libera nel range")

// RangeWrite is one rectangular write of an export plan.
type RangeWrite struct {
	Range  string
	Values [][]any
}

// ReadRange reads a rectangular range. Numbers come back as float64 and
// date cells as spreadsheet serials, so the read model can type-check
// cell values instead of parsing display strings.
func (c *Client) ReadRange(ctx context.Context, sheet, a1 string) ([][]any, error) {
	resp, err := c.srv.Spreadsheets.Values.Get(c.spreadsheetID, sheet+"!"+a1).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("SERIAL_NUMBER").
		Context(ctx).
		Do()
	if err != nil {
		return nil, errors.Wrapf(err, "lettura %s!%s", sheet, a1)
	}
	return resp.Values, nil
}

// ReadRanges reads several ranges of one sheet in a single round trip,
// returned in request order. Ranges the sheet answers empty come back nil.
func (c *Client) ReadRanges(ctx context.Context, sheet string, a1s ...string) ([][][]any, error) {
	call := c.srv.Spreadsheets.Values.BatchGet(c.spreadsheetID).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("SERIAL_NUMBER").
		Context(ctx)
	for _, a1 := range a1s {
		call = call.Ranges(sheet + "!" + a1)
	}
	resp, err := call.Do()
	if err != nil {
		return nil, errors.Wrapf(err, "lettura multipla %s", sheet)
	}
	out := make([][][]any, len(a1s))
	for i, vr := range resp.ValueRanges {
		if i < len(out) {
			out[i] = vr.Values
		}
	}
	return out, nil
}

// UpdateCell writes one value. USER_ENTERED keeps the cell typing the
// sheet expects: booleans stay checkboxes, dd/mm/yyyy strings become dates.
func (c *Client) UpdateCell(ctx context.Context, sheet, a1 string, value any) error {
	return c.UpdateRange(ctx, sheet, a1, [][]any{{value}})
}

// UpdateRange writes a rectangular block of values.
func (c *Client) UpdateRange(ctx context.Context, sheet, a1 string, values [][]any) error {
	vr := &sheetsv4.ValueRange{Values: values}
	_, err := c.srv.Spreadsheets.Values.Update(c.spreadsheetID, sheet+"!"+a1, vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return errors.Wrapf(err, "scrittura %s!%s", sheet, a1)
	}
	return nil
}

// SetCells writes the same value into a list of scattered cells of one
// sheet in a single batch call.
func (c *Client) SetCells(ctx context.Context, sheet string, a1s []string, value any) error {
	if len(a1s) == 0 {
		return nil
	}
	data := make([]*sheetsv4.ValueRange, 0, len(a1s))
	for _, a1 := range a1s {
		data = append(data, &sheetsv4.ValueRange{
			Range:  sheet + "!" + a1,
			Values: [][]any{{value}},
		})
	}
	req := &sheetsv4.BatchUpdateValuesRequest{
		ValueInputOption: "USER_ENTERED",
		Data:             data,
	}
	_, err := c.srv.Spreadsheets.Values.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return errors.Wrapf(err, "scrittura batch %s", sheet)
	}
	return nil
}

// ApplyPlan executes an ordered list of range writes against the first
// sheet of an arbitrary spreadsheet (the freshly copied distinta file).
func (c *Client) ApplyPlan(ctx context.Context, spreadsheetID string, plan []RangeWrite) error {
	data := make([]*sheetsv4.ValueRange, 0, len(plan))
	for _, w := range plan {
		data = append(data, &sheetsv4.ValueRange{Range: w.Range, Values: w.Values})
	}
	req := &sheetsv4.BatchUpdateValuesRequest{
		ValueInputOption: "USER_ENTERED",
		Data:             data,
	}
	_, err := c.srv.Spreadsheets.Values.BatchUpdate(spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return errors.Wrap(err, "applicazione piano distinta")
	}
	return nil
}

// FindFirstEmptyRow scans a single-column bounded range and returns the
// 1-based sheet row of its first empty cell. Reads live state on purpose:
// this must never be served from cache.
func (c *Client) FindFirstEmptyRow(ctx context.Context, sheet, a1 string) (int, error) {
	values, err := c.ReadRange(ctx, sheet, a1)
	if err != nil {
		return 0, err
	}
	_, startRow := RangeStart(a1)
	_, endRow := RangeStart(afterColon(a1))
	if endRow < startRow {
		endRow = startRow
	}
	for i := 0; i <= endRow-startRow; i++ {
		if i >= len(values) || len(values[i]) == 0 || util.CellString(values[i][0]) == "" {
			return startRow + i, nil
		}
	}
	return 0, errors.Wrapf(ErrRangeFull, "%s!%s", sheet, a1)
}

func afterColon(a1 string) string {
	for i := 0; i < len(a1); i++ {
		if a1[i] == ':' {
			return a1[i+1:]
		}
	}
	return a1
}
