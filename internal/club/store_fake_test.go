package club

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/tommasoguidi/doctori.github.io/internal/sheets"
	"github.com/tommasoguidi/doctori.github.io/internal/util"
)

// fakeStore is an in-memory Store: reads are canned per "sheet!range" key,
// writes are recorded for assertions.
type fakeStore struct {
	data map[string][][]any
	errs map[string]error

	cellWrites  map[string]any
	rangeWrites map[string][][]any
	setCalls    []fakeSetCall
	plans       []fakePlanCall
	copies      []string
	copyResult  sheets.CopiedFile
	copyErr     error
}

type fakeSetCall struct {
	sheet string
	cells []string
	value any
}

type fakePlanCall struct {
	spreadsheetID string
	plan          []sheets.RangeWrite
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		data:        map[string][][]any{},
		errs:        map[string]error{},
		cellWrites:  map[string]any{},
		rangeWrites: map[string][][]any{},
		copyResult:  sheets.CopiedFile{ID: "copy-id", URL: "https://drive/copy-id"},
	}
}

func key(sheet, a1 string) string { return sheet + "!" + a1 }

func (f *fakeStore) ReadRange(_ context.Context, sheet, a1 string) ([][]any, error) {
	k := key(sheet, a1)
	if err := f.errs[k]; err != nil {
		return nil, err
	}
	return f.data[k], nil
}

func (f *fakeStore) ReadRanges(ctx context.Context, sheet string, a1s ...string) ([][][]any, error) {
	out := make([][][]any, 0, len(a1s))
	for _, a1 := range a1s {
		v, err := f.ReadRange(ctx, sheet, a1)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (f *fakeStore) UpdateCell(_ context.Context, sheet, a1 string, value any) error {
	k := key(sheet, a1)
	if err := f.errs[k]; err != nil {
		return err
	}
	f.cellWrites[k] = value
	return nil
}

func (f *fakeStore) UpdateRange(_ context.Context, sheet, a1 string, values [][]any) error {
	k := key(sheet, a1)
	if err := f.errs[k]; err != nil {
		return err
	}
	f.rangeWrites[k] = values
	return nil
}

func (f *fakeStore) SetCells(_ context.Context, sheet string, a1s []string, value any) error {
	f.setCalls = append(f.setCalls, fakeSetCall{sheet: sheet, cells: a1s, value: value})
	return nil
}

func (f *fakeStore) ApplyPlan(_ context.Context, spreadsheetID string, plan []sheets.RangeWrite) error {
	f.plans = append(f.plans, fakePlanCall{spreadsheetID: spreadsheetID, plan: plan})
	return nil
}

func (f *fakeStore) FindFirstEmptyRow(ctx context.Context, sheet, a1 string) (int, error) {
	values, err := f.ReadRange(ctx, sheet, a1)
	if err != nil {
		return 0, err
	}
	_, startRow := sheets.RangeStart(a1)
	endRef := a1
	if i := strings.Index(a1, ":"); i >= 0 {
		endRef = a1[i+1:]
	}
	_, endRow := sheets.RangeStart(endRef)
	for i := 0; i <= endRow-startRow; i++ {
		if i >= len(values) || len(values[i]) == 0 || util.CellString(values[i][0]) == "" {
			return startRow + i, nil
		}
	}
	return 0, errors.Newf("nessuna riga libera in %s!%s", sheet, a1)
}

func (f *fakeStore) CopyTemplate(_ context.Context, templateFileID, folderID, name string) (sheets.CopiedFile, error) {
	if f.copyErr != nil {
		return sheets.CopiedFile{}, f.copyErr
	}
	f.copies = append(f.copies, templateFileID+"|"+folderID+"|"+name)
	return f.copyResult, nil
}

// column turns a flat list of values into a single-column range.
func column(values ...any) [][]any {
	out := make([][]any, len(values))
	for i, v := range values {
		out[i] = []any{v}
	}
	return out
}

func row(values ...any) [][]any { return [][]any{values} }
