package club

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"

	"github.com/tommasoguidi/doctori.github.io/internal/models"
	"github.com/tommasoguidi/doctori.github.io/internal/sheets"
	"github.com/tommasoguidi/doctori.github.io/internal/util"
)

// Payments sheet write layout.
const (
	adjustmentRow     = 25
	rangePaymentSlots = "T33:T50"
	colPaymentDate    = 20 // T
	colPaymentSubject = 22 // V
	colPaymentAmount  = 32 // AF

	rangePersonSlots   = "B2:B21"
	rangePersonHeaders = "B1:R1"
	rangeConvKeySlots  = "A2:A21"
	rangePagamKeySlots = "A3:A22"
)

// MarkPaid sets one checkbox cell of the payments grid to true.
func (s *Service) MarkPaid(ctx context.Context, cellA1 string) error {
	if cellA1 == "" {
		return errors.New("cella mancante")
	}
	if err := s.store.UpdateCell(ctx, sheets.SheetPagamenti, cellA1, true); err != nil {
		return err
	}
	s.invalidate()
	s.log.WithField("cella", cellA1).Info("pagamento spuntato")
	return nil
}

// MarkPaidBatch sets a list of checkbox cells to true in one batch write.
// An empty list is a successful no-op and leaves the cache alone.
func (s *Service) MarkPaidBatch(ctx context.Context, cells []string) error {
	if len(cells) == 0 {
		return nil
	}
	if err := s.store.SetCells(ctx, sheets.SheetPagamenti, cells, true); err != nil {
		return err
	}
	s.invalidate()
	s.log.WithField("celle", len(cells)).Info("pagamenti spuntati")
	return nil
}

// SaveAdjustment writes a correction amount into the adjustment row of the
// match's amount column, located by case-insensitive header match.
func (s *Service) SaveAdjustment(ctx context.Context, matchID string, importo float64) error {
	if matchID == "" {
		return errors.New("matchId mancante")
	}
	values, err := s.store.ReadRange(ctx, sheets.SheetPagamenti, rangeDebtHeaders)
	if err != nil {
		return errors.Wrap(err, "lettura intestazioni pagamenti")
	}
	if len(values) == 0 {
		return errors.New("foglio 'pagamenti' senza intestazioni")
	}

	wanted := util.NormalizeHeader(matchID)
	idx := -1
	for i, h := range values[0] {
		if util.NormalizeHeader(util.CellString(h)) == wanted {
			idx = i
			break
		}
	}
	if idx == -1 {
		return errors.Newf("intestazione '%s' non trovata nella riga 1", wanted)
	}

	// headers start at column C; the amount cell is the column after the
	// checkbox one.
	target := sheets.A1(debtStartCol+idx+1, adjustmentRow)
	if err := s.store.UpdateCell(ctx, sheets.SheetPagamenti, target, importo); err != nil {
		return err
	}
	s.invalidate()
	s.log.WithFields(logrus.Fields{"match": matchID, "cella": target}).Info("aggiustamento salvato")
	return nil
}

// AddPayment appends an ad-hoc payment entry into the first free row of the
// overflow range, date into column T, subject into V, amount into AF.
func (s *Service) AddPayment(ctx context.Context, entry models.PaymentEntry) (int, error) {
	date, err := util.ParseDateIT(entry.Data)
	if err != nil {
		return 0, err
	}

	row, err := s.store.FindFirstEmptyRow(ctx, sheets.SheetPagamenti, rangePaymentSlots)
	if err != nil {
		return 0, err
	}

	if err := s.store.UpdateCell(ctx, sheets.SheetPagamenti, sheets.A1(colPaymentDate, row), util.FormatDateIT(date)); err != nil {
		return 0, err
	}
	if err := s.store.UpdateCell(ctx, sheets.SheetPagamenti, sheets.A1(colPaymentSubject, row), entry.Oggetto); err != nil {
		return 0, err
	}
	if err := s.store.UpdateCell(ctx, sheets.SheetPagamenti, sheets.A1(colPaymentAmount, row), entry.Importo); err != nil {
		return 0, err
	}

	s.invalidate()
	s.log.WithField("riga", row).Info("pagamento aggiunto")
	return row, nil
}

// AddPerson writes a new roster row shaped by the live header order, then
// propagates the fiscal code into the key columns of the convocati and
// payments sheets. Best effort across the three sheets: the result reports
// which writes completed, and nothing is rolled back on failure.
func (s *Service) AddPerson(ctx context.Context, fields map[string]string) (models.AddPersonResult, error) {
	var res models.AddPersonResult

	row, err := s.store.FindFirstEmptyRow(ctx, sheets.SheetTesserati, rangePersonSlots)
	if err != nil {
		return res, err
	}

	// Headers are read live, not from cache: the row must match the
	// sheet's current column order.
	values, err := s.store.ReadRange(ctx, sheets.SheetTesserati, rangePersonHeaders)
	if err != nil {
		return res, errors.Wrap(err, "lettura intestazioni tesserati")
	}
	if len(values) == 0 {
		return res, errors.New("foglio 'tesserati' senza intestazioni")
	}
	headers := values[0]

	dataRow := make([]any, len(headers))
	for i, h := range headers {
		dataRow[i] = fields[util.CellString(h)]
	}
	target := fmt.Sprintf("B%d:%s%d", row, sheets.ColumnLetter(1+len(headers)), row)
	if err := s.store.UpdateRange(ctx, sheets.SheetTesserati, target, [][]any{dataRow}); err != nil {
		return res, err
	}
	res.Row = row

	cf := fields[colCF]
	convRow, err := s.store.FindFirstEmptyRow(ctx, sheets.SheetConvocati, rangeConvKeySlots)
	if err != nil {
		return res, err
	}
	if err := s.store.UpdateCell(ctx, sheets.SheetConvocati, sheets.A1(1, convRow), cf); err != nil {
		return res, err
	}
	res.ConvocatiPropagated = true

	pagRow, err := s.store.FindFirstEmptyRow(ctx, sheets.SheetPagamenti, rangePagamKeySlots)
	if err != nil {
		return res, err
	}
	if err := s.store.UpdateCell(ctx, sheets.SheetPagamenti, sheets.A1(1, pagRow), cf); err != nil {
		return res, err
	}
	res.PagamentiPropagated = true

	s.invalidate()
	s.log.WithFields(logrus.Fields{"riga": row, "cf": cf}).Info("tesserato aggiunto")
	return res, nil
}
