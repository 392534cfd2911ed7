package club

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/tommasoguidi/doctori.github.io/internal/models"
	"github.com/tommasoguidi/doctori.github.io/internal/sheets"
	"github.com/tommasoguidi/doctori.github.io/internal/util"
)

// Fixed addresses on the bound spreadsheet.
const (
	cellSaldo         = "N34"
	rangeCalendario   = "A2:F23"
	rangeRosterHead   = "A1:R1"
	rangeRosterData   = "A2:R21"
	rangeDebtHeaders  = "C1:AT1"
	rangeDebtSurnames = "B3:B22"
	rangeDebtGrid     = "C3:AT22"

	debtStartRow = 3
	debtStartCol = 3
)

// Balance reads the total balance scalar. Non-numeric cells degrade to
// "N/D", unreadable sheets to "Errore"; both sentinels are cached like a
// regular value.
func (s *Service) Balance(ctx context.Context) models.Balance {
	if raw, ok := s.cache.Get(keySaldo); ok {
		var b models.Balance
		if err := json.Unmarshal([]byte(raw), &b); err == nil {
			return b
		}
	}

	b := models.Balance{Cell: cellSaldo}
	values, err := s.store.ReadRange(ctx, sheets.SheetPagamenti, cellSaldo)
	switch {
	case err != nil:
		s.log.WithError(err).Error("lettura saldo")
		b.Saldo = "Errore"
	default:
		var v any
		if len(values) > 0 && len(values[0]) > 0 {
			v = values[0][0]
		}
		if n, ok := util.AsNumber(v); ok {
			b.Saldo = n
		} else {
			b.Saldo = "N/D"
		}
	}

	if raw, err := json.Marshal(b); err == nil {
		s.cache.Put(keySaldo, string(raw), ttlVolatile)
	}
	return b
}

// NextMatch returns the first calendar row dated today or later, scanning
// in file order, or nil when none qualifies or the read fails. The result,
// nil included, is cached.
func (s *Service) NextMatch(ctx context.Context) *models.Match {
	if raw, ok := s.cache.Get(keyNextMatch); ok {
		var m *models.Match
		if err := json.Unmarshal([]byte(raw), &m); err == nil {
			return m
		}
	}

	var result *models.Match
	values, err := s.store.ReadRange(ctx, sheets.SheetCalendario, rangeCalendario)
	if err != nil {
		s.log.WithError(err).Error("lettura calendario")
	} else {
		today := util.Midnight(s.now())
		for _, row := range values {
			if len(row) == 0 {
				continue
			}
			serial, ok := util.AsNumber(row[0])
			if !ok {
				continue
			}
			matchDate := util.SerialToTime(serial)
			if matchDate.Before(today) {
				continue
			}
			result = &models.Match{
				Date:     util.FormatDateIT(matchDate),
				Hour:     cellHour(cell(row, 1)),
				HomeAway: util.CellString(cell(row, 2)),
				Opponent: util.CellString(cell(row, 3)),
				Venue:    util.CellString(cell(row, 4)),
				MatchID:  util.CellString(cell(row, 5)),
			}
			break
		}
	}

	if raw, err := json.Marshal(result); err == nil {
		s.cache.Put(keyNextMatch, string(raw), ttlVolatile)
	}
	return result
}

// Roster returns the persons of the roster sheet in row order, skipping
// rows with an empty id. Successful reads, empty ones included, are cached
// for the long TTL; read failures return an empty slice and are retried on
// the next call.
func (s *Service) Roster(ctx context.Context) []models.Person {
	if raw, ok := s.cache.Get(keyRoster); ok {
		var people []models.Person
		if err := json.Unmarshal([]byte(raw), &people); err == nil {
			return people
		}
	}

	ranges, err := s.store.ReadRanges(ctx, sheets.SheetTesserati, rangeRosterHead, rangeRosterData)
	if err != nil {
		s.log.WithError(err).Error("lettura tesserati")
		return []models.Person{}
	}
	if len(ranges) < 2 || len(ranges[0]) == 0 {
		s.log.Error("foglio tesserati senza riga di intestazione")
		return []models.Person{}
	}

	schema, err := loadRosterSchema(ranges[0][0])
	if err != nil {
		s.log.WithError(err).Error("schema tesserati")
		return []models.Person{}
	}

	people := []models.Person{}
	for _, row := range ranges[1] {
		p, ok := schema.person(row)
		if !ok {
			continue
		}
		people = append(people, p)
	}

	if raw, err := json.Marshal(people); err == nil {
		s.cache.Put(keyRoster, string(raw), ttlRoster)
	}
	return people
}

// RosterHeaders returns the roster header names minus the leading id
// column, for building the add-person form. Failures are not cached.
func (s *Service) RosterHeaders(ctx context.Context) ([]string, error) {
	if raw, ok := s.cache.Get(keyHeaders); ok {
		var headers []string
		if err := json.Unmarshal([]byte(raw), &headers); err == nil {
			return headers, nil
		}
	}

	values, err := s.store.ReadRange(ctx, sheets.SheetTesserati, rangeRosterHead)
	if err != nil {
		return nil, errors.Wrap(err, "lettura intestazioni tesserati")
	}
	if len(values) == 0 || len(values[0]) < 2 {
		return nil, errors.New("foglio 'tesserati' senza intestazioni")
	}

	headers := make([]string, 0, len(values[0])-1)
	for _, h := range values[0][1:] {
		headers = append(headers, util.CellString(h))
	}

	if raw, err := json.Marshal(headers); err == nil {
		s.cache.Put(keyHeaders, string(raw), ttlVolatile)
	}
	return headers, nil
}

// Debts scans the paired (checkbox, amount) columns of the payments grid.
// A (person, match) pair is a debt iff the amount is numeric and negative
// and the checkbox is not set. Only successful computations are cached;
// failures are re-attempted every call.
func (s *Service) Debts(ctx context.Context) ([]models.Debtor, error) {
	if raw, ok := s.cache.Get(keyDebiti); ok {
		var debtors []models.Debtor
		if err := json.Unmarshal([]byte(raw), &debtors); err == nil {
			return debtors, nil
		}
	}

	ranges, err := s.store.ReadRanges(ctx, sheets.SheetPagamenti,
		rangeDebtHeaders, rangeDebtSurnames, rangeDebtGrid)
	if err != nil {
		return nil, errors.Wrap(err, "lettura pagamenti")
	}
	if len(ranges) < 3 || len(ranges[0]) == 0 {
		return nil, errors.New("foglio 'pagamenti' senza intestazioni")
	}
	headers := ranges[0][0]
	surnames := ranges[1]
	grid := ranges[2]

	debtors := []models.Debtor{}
	for r := 0; r < len(surnames); r++ {
		cognome := util.CellString(cell(surnames[r], 0))
		if cognome == "" {
			continue
		}
		var row []any
		if r < len(grid) {
			row = grid[r]
		}

		debiti := []models.Debt{}
		for j := 0; j+1 < len(headers); j += 2 {
			importo, ok := util.AsNumber(cell(row, j+1))
			if !ok || importo >= 0 {
				continue
			}
			if util.Truthy(cell(row, j)) {
				continue
			}
			label := util.CellString(headers[j])
			if label == "" {
				label = fmt.Sprintf("Partita %d", j+1)
			}
			debiti = append(debiti, models.Debt{
				Match:       label,
				Importo:     importo,
				CellaSpunta: sheets.A1(debtStartCol+j, debtStartRow+r),
			})
		}
		if len(debiti) > 0 {
			debtors = append(debtors, models.Debtor{Cognome: cognome, Debiti: debiti})
		}
	}

	if raw, err := json.Marshal(debtors); err == nil {
		s.cache.Put(keyDebiti, string(raw), ttlVolatile)
	}
	return debtors, nil
}

func cell(row []any, idx int) any {
	if idx < 0 || idx >= len(row) {
		return nil
	}
	return row[idx]
}

func cellHour(v any) string {
	if serial, ok := util.AsNumber(v); ok {
		return util.ClockFromSerial(serial)
	}
	return util.CellString(v)
}
