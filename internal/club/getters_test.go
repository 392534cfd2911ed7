package club

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"

	"github.com/tommasoguidi/doctori.github.io/internal/sheets"
)

func TestBalance_Numeric(t *testing.T) {
	t.Parallel()

	fs := newFakeStore()
	fs.data[key(sheets.SheetPagamenti, cellSaldo)] = row(123.45)
	svc := newTestService(t, fs)

	b := svc.Balance(context.Background())
	require.Equal(t, 123.45, b.Saldo)
	require.Equal(t, "N34", b.Cell)
}

func TestBalance_NonNumericIsND(t *testing.T) {
	t.Parallel()

	fs := newFakeStore()
	fs.data[key(sheets.SheetPagamenti, cellSaldo)] = row("boh")
	svc := newTestService(t, fs)

	b := svc.Balance(context.Background())
	require.Equal(t, "N/D", b.Saldo)
}

func TestBalance_ReadFailureIsErrore(t *testing.T) {
	t.Parallel()

	fs := newFakeStore()
	fs.errs[key(sheets.SheetPagamenti, cellSaldo)] = errors.New("boom")
	svc := newTestService(t, fs)

	b := svc.Balance(context.Background())
	require.Equal(t, "Errore", b.Saldo)
}

func TestBalance_CachedWithinTTL(t *testing.T) {
	t.Parallel()

	fs := newFakeStore()
	fs.data[key(sheets.SheetPagamenti, cellSaldo)] = row(10.0)
	svc := newTestService(t, fs)

	first := svc.Balance(context.Background())
	fs.data[key(sheets.SheetPagamenti, cellSaldo)] = row(999.0)
	second := svc.Balance(context.Background())
	require.Equal(t, first.Saldo, second.Saldo)
}

func TestNextMatch_PicksFirstUpcomingInFileOrder(t *testing.T) {
	t.Parallel()

	fs := newFakeStore()
	fs.data[key(sheets.SheetCalendario, rangeCalendario)] = [][]any{
		{serialDate(2026, time.August, 23), 0.625, "C", "Vecchi", "Campo A", "1A"},
		{serialDate(2026, time.September, 6), 0.4375, "T", "Aquile", "Campo B", "2A"},
		{serialDate(2026, time.September, 13), 0.625, "C", "Orsi", "Campo A", "3A"},
	}
	svc := newTestService(t, fs)
	svc.now = fixedNow(2026, time.August, 31)

	m := svc.NextMatch(context.Background())
	require.NotNil(t, m)
	require.Equal(t, "06/09/2026", m.Date)
	require.Equal(t, "10:30", m.Hour)
	require.Equal(t, "T", m.HomeAway)
	require.Equal(t, "Aquile", m.Opponent)
	require.Equal(t, "2A", m.MatchID)
}

func TestNextMatch_TodayQualifies(t *testing.T) {
	t.Parallel()

	fs := newFakeStore()
	fs.data[key(sheets.SheetCalendario, rangeCalendario)] = [][]any{
		{serialDate(2026, time.August, 31), 0.5, "C", "Oggi", "Campo A", "1A"},
	}
	svc := newTestService(t, fs)
	svc.now = fixedNow(2026, time.August, 31)

	m := svc.NextMatch(context.Background())
	require.NotNil(t, m)
	require.Equal(t, "Oggi", m.Opponent)
}

func TestNextMatch_NoneLeftReturnsNilAndCaches(t *testing.T) {
	t.Parallel()

	fs := newFakeStore()
	fs.data[key(sheets.SheetCalendario, rangeCalendario)] = [][]any{
		{serialDate(2024, time.May, 1), 0.5, "C", "Passato", "Campo A", "1A"},
	}
	svc := newTestService(t, fs)
	svc.now = fixedNow(2026, time.August, 31)

	require.Nil(t, svc.NextMatch(context.Background()))

	// A later calendar change must not surface within the TTL window.
	fs.data[key(sheets.SheetCalendario, rangeCalendario)] = [][]any{
		{serialDate(2026, time.December, 1), 0.5, "C", "Nuovi", "Campo A", "9A"},
	}
	require.Nil(t, svc.NextMatch(context.Background()))
}

func rosterHeaderRow() [][]any {
	return row("id", "COGNOME", "NOME", "TIPO_TESSERA", "N_TESSERA",
		"N_MAGLIA", "DATA_DI_NASCITA", "DOCUMENTO", "N_DOCUMENTO")
}

func TestRoster_SkipsRowsWithoutID(t *testing.T) {
	t.Parallel()

	fs := newFakeStore()
	fs.data[key(sheets.SheetTesserati, rangeRosterHead)] = rosterHeaderRow()
	fs.data[key(sheets.SheetTesserati, rangeRosterData)] = [][]any{
		{"CF1", "Bianchi", "Luca", "G", "111", 10.0, serialDate(1998, time.March, 2), "CI", "AA123"},
		{"", "Fantasma", "Mario", "G", "222", 7.0, serialDate(1999, time.April, 3), "CI", "BB456"},
		{"CF3", "Abate", "Paolo", "D", "333", nil, serialDate(1980, time.May, 4), "CI", "CC789"},
	}
	svc := newTestService(t, fs)

	people := svc.Roster(context.Background())
	require.Len(t, people, 2)
	require.Equal(t, "CF1", people[0].ID)
	require.Equal(t, "Bianchi", people[0].Cognome)
	require.Equal(t, "02/03/1998", people[0].DataNascita)
	require.Equal(t, "10", people[0].NumeroMaglia)
	require.Equal(t, "CF3", people[1].ID)
}

func TestRoster_MissingRequiredColumnFailsFast(t *testing.T) {
	t.Parallel()

	fs := newFakeStore()
	fs.data[key(sheets.SheetTesserati, rangeRosterHead)] = row("id", "COGNOME", "NOME")
	fs.data[key(sheets.SheetTesserati, rangeRosterData)] = [][]any{{"CF1", "Bianchi", "Luca"}}
	svc := newTestService(t, fs)

	require.Empty(t, svc.Roster(context.Background()))
}

func TestRoster_ReadFailureNotCached(t *testing.T) {
	t.Parallel()

	fs := newFakeStore()
	fs.errs[key(sheets.SheetTesserati, rangeRosterHead)] = errors.New("boom")
	svc := newTestService(t, fs)

	require.Empty(t, svc.Roster(context.Background()))

	// Once the sheet is readable again the next call must see it.
	delete(fs.errs, key(sheets.SheetTesserati, rangeRosterHead))
	fs.data[key(sheets.SheetTesserati, rangeRosterHead)] = rosterHeaderRow()
	fs.data[key(sheets.SheetTesserati, rangeRosterData)] = [][]any{
		{"CF1", "Bianchi", "Luca", "G", "111", 10.0, serialDate(1998, time.March, 2), "CI", "AA123"},
	}
	require.Len(t, svc.Roster(context.Background()), 1)
}

func TestRosterHeaders_DropsLeadingID(t *testing.T) {
	t.Parallel()

	fs := newFakeStore()
	fs.data[key(sheets.SheetTesserati, rangeRosterHead)] = row("id", "CF", "COGNOME", "NOME")
	svc := newTestService(t, fs)

	headers, err := svc.RosterHeaders(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"CF", "COGNOME", "NOME"}, headers)
}

func TestRosterHeaders_FailureReturnsError(t *testing.T) {
	t.Parallel()

	fs := newFakeStore()
	fs.errs[key(sheets.SheetTesserati, rangeRosterHead)] = errors.New("boom")
	svc := newTestService(t, fs)

	_, err := svc.RosterHeaders(context.Background())
	require.Error(t, err)
}

func debtsFixture() *fakeStore {
	fs := newFakeStore()
	fs.data[key(sheets.SheetPagamenti, rangeDebtHeaders)] = row("1A", "QUOTA 1A", "2A", "QUOTA 2A")
	fs.data[key(sheets.SheetPagamenti, rangeDebtSurnames)] = column("rossi", "", "verdi")
	fs.data[key(sheets.SheetPagamenti, rangeDebtGrid)] = [][]any{
		{false, -10.0, true, -5.0},  // rossi owes 1A; 2A is already paid
		{false, -99.0, false, -1.0}, // no surname, ignored
		{nil, 3.0, false, -7.5},     // verdi owes 2A only
	}
	return fs
}

func TestDebts_InclusionRule(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, debtsFixture())

	debtors, err := svc.Debts(context.Background())
	require.NoError(t, err)
	require.Len(t, debtors, 2)

	require.Equal(t, "rossi", debtors[0].Cognome)
	require.Len(t, debtors[0].Debiti, 1)
	require.Equal(t, "1A", debtors[0].Debiti[0].Match)
	require.Equal(t, -10.0, debtors[0].Debiti[0].Importo)
	require.Equal(t, "C3", debtors[0].Debiti[0].CellaSpunta)

	require.Equal(t, "verdi", debtors[1].Cognome)
	require.Len(t, debtors[1].Debiti, 1)
	require.Equal(t, "2A", debtors[1].Debiti[0].Match)
	require.Equal(t, "E5", debtors[1].Debiti[0].CellaSpunta)
}

func TestDebts_PayingRemovesPairAfterInvalidation(t *testing.T) {
	t.Parallel()

	fs := debtsFixture()
	svc := newTestService(t, fs)

	debtors, err := svc.Debts(context.Background())
	require.NoError(t, err)
	require.Len(t, debtors[0].Debiti, 1)

	// Tick the checkbox and invalidate, as MarkPaid would.
	fs.data[key(sheets.SheetPagamenti, rangeDebtGrid)][0][0] = true
	svc.invalidate()

	debtors, err = svc.Debts(context.Background())
	require.NoError(t, err)
	require.Len(t, debtors, 1)
	require.Equal(t, "verdi", debtors[0].Cognome)
}

func TestDebts_FailureNotCached(t *testing.T) {
	t.Parallel()

	fs := newFakeStore()
	fs.errs[key(sheets.SheetPagamenti, rangeDebtHeaders)] = errors.New("boom")
	svc := newTestService(t, fs)

	_, err := svc.Debts(context.Background())
	require.Error(t, err)

	// Recovery is picked up on the very next call, no TTL involved.
	recovered := debtsFixture()
	svc.store = recovered

	debtors, err := svc.Debts(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, debtors)
}
