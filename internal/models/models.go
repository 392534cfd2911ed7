package models

// Balance is the scalar total read from the payments sheet. Saldo holds a
// float64 when the cell is numeric, otherwise one of the sentinel strings
// "N/D" (non numeric cell) or "Errore" (sheet unreadable).
type Balance struct {
	Saldo any    `json:"saldo"`
	Cell  string `json:"cell"`
}

// Match is a row of the calendar sheet. Read-only for this app.
type Match struct {
	Date     string `json:"date"` // dd/MM/yyyy
	Hour     string `json:"hour"`
	HomeAway string `json:"homeAway"` // "C" casa, "T" trasferta
	Opponent string `json:"opponent"`
	Venue    string `json:"at"`
	MatchID  string `json:"matchId"`
}

// Person is a row of the roster sheet. Fields holds the full row keyed by
// header name, so forms shaped by the header row keep working when columns
// are added to the sheet.
type Person struct {
	ID            string            `json:"id"`
	Cognome       string            `json:"COGNOME"`
	Nome          string            `json:"NOME"`
	TipoTessera   string            `json:"TIPO_TESSERA"`
	NumeroTessera string            `json:"N_TESSERA"`
	NumeroMaglia  string            `json:"N_MAGLIA"`
	DataNascita   string            `json:"DATA_DI_NASCITA"`
	Documento     string            `json:"DOCUMENTO"`
	NumeroDoc     string            `json:"N_DOCUMENTO"`
	Fields        map[string]string `json:"fields"`
}

// Debt is one unpaid negative amount for a specific match. CellaSpunta is
// the A1 address of the checkbox that marks it paid.
type Debt struct {
	Match       string  `json:"match"`
	Importo     float64 `json:"importo"`
	CellaSpunta string  `json:"cellaSpunta"`
}

// Debtor groups the open debts of one person, keyed by surname as it
// appears in the payments sheet.
type Debtor struct {
	Cognome string `json:"cognome"`
	Debiti  []Debt `json:"debiti"`
}

// PaymentEntry is an ad-hoc payment appended to the overflow range of the
// payments sheet.
type PaymentEntry struct {
	Data    string  `json:"data"` // DD/MM/YYYY
	Oggetto string  `json:"oggetto"`
	Importo float64 `json:"importo"`
}

// DistintaRequest is the roster-export submission: the match plus the ids
// of the selected players and staff.
type DistintaRequest struct {
	Match      Match    `json:"matchData"`
	PlayerIDs  []string `json:"players"`
	CoachID    string   `json:"coachId"`
	DirectorID string   `json:"directorId"`
}

// DistintaResult records the outcome of a roster export. The step booleans
// stay meaningful on failure: the export is best effort and already-applied
// writes are not rolled back.
type DistintaResult struct {
	URL              string `json:"url,omitempty"`
	ConvocatiUpdated bool   `json:"convocatiUpdated"`
	FileCreated      bool   `json:"fileCreated"`
	PlanApplied      bool   `json:"planApplied"`
}

// AddPersonResult reports where the new person landed and which of the two
// key propagations completed.
type AddPersonResult struct {
	Row                 int  `json:"row"`
	ConvocatiPropagated bool `json:"convocatiPropagated"`
	PagamentiPropagated bool `json:"pagamentiPropagated"`
}
