package club

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/tommasoguidi/doctori.github.io/internal/models"
	"github.com/tommasoguidi/doctori.github.io/internal/util"
)

// Roster column names the rest of the system depends on. The header row may
// carry more columns; these must exist.
const (
	colID          = "id"
	colCognome     = "COGNOME"
	colNome        = "NOME"
	colTipoTessera = "TIPO_TESSERA"
	colNumTessera  = "N_TESSERA"
	colMaglia      = "N_MAGLIA"
	colNascita     = "DATA_DI_NASCITA"
	colDocumento   = "DOCUMENTO"
	colNumDoc      = "N_DOCUMENTO"
	colCF          = "CF"
)

// tipoTesseraStaff marks staff rows (dirigenti/allenatori) in the roster.
const tipoTesseraStaff = "D"

var requiredColumns = []string{
	colID, colCognome, colNome, colTipoTessera, colNumTessera,
	colMaglia, colNascita, colDocumento, colNumDoc,
}

// rosterSchema is the ordered header-name -> column-index table, loaded
// from the header row on every uncached read and validated up front.
type rosterSchema struct {
	headers []string
	index   map[string]int
}

func loadRosterSchema(headerRow []any) (rosterSchema, error) {
	sc := rosterSchema{index: make(map[string]int, len(headerRow))}
	for i, h := range headerRow {
		name := util.CellString(h)
		sc.headers = append(sc.headers, name)
		if name != "" {
			sc.index[name] = i
		}
	}
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := sc.index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return rosterSchema{}, errors.Newf("colonne mancanti nel foglio 'tesserati': %s", strings.Join(missing, ", "))
	}
	return sc, nil
}

// person maps one data row to a Person. Rows with an empty id are skipped.
// The birth date column holds date cells and is rendered to the Italian
// locale string here, at read time.
func (sc rosterSchema) person(row []any) (models.Person, bool) {
	id := sc.value(row, colID)
	if id == "" {
		return models.Person{}, false
	}

	fields := make(map[string]string, len(sc.headers))
	for name, i := range sc.index {
		v := cell(row, i)
		if name == colNascita {
			if serial, ok := util.AsNumber(v); ok {
				fields[name] = util.FormatDateIT(util.SerialToTime(serial))
				continue
			}
		}
		fields[name] = util.CellString(v)
	}

	return models.Person{
		ID:            id,
		Cognome:       fields[colCognome],
		Nome:          fields[colNome],
		TipoTessera:   fields[colTipoTessera],
		NumeroTessera: fields[colNumTessera],
		NumeroMaglia:  fields[colMaglia],
		DataNascita:   fields[colNascita],
		Documento:     fields[colDocumento],
		NumeroDoc:     fields[colNumDoc],
		Fields:        fields,
	}, true
}

func (sc rosterSchema) value(row []any, col string) string {
	i, ok := sc.index[col]
	if !ok {
		return ""
	}
	return util.CellString(cell(row, i))
}
