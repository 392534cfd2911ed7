package club

import (
	"context"
	"fmt"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/tommasoguidi/doctori.github.io/internal/models"
	"github.com/tommasoguidi/doctori.github.io/internal/sheets"
	"github.com/tommasoguidi/doctori.github.io/internal/util"
)

// Convocati sheet layout: ids in A2:A21, one boolean column per match named
// conv<matchID> somewhere in A1:AV1.
const (
	rangeConvHeaders = "A1:AV1"
	rangeConvIDs     = "A2:A21"
	convColumnPrefix = "conv"
	convFirstDataRow = 2
	convLastDataRow  = 21
)

// Distinta template layout (first sheet of the copied file).
const (
	distintaPlayerFirstRow = 9
	distintaHomeCell       = "D4"
	distintaAwayCell       = "G4"
	distintaDateCell       = "E5"
	distintaCoachRange     = "D25:K25"
	distintaDirectorRange  = "E26:K26"
)

// SidebarData is everything the distinta page needs in one shot: the next
// match plus the selectable people. Players deliberately list the whole
// roster, matching the sheet-bound behavior users rely on; staff filters on
// the membership type tag.
type SidebarData struct {
	NextMatch *models.Match   `json:"nextMatch"`
	Players   []models.Person `json:"players"`
	Staff     []models.Person `json:"staff"`
}

func (s *Service) DistintaSidebarData(ctx context.Context) SidebarData {
	all := s.Roster(ctx)

	players := append([]models.Person(nil), all...)
	sortBySurname(players)

	staff := []models.Person{}
	for _, p := range all {
		if p.TipoTessera == tipoTesseraStaff {
			staff = append(staff, p)
		}
	}
	sortBySurname(staff)

	return SidebarData{
		NextMatch: s.NextMatch(ctx),
		Players:   players,
		Staff:     staff,
	}
}

// UpdateConvocati overwrites the attendance column for a match: every id
// row is reset to false, then the selected ids are set true. Ids not in the
// sheet are silently skipped. Total and idempotent, not incremental.
func (s *Service) UpdateConvocati(ctx context.Context, matchID string, personIDs []string) error {
	ranges, err := s.store.ReadRanges(ctx, sheets.SheetConvocati, rangeConvHeaders, rangeConvIDs)
	if err != nil {
		return errors.Wrap(err, "lettura convocati")
	}
	if len(ranges) < 2 || len(ranges[0]) == 0 {
		return errors.New("foglio 'convocati' senza intestazioni")
	}

	wanted := convColumnPrefix + matchID
	col := 0
	for i, h := range ranges[0][0] {
		if util.CellString(h) == wanted {
			col = i + 1
			break
		}
	}
	if col == 0 {
		return errors.Newf("colonna '%s' non trovata nel foglio 'convocati'", wanted)
	}

	rows := convLastDataRow - convFirstDataRow + 1
	reset := make([][]any, rows)
	for i := range reset {
		reset[i] = []any{false}
	}
	resetRange := fmt.Sprintf("%s:%s", sheets.A1(col, convFirstDataRow), sheets.A1(col, convLastDataRow))
	if err := s.store.UpdateRange(ctx, sheets.SheetConvocati, resetRange, reset); err != nil {
		return err
	}

	selected := map[string]bool{}
	for _, id := range personIDs {
		selected[id] = true
	}
	cells := []string{}
	for i, row := range ranges[1] {
		if selected[util.CellString(cell(row, 0))] {
			cells = append(cells, sheets.A1(col, convFirstDataRow+i))
		}
	}
	return s.store.SetCells(ctx, sheets.SheetConvocati, cells, true)
}

// BuildDistintaPlan maps the selected people and the match metadata onto
// the fixed layout of the distinta template. Pure: the caller applies the
// writes. Players are ordered by surname with Italian collation; coach and
// director rows are omitted entirely when unresolved.
func BuildDistintaPlan(teamName string, match models.Match, players []models.Person, coach, director *models.Person) []sheets.RangeWrite {
	plan := []sheets.RangeWrite{}

	home, away := teamName, match.Opponent
	if match.HomeAway != "C" {
		home, away = match.Opponent, teamName
	}
	plan = append(plan,
		sheets.RangeWrite{Range: distintaHomeCell, Values: [][]any{{home}}},
		sheets.RangeWrite{Range: distintaAwayCell, Values: [][]any{{away}}},
		sheets.RangeWrite{Range: distintaDateCell, Values: [][]any{{match.Date}}},
	)

	ordered := append([]models.Person(nil), players...)
	sortBySurname(ordered)
	rows := make([][]any, 0, len(ordered))
	for _, p := range ordered {
		rows = append(rows, []any{
			p.NumeroMaglia, p.Cognome, p.Nome, "",
			p.DataNascita, p.TipoTessera, p.NumeroTessera, p.Documento, p.NumeroDoc,
		})
	}
	if len(rows) > 0 {
		r := fmt.Sprintf("C%d:K%d", distintaPlayerFirstRow, distintaPlayerFirstRow+len(rows)-1)
		plan = append(plan, sheets.RangeWrite{Range: r, Values: rows})
	}

	if coach != nil {
		plan = append(plan, sheets.RangeWrite{
			Range: distintaCoachRange,
			Values: [][]any{{
				coach.Cognome + " " + coach.Nome, "", "", "",
				coach.TipoTessera, coach.NumeroTessera, coach.Documento, coach.NumeroDoc,
			}},
		})
	}
	if director != nil {
		plan = append(plan, sheets.RangeWrite{
			Range: distintaDirectorRange,
			Values: [][]any{{
				director.Cognome + " " + director.Nome, "", "",
				director.TipoTessera, director.NumeroTessera, director.Documento, director.NumeroDoc,
			}},
		})
	}
	return plan
}

// GenerateDistinta runs the whole export: attendance update, template copy,
// plan application. Best effort, no rollback; the result records the steps
// that completed before any failure.
func (s *Service) GenerateDistinta(ctx context.Context, req models.DistintaRequest) (models.DistintaResult, error) {
	var res models.DistintaResult

	if req.Match.MatchID == "" {
		return res, errors.New("matchId mancante")
	}
	if s.cfg.DistintaTemplateFileID == "" || s.cfg.DistintaFolderID == "" {
		return res, errors.New("template distinta non configurato")
	}

	if err := s.UpdateConvocati(ctx, req.Match.MatchID, req.PlayerIDs); err != nil {
		return res, err
	}
	res.ConvocatiUpdated = true

	all := s.Roster(ctx)
	byID := make(map[string]models.Person, len(all))
	for _, p := range all {
		byID[p.ID] = p
	}
	players := []models.Person{}
	for _, id := range req.PlayerIDs {
		if p, ok := byID[id]; ok {
			players = append(players, p)
		}
	}
	var coach, director *models.Person
	if p, ok := byID[req.CoachID]; ok {
		coach = &p
	}
	if p, ok := byID[req.DirectorID]; ok {
		director = &p
	}

	name := fmt.Sprintf("%s vs %s", req.Match.MatchID, req.Match.Opponent)
	file, err := s.store.CopyTemplate(ctx, s.cfg.DistintaTemplateFileID, s.cfg.DistintaFolderID, name)
	if err != nil {
		return res, err
	}
	res.FileCreated = true
	res.URL = file.URL

	plan := BuildDistintaPlan(s.cfg.TeamName, req.Match, players, coach, director)
	if err := s.store.ApplyPlan(ctx, file.ID, plan); err != nil {
		return res, err
	}
	res.PlanApplied = true

	s.log.WithFields(logrus.Fields{
		"match":   req.Match.MatchID,
		"players": len(players),
		"file":    file.ID,
	}).Info("distinta generata")
	return res, nil
}

func sortBySurname(people []models.Person) {
	c := collate.New(language.Italian)
	sort.SliceStable(people, func(i, j int) bool {
		return c.CompareString(people[i].Cognome, people[j].Cognome) < 0
	})
}
