// Package club holds the application logic bound to the club spreadsheet:
// the cached read model, the payments message builder, the distinta export
// and the write operations. The spreadsheet is the single source of truth;
// the cache is a disposable projection with no write-back.
package club

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tommasoguidi/doctori.github.io/internal/cache"
	"github.com/tommasoguidi/doctori.github.io/internal/config"
	"github.com/tommasoguidi/doctori.github.io/internal/sheets"
)

// Cache keys, one per read-model operation. Every mutation clears the whole
// set: the sheet's formula graph makes per-key dependency tracking more
// fragile than it is worth.
const (
	keySaldo     = "saldoTotale"
	keyNextMatch = "nextMatch"
	keyRoster    = "tesseratiData"
	keyHeaders   = "tesseratiHeaders"
	keyDebiti    = "debitiData"
	keyMessaggio = "messaggioPagamenti"
)

var allCacheKeys = []string{keySaldo, keyNextMatch, keyRoster, keyHeaders, keyDebiti, keyMessaggio}

const (
	ttlVolatile = 300 * time.Second
	ttlRoster   = 1800 * time.Second
)

// Store is the tabular store surface the service needs. *sheets.Client
// implements it; tests plug an in-memory fake.
type Store interface {
	ReadRange(ctx context.Context, sheet, a1 string) ([][]any, error)
	ReadRanges(ctx context.Context, sheet string, a1s ...string) ([][][]any, error)
	UpdateCell(ctx context.Context, sheet, a1 string, value any) error
	UpdateRange(ctx context.Context, sheet, a1 string, values [][]any) error
	SetCells(ctx context.Context, sheet string, a1s []string, value any) error
	ApplyPlan(ctx context.Context, spreadsheetID string, plan []sheets.RangeWrite) error
	FindFirstEmptyRow(ctx context.Context, sheet, a1 string) (int, error)
	CopyTemplate(ctx context.Context, templateFileID, folderID, name string) (sheets.CopiedFile, error)
}

// Announcer pushes the payments message to the club chat.
type Announcer interface {
	Announce(text string) error
}

type Service struct {
	cfg      config.Config
	store    Store
	cache    *cache.Cache
	log      *logrus.Logger
	announce Announcer

	now func() time.Time
}

// New wires the service. announce may be nil when no chat is configured.
func New(cfg config.Config, store Store, c *cache.Cache, log *logrus.Logger, announce Announcer) *Service {
	return &Service{
		cfg:      cfg,
		store:    store,
		cache:    c,
		log:      log,
		announce: announce,
		now:      time.Now,
	}
}

// invalidate drops every cached read-model entry. Called by each write
// path that can affect a cached read.
func (s *Service) invalidate() {
	s.cache.RemoveAll(allCacheKeys...)
	s.log.WithField("keys", allCacheKeys).Debug("cache invalidata")
}
