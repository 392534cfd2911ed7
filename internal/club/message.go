package club

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/tommasoguidi/doctori.github.io/internal/sheets"
	"github.com/tommasoguidi/doctori.github.io/internal/util"
)

const (
	rangeTotals = "AU3:AU22"

	messageHeader = "🚨 Ciao a tutti amorevoli sacchi di merda, questi sono i vostri chiodi: 🚨\n\n"
	messageFooter = "\ncome al solito 👇🏼\n- *revolut*: revolut.me/masaccioo" +
		"\n- *bonifico*: IT29A0366901600514286982529\n- *paypal*: https://www.paypal.me/tommasoguidi1998"
	messageAllSettled = "🎉 Tutti i pagamenti sono in regola!"
)

// PaymentsMessage builds the chat message listing everyone with a negative
// total, one line per debtor, amounts negated and formatted it-IT. With no
// debtors the whole message collapses to the fixed all-settled string. The
// final string is the cached value; a computation error becomes the message
// text and is cached too, like any other result.
func (s *Service) PaymentsMessage(ctx context.Context) string {
	if cached, ok := s.cache.Get(keyMessaggio); ok {
		return cached
	}

	message := s.buildPaymentsMessage(ctx)
	s.cache.Put(keyMessaggio, message, ttlVolatile)
	return message
}

func (s *Service) buildPaymentsMessage(ctx context.Context) string {
	ranges, err := s.store.ReadRanges(ctx, sheets.SheetPagamenti, rangeDebtSurnames, rangeTotals)
	if err != nil {
		s.log.WithError(err).Error("lettura messaggio pagamenti")
		return err.Error()
	}
	if len(ranges) < 2 {
		return "Errore: Foglio 'pagamenti' non trovato!"
	}
	surnames := ranges[0]
	totals := ranges[1]

	var b strings.Builder
	b.WriteString(messageHeader)

	found := false
	for i := 0; i < len(totals); i++ {
		importo, ok := util.AsNumber(cell(totals[i], 0))
		if !ok || importo >= 0 {
			continue
		}
		var cognome string
		if i < len(surnames) {
			cognome = util.CellString(cell(surnames[i], 0))
		}
		if cognome == s.cfg.ExcludedSurname {
			continue
		}
		fmt.Fprintf(&b, "- *%s*: _%s_\n", cognome, util.FormatEUR(-importo))
		found = true
	}

	if !found {
		return messageAllSettled
	}
	b.WriteString(messageFooter)
	return b.String()
}

// SendPaymentsMessage pushes the payments message to the configured club
// chat. Fails cleanly when no announcer is configured.
func (s *Service) SendPaymentsMessage(ctx context.Context) error {
	if s.announce == nil {
		return errors.New("notifica Telegram non configurata")
	}
	msg := s.PaymentsMessage(ctx)
	if err := s.announce.Announce(msg); err != nil {
		return errors.Wrap(err, "invio messaggio pagamenti")
	}
	s.log.Info("messaggio pagamenti inviato")
	return nil
}
