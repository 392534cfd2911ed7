package server

import (
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/tommasoguidi/doctori.github.io/internal/club"
	"github.com/tommasoguidi/doctori.github.io/internal/config"
	"github.com/tommasoguidi/doctori.github.io/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

type handler struct {
	cfg      config.Config
	svc      *club.Service
	log      *logrus.Logger
	tmpl     *template.Template
	validate *validator.Validate
}

// NewRouter builds the HTTP surface: the page router keyed by ?page=, the
// JSON API the pages submit to, health and metrics.
func NewRouter(cfg config.Config, svc *club.Service, log *logrus.Logger) http.Handler {
	h := &handler{
		cfg:      cfg,
		svc:      svc,
		log:      log,
		tmpl:     template.Must(template.ParseFS(templateFS, "templates/*.html")),
		validate: validator.New(),
	}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)

	r.Get("/", h.page)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/messaggio", h.getMessaggio)
		r.Post("/messaggio/invia", h.postMessaggioInvia)
		r.Get("/debiti", h.getDebiti)
		r.Get("/tesserati/headers", h.getHeaders)
		r.Post("/distinta", h.postDistinta)
		r.Post("/tesserati", h.postTesserato)
		r.Post("/pagamenti/spunta", h.postSpunta)
		r.Post("/pagamenti/spunte", h.postSpunte)
		r.Post("/aggiustamento", h.postAggiustamento)
		r.Post("/pagamenti", h.postPagamento)
	})

	return r
}

// New wraps the router in an http.Server bound to the configured address.
func New(cfg config.Config, svc *club.Service, log *logrus.Logger) *http.Server {
	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: NewRouter(cfg, svc, log),
	}
}

// ---------- pages ----------

// page maps ?page= to one of the five form templates; anything else gets
// the home page fed with the balance.
func (h *handler) page(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		name string
		data any
	)
	switch r.URL.Query().Get("page") {
	case "distinta":
		name = "distinta.html"
		data = h.svc.DistintaSidebarData(ctx)
	case "pagamenti":
		name = "pagamenti.html"
		data = map[string]any{"Message": h.svc.PaymentsMessage(ctx)}
	case "nuovo_tesserato":
		name = "nuovo_tesserato.html"
		headers, err := h.svc.RosterHeaders(ctx)
		data = map[string]any{"Headers": headers, "Error": errString(err)}
	case "gestisci_pagamenti":
		name = "gestisci_pagamenti.html"
		debiti, err := h.svc.Debts(ctx)
		data = map[string]any{"Debitori": debiti, "Error": errString(err)}
	case "gestisci_debiti":
		name = "gestisci_debiti.html"
		debiti, err := h.svc.Debts(ctx)
		data = map[string]any{"Debitori": debiti, "Error": errString(err)}
	default:
		name = "index.html"
		data = h.svc.Balance(ctx)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.ExecuteTemplate(w, name, data); err != nil {
		h.log.WithError(err).WithField("template", name).Error("render pagina")
	}
}

// ---------- read API ----------

func (h *handler) getMessaggio(w http.ResponseWriter, r *http.Request) {
	h.ok(w, map[string]any{"message": h.svc.PaymentsMessage(r.Context())})
}

func (h *handler) getDebiti(w http.ResponseWriter, r *http.Request) {
	debiti, err := h.svc.Debts(r.Context())
	if err != nil {
		h.fail(w, http.StatusInternalServerError, err)
		return
	}
	h.ok(w, map[string]any{"data": debiti})
}

func (h *handler) getHeaders(w http.ResponseWriter, r *http.Request) {
	headers, err := h.svc.RosterHeaders(r.Context())
	if err != nil {
		h.fail(w, http.StatusInternalServerError, err)
		return
	}
	h.ok(w, map[string]any{"headers": headers})
}

// ---------- write API ----------

type spuntaRequest struct {
	Cella string `json:"cella" validate:"required"`
}

func (h *handler) postSpunta(w http.ResponseWriter, r *http.Request) {
	var req spuntaRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.svc.MarkPaid(r.Context(), req.Cella); err != nil {
		h.fail(w, http.StatusInternalServerError, err)
		return
	}
	h.ok(w, nil)
}

type spunteRequest struct {
	Celle []string `json:"celle"`
}

func (h *handler) postSpunte(w http.ResponseWriter, r *http.Request) {
	var req spunteRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.svc.MarkPaidBatch(r.Context(), req.Celle); err != nil {
		h.fail(w, http.StatusInternalServerError, err)
		return
	}
	if len(req.Celle) == 0 {
		h.ok(w, map[string]any{"message": "Nessuna cella da aggiornare."})
		return
	}
	h.ok(w, nil)
}

type aggiustamentoRequest struct {
	MatchID string  `json:"matchId" validate:"required"`
	Importo float64 `json:"importo"`
}

func (h *handler) postAggiustamento(w http.ResponseWriter, r *http.Request) {
	var req aggiustamentoRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.svc.SaveAdjustment(r.Context(), req.MatchID, req.Importo); err != nil {
		h.fail(w, http.StatusInternalServerError, err)
		return
	}
	h.ok(w, map[string]any{"message": "Aggiustamento salvato per " + req.MatchID + "."})
}

type pagamentoRequest struct {
	Data    string  `json:"data" validate:"required,datetime=02/01/2006"`
	Oggetto string  `json:"oggetto" validate:"required"`
	Importo float64 `json:"importo" validate:"required"`
}

func (h *handler) postPagamento(w http.ResponseWriter, r *http.Request) {
	var req pagamentoRequest
	if !h.decode(w, r, &req) {
		return
	}
	row, err := h.svc.AddPayment(r.Context(), models.PaymentEntry{
		Data:    req.Data,
		Oggetto: req.Oggetto,
		Importo: req.Importo,
	})
	if err != nil {
		h.fail(w, http.StatusInternalServerError, err)
		return
	}
	h.ok(w, map[string]any{"message": "Pagamento aggiunto alla riga " + itoa(row) + "!"})
}

type tesseratoRequest struct {
	Fields map[string]string `json:"fields"`
}

func (h *handler) postTesserato(w http.ResponseWriter, r *http.Request) {
	var req tesseratoRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Fields["CF"] == "" {
		h.failMsg(w, http.StatusBadRequest, "campo CF obbligatorio")
		return
	}
	res, err := h.svc.AddPerson(r.Context(), req.Fields)
	if err != nil {
		h.failWith(w, http.StatusInternalServerError, err, map[string]any{"result": res})
		return
	}
	h.ok(w, map[string]any{
		"message": "Tesserato aggiunto alla riga " + itoa(res.Row) + "!",
		"result":  res,
	})
}

func (h *handler) postDistinta(w http.ResponseWriter, r *http.Request) {
	var req models.DistintaRequest
	if !h.decode(w, r, &req) {
		return
	}
	res, err := h.svc.GenerateDistinta(r.Context(), req)
	if err != nil {
		h.failWith(w, http.StatusInternalServerError, err, map[string]any{"result": res})
		return
	}
	h.ok(w, map[string]any{"url": res.URL, "result": res})
}

func (h *handler) postMessaggioInvia(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.SendPaymentsMessage(r.Context()); err != nil {
		h.fail(w, http.StatusInternalServerError, err)
		return
	}
	h.ok(w, map[string]any{"message": "Messaggio inviato al gruppo."})
}

// ---------- helpers ----------

// decode reads and validates a JSON body; on failure it answers the client
// and returns false.
func (h *handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.fail(w, http.StatusBadRequest, err)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		if _, ok := err.(*validator.InvalidValidationError); !ok {
			h.fail(w, http.StatusBadRequest, err)
			return false
		}
	}
	return true
}

func (h *handler) ok(w http.ResponseWriter, extra map[string]any) {
	body := map[string]any{"success": true}
	for k, v := range extra {
		body[k] = v
	}
	h.writeJSON(w, http.StatusOK, body)
}

func (h *handler) fail(w http.ResponseWriter, status int, err error) {
	h.failWith(w, status, err, nil)
}

func (h *handler) failMsg(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]any{"success": false, "message": msg})
}

func (h *handler) failWith(w http.ResponseWriter, status int, err error, extra map[string]any) {
	h.log.WithError(err).Warn("richiesta fallita")
	body := map[string]any{"success": false, "message": err.Error()}
	for k, v := range extra {
		body[k] = v
	}
	h.writeJSON(w, status, body)
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.log.WithError(err).Error("scrittura risposta")
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
