// Package mockserver is an in-memory stand-in for a NocoDB records table and
// the manual-start webhook, for local runs and tests.
package mockserver

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"prospectsheet/internal/model"
)

const (
	RecordsPattern = "/api/v2/tables/{table}/records"
	WebhookPath    = "/webhook/manual-start"
)

type Options struct {
	// Token is required in xc-token when set.
	Token string
	// Latency delays every answer.
	Latency time.Duration
	Logger  *zap.Logger
}

type Server struct {
	opt Options
	log *zap.Logger

	mu        sync.Mutex
	records   []model.Record
	nextID    int
	failHooks map[string]bool
	triggered []string
}

func New(seed []model.Record, opt Options) *Server {
	s := &Server{opt: opt, log: opt.Logger, failHooks: map[string]bool{}}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	for _, r := range seed {
		s.records = append(s.records, clone(r))
		if id, ok := r.RecordID(); ok {
			if n, err := strconv.Atoi(id); err == nil && n > s.nextID {
				s.nextID = n
			}
		}
	}
	return s
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+RecordsPattern, s.auth(s.list))
	mux.HandleFunc("POST "+RecordsPattern, s.auth(s.create))
	mux.HandleFunc("PATCH "+RecordsPattern, s.auth(s.update))
	mux.HandleFunc("POST "+WebhookPath, s.webhook)
	return mux
}

// FailWebhook makes the webhook answer 500 for the given spreadsheet id.
func (s *Server) FailWebhook(spreadsheetID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failHooks[spreadsheetID] = true
}

// Triggered lists the spreadsheet ids the webhook received, in order.
func (s *Server) Triggered() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.triggered...)
}

// Records returns a copy of the table.
func (s *Server) Records() []model.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Record, len(s.records))
	for i, r := range s.records {
		out[i] = clone(r)
	}
	return out
}

func (s *Server) auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.opt.Latency > 0 {
			time.Sleep(s.opt.Latency)
		}
		if s.opt.Token != "" && r.Header.Get("xc-token") != s.opt.Token {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"msg": "invalid token"})
			return
		}
		next(w, r)
	}
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	s.mu.Lock()
	total := len(s.records)
	if limit <= 0 {
		limit = 25
	}
	if offset > total {
		offset = total
	}
	end := min(offset+limit, total)
	page := make([]model.Record, 0, end-offset)
	for _, rec := range s.records[offset:end] {
		page = append(page, clone(rec))
	}
	s.mu.Unlock()

	s.log.Debug("list", zap.String("table", r.PathValue("table")), zap.Int("offset", offset), zap.Int("rows", len(page)))
	writeJSON(w, http.StatusOK, map[string]any{
		"list":     page,
		"pageInfo": map[string]any{"totalRows": total, "isLastPage": end >= total},
	})
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	var rec model.Record
	if err := decode(r.Body, &rec); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"msg": err.Error()})
		return
	}
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	rec["Id"] = id
	s.records = append(s.records, clone(rec))
	s.mu.Unlock()
	s.log.Info("create", zap.Int("id", id))
	writeJSON(w, http.StatusOK, map[string]any{"Id": id})
}

// update applies NocoDB's bulk PATCH: an array of objects carrying their id.
func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	var items []model.Record
	if err := decode(r.Body, &items); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"msg": err.Error()})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var done []map[string]any
	for _, it := range items {
		id, ok := it.RecordID()
		if !ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{"msg": "missing id"})
			return
		}
		i := s.indexLocked(id)
		if i < 0 {
			writeJSON(w, http.StatusNotFound, map[string]string{"msg": "record " + id + " not found"})
			return
		}
		for k, v := range it {
			if k == "id" || k == "Id" {
				continue
			}
			s.records[i][k] = v
		}
		done = append(done, map[string]any{"Id": s.records[i]["Id"]})
	}
	s.log.Info("update", zap.Int("records", len(done)))
	writeJSON(w, http.StatusOK, done)
}

func (s *Server) webhook(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SpreadsheetID string `json:"spreadsheet_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"msg": err.Error()})
		return
	}
	s.mu.Lock()
	s.triggered = append(s.triggered, body.SpreadsheetID)
	fail := s.failHooks[body.SpreadsheetID]
	s.mu.Unlock()
	if fail {
		s.log.Warn("webhook failing on purpose", zap.String("spreadsheet_id", body.SpreadsheetID))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"msg": "automation failed"})
		return
	}
	s.log.Info("webhook", zap.String("spreadsheet_id", body.SpreadsheetID))
	writeJSON(w, http.StatusOK, map[string]string{"status": "started"})
}

func (s *Server) indexLocked(id string) int {
	for i, r := range s.records {
		if rid, ok := r.RecordID(); ok && rid == id {
			return i
		}
	}
	return -1
}

func decode(r io.Reader, out any) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return dec.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func clone(r model.Record) model.Record {
	out := make(model.Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
