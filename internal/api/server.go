// Package api exposes the classification pipeline and history browsing
// over JSON HTTP. History navigation state is per-session: clients carry
// an X-Session-ID header and the server keeps one pagination cursor per
// session, mirroring the next/prev/refresh navigation of the UI.
package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"vnsentiment/internal/paging"
	"vnsentiment/internal/pipeline"
	sqlitestore "vnsentiment/internal/storage/sqlite"
)

const sessionHeader = "X-Session-ID"

const invalidLengthMessage = "Độ dài câu không hợp lệ, vui lòng thử lại (5-50 ký tự)"

type Server struct {
	db       *sql.DB
	pipe     *pipeline.Pipeline
	addr     string
	pageSize int
	timeout  time.Duration

	mu       sync.Mutex
	sessions map[string]*paging.Cursor
}

func New(db *sql.DB, pipe *pipeline.Pipeline, addr string, pageSize int, timeout time.Duration) *Server {
	return &Server{
		db:       db,
		pipe:     pipe,
		addr:     addr,
		pageSize: pageSize,
		timeout:  timeout,
		sessions: make(map[string]*paging.Cursor),
	}
}

// Handler builds the route table. Split from Run so tests can drive the
// server through httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /classify", s.handleClassify)
	mux.HandleFunc("GET /history", s.handleHistory)
	mux.HandleFunc("POST /history/next", s.handleHistoryNext)
	mux.HandleFunc("POST /history/prev", s.handleHistoryPrev)
	mux.HandleFunc("POST /history/refresh", s.handleHistoryRefresh)
	mux.HandleFunc("POST /history/clear", s.handleHistoryClear)
	mux.HandleFunc("GET /health", s.handleHealth)

	return mux
}

func (s *Server) Run() error {
	return http.ListenAndServe(s.addr, s.Handler())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// sessionID returns the caller's session id, minting one for new callers.
// The id is always echoed in the response header.
func (s *Server) sessionID(w http.ResponseWriter, r *http.Request) string {
	id := strings.TrimSpace(r.Header.Get(sessionHeader))
	if id == "" {
		id = uuid.NewString()
	}
	w.Header().Set(sessionHeader, id)
	return id
}

// cursor returns the session's cursor, creating it on first use.
// Callers must hold s.mu.
func (s *Server) cursor(sessionID string) *paging.Cursor {
	cur, ok := s.sessions[sessionID]
	if !ok {
		cur = paging.NewCursor()
		s.sessions[sessionID] = cur
	}
	return cur
}

type classifyRequest struct {
	Text string `json:"text"`
}

type classifyResponse struct {
	SessionID     string  `json:"session_id"`
	RecordID      int64   `json:"record_id"`
	OriginalText  string  `json:"original_text"`
	CorrectedText string  `json:"corrected_text"`
	Text          string  `json:"text"`
	Sentiment     string  `json:"sentiment"`
	Confidence    float64 `json:"confidence"`
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	sessionID := s.sessionID(w, r)

	var req classifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	result, err := s.pipe.Classify(ctx, req.Text)
	if err != nil {
		var lengthErr *pipeline.InvalidLengthError
		var storageErr *pipeline.StorageError
		switch {
		case errors.As(err, &lengthErr):
			writeError(w, http.StatusUnprocessableEntity, invalidLengthMessage)
		case errors.Is(err, pipeline.ErrScorerNotReady):
			writeError(w, http.StatusServiceUnavailable, "sentiment scorer is not ready")
		case errors.As(err, &storageErr):
			writeError(w, http.StatusInternalServerError, "could not save classification record")
		default:
			writeError(w, http.StatusBadGateway, "Pipeline error: "+err.Error())
		}
		return
	}

	// A new classification restarts the session's history browsing.
	s.mu.Lock()
	s.cursor(sessionID).Reset()
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, classifyResponse{
		SessionID:     sessionID,
		RecordID:      result.RecordID,
		OriginalText:  result.RawText,
		CorrectedText: result.CorrectedText,
		Text:          result.Text,
		Sentiment:     result.Sentiment,
		Confidence:    result.Confidence,
	})
}

type historyRecord struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Sentiment string `json:"sentiment"`
	Timestamp string `json:"timestamp"`
}

type historyResponse struct {
	SessionID   string          `json:"session_id"`
	Records     []historyRecord `json:"records"`
	Page        int             `json:"page"`
	TotalPages  int             `json:"total_pages"`
	HasMore     bool            `json:"has_more"`
	OnFirstPage bool            `json:"on_first_page"`
}

// buildHistoryPage loads the cursor's current page and refreshes the
// cursor's has_more flag from the store. Callers must hold s.mu.
func (s *Server) buildHistoryPage(sessionID string, cur *paging.Cursor) (historyResponse, error) {
	records, err := sqlitestore.PageRecords(s.db, cur.LastSeenID(), s.pageSize)
	if err != nil {
		return historyResponse{}, err
	}

	if len(records) > 0 {
		oldest := records[len(records)-1].ID
		more, err := sqlitestore.HasMoreRecords(s.db, oldest)
		if err != nil {
			return historyResponse{}, err
		}
		cur.SetHasMore(more)
	} else {
		cur.SetHasMore(false)
	}

	totalPages, err := sqlitestore.TotalPages(s.db, s.pageSize)
	if err != nil {
		return historyResponse{}, err
	}

	resp := historyResponse{
		SessionID:   sessionID,
		Records:     make([]historyRecord, 0, len(records)),
		Page:        cur.PageNumber(),
		TotalPages:  totalPages,
		HasMore:     cur.HasMore(),
		OnFirstPage: cur.OnFirstPage(),
	}
	for _, rec := range records {
		resp.Records = append(resp.Records, historyRecord{
			ID:        rec.ID,
			Text:      rec.Text,
			Sentiment: rec.Sentiment,
			Timestamp: rec.Timestamp.Format("2006-01-02 15:04:05"),
		})
	}
	return resp, nil
}

func (s *Server) respondHistory(w http.ResponseWriter, sessionID string, cur *paging.Cursor) {
	resp, err := s.buildHistoryPage(sessionID, cur)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not load history")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := s.sessionID(w, r)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.respondHistory(w, sessionID, s.cursor(sessionID))
}

func (s *Server) handleHistoryNext(w http.ResponseWriter, r *http.Request) {
	sessionID := s.sessionID(w, r)
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.cursor(sessionID)

	// Re-read the current page to learn its oldest id; advance only when
	// the store reported records beyond it.
	page, err := s.buildHistoryPage(sessionID, cur)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not load history")
		return
	}
	if cur.HasMore() && len(page.Records) > 0 {
		cur.Advance(page.Records[len(page.Records)-1].ID)
	}
	s.respondHistory(w, sessionID, cur)
}

func (s *Server) handleHistoryPrev(w http.ResponseWriter, r *http.Request) {
	sessionID := s.sessionID(w, r)
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.cursor(sessionID)
	cur.Retreat()
	s.respondHistory(w, sessionID, cur)
}

func (s *Server) handleHistoryRefresh(w http.ResponseWriter, r *http.Request) {
	sessionID := s.sessionID(w, r)
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.cursor(sessionID)
	cur.Reset()
	s.respondHistory(w, sessionID, cur)
}

func (s *Server) handleHistoryClear(w http.ResponseWriter, r *http.Request) {
	sessionID := s.sessionID(w, r)

	if err := sqlitestore.DeleteAllRecords(s.db); err != nil {
		writeError(w, http.StatusInternalServerError, "could not clear history")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.cursor(sessionID)
	cur.Reset()
	s.respondHistory(w, sessionID, cur)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
