package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"finanse/internal/core"
	applog "finanse/internal/log"
)

type createTransactionRequest struct {
	Type     core.Type `json:"type"`
	Category string    `json:"category"`
	Amount   float64   `json:"amount"`
	Date     string    `json:"date"`
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	ts, err := s.svc.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if ts == nil {
		ts = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, ts)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCreateRequest(w, r)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, errBodyTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		writeError(w, status, err.Error())
		return
	}

	t, err := s.svc.Create(r.Context(), core.NewTransaction{
		Type:     req.Type,
		Category: req.Category,
		Amount:   req.Amount,
		Date:     req.Date,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, t)
}

var errBodyTooLarge = fmt.Errorf("request body too large: limit is %d bytes", maxBodyBytes)

// decodeCreateRequest reads exactly one JSON object. An empty body decodes
// to the zero request so that it fails validation like any other missing
// field. amount: null decodes to zero for the same reason.
func decodeCreateRequest(w http.ResponseWriter, r *http.Request) (createTransactionRequest, error) {
	var req createTransactionRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return createTransactionRequest{}, nil
		}
		return createTransactionRequest{}, bodyError(err)
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err != nil {
			if e := bodyError(err); errors.Is(e, errBodyTooLarge) {
				return createTransactionRequest{}, e
			}
		}
		return createTransactionRequest{}, errors.New("invalid JSON body: unexpected data after JSON object")
	}
	return req, nil
}

func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return errBodyTooLarge
	}
	return fmt.Errorf("invalid JSON body: %w", err)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	m, err := s.svc.Summary(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Ready(r.Context()); err != nil {
		applog.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", applog.FieldError, err.Error())
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func handleNotFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, "not found")
}

func handleMethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
