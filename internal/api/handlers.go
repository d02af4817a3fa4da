package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sells-group/leadtrack/internal/analytics"
	"github.com/sells-group/leadtrack/internal/leads"
	"github.com/sells-group/leadtrack/internal/model"
	"github.com/sells-group/leadtrack/internal/registry"
	"github.com/sells-group/leadtrack/internal/sheets"
)

// debugSampleRows is how many data rows the debug endpoint echoes.
const debugSampleRows = 3

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// trackedLeads returns the registry and the merged leads of every source.
func (s *Server) trackedLeads(r *http.Request) ([]model.TrackedSheet, []model.Lead, error) {
	tracked, err := s.store.List(r.Context())
	if err != nil {
		return nil, nil, err
	}
	if len(tracked) == 0 {
		return tracked, []model.Lead{}, nil
	}
	all, err := s.loader.LoadAll(r.Context(), tracked)
	if err != nil {
		return nil, nil, err
	}
	return tracked, all, nil
}

func (s *Server) getAnalytics(w http.ResponseWriter, r *http.Request) {
	_, all, err := s.trackedLeads(r)
	if err != nil {
		s.internalError(w, r, "Failed to compute analytics", err)
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Snapshot(all, r.URL.Query().Get("client")))
}

func filterFromQuery(r *http.Request) leads.Filter {
	q := r.URL.Query()
	return leads.Filter{
		Query:    q.Get("q"),
		Status:   q.Get("status"),
		Category: q.Get("category"),
		Client:   q.Get("client"),
		State:    q.Get("state"),
	}
}

func (s *Server) getAllLeads(w http.ResponseWriter, r *http.Request) {
	_, all, err := s.trackedLeads(r)
	if err != nil {
		s.internalError(w, r, "Failed to fetch all leads", err)
		return
	}
	writeJSON(w, http.StatusOK, filterFromQuery(r).Apply(all))
}

func (s *Server) getFacets(w http.ResponseWriter, r *http.Request) {
	_, all, err := s.trackedLeads(r)
	if err != nil {
		s.internalError(w, r, "Failed to fetch all leads", err)
		return
	}
	writeJSON(w, http.StatusOK, leads.Facets(all))
}

func (s *Server) listSheets(w http.ResponseWriter, r *http.Request) {
	tracked, err := s.store.List(r.Context())
	if err != nil {
		s.internalError(w, r, "Failed to read config", err)
		return
	}
	writeJSON(w, http.StatusOK, tracked)
}

type addSheetRequest struct {
	URL       string `json:"url"`
	ClientTag string `json:"clientTag"`
	SheetName string `json:"sheetName"`
}

func (s *Server) addSheet(w http.ResponseWriter, r *http.Request) {
	var req addSheetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sheet, err := sheets.Track(r.Context(), s.store, s.meta, sheets.TrackRequest{
		Input:     req.URL,
		ClientTag: req.ClientTag,
		SheetName: req.SheetName,
	}, s.now())
	switch {
	case err == nil:
	case errors.Is(err, sheets.ErrMissingFields):
		writeError(w, http.StatusBadRequest, "URL and Client Tag are required")
		return
	case errors.Is(err, sheets.ErrInvalidSheetID):
		writeError(w, http.StatusBadRequest, "Could not extract sheet ID from input")
		return
	case errors.Is(err, sheets.ErrSheetUnavailable):
		zap.L().Warn("api: sheet metadata failed",
			zap.String("request_id", RequestIDFrom(r.Context())),
			zap.String("input", req.URL),
			zap.Error(err),
		)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, sheets.ErrTabNotFound):
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Tab %q not found in sheet", strings.TrimSpace(req.SheetName)))
		return
	case errors.Is(err, registry.ErrAlreadyTracked):
		writeError(w, http.StatusBadRequest, "Sheet already tracked")
		return
	default:
		s.internalError(w, r, "Failed to add sheet", err)
		return
	}
	s.loader.Cache().Invalidate(sheets.AllLeadsKey)

	writeJSON(w, http.StatusCreated, sheet)
}

type removeSheetRequest struct {
	ID string `json:"id"`
}

func (s *Server) removeSheet(w http.ResponseWriter, r *http.Request) {
	var req removeSheetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "Sheet ID is required")
		return
	}
	if err := s.store.Remove(r.Context(), req.ID); err != nil {
		s.internalError(w, r, "Failed to remove sheet", err)
		return
	}
	s.loader.Cache().Invalidate(sheets.AllLeadsKey)

	writeJSON(w, http.StatusOK, successBody{Success: true})
}

type sheetResponse struct {
	Sheet model.TrackedSheet `json:"sheet"`
	Leads []model.Lead       `json:"leads"`
}

func (s *Server) getSheet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sheet, err := s.store.Get(r.Context(), id)
	if errors.Is(err, registry.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Sheet not found")
		return
	}
	if err != nil {
		s.internalError(w, r, "Failed to read config", err)
		return
	}

	got, err := s.loader.LoadSheet(r.Context(), *sheet)
	if err != nil {
		s.internalError(w, r, "Failed to fetch sheet data", err)
		return
	}
	writeJSON(w, http.StatusOK, sheetResponse{Sheet: *sheet, Leads: got})
}

func (s *Server) getClients(w http.ResponseWriter, r *http.Request) {
	tracked, all, err := s.trackedLeads(r)
	if err != nil {
		s.internalError(w, r, "Failed to load clients", err)
		return
	}
	writeJSON(w, http.StatusOK, analytics.Clients(all, tracked))
}

func (s *Server) clearCache(w http.ResponseWriter, _ *http.Request) {
	s.loader.Invalidate()
	writeJSON(w, http.StatusOK, successBody{Success: true})
}

type debugResponse struct {
	SheetName    string              `json:"sheetName"`
	SheetID      string              `json:"sheetId"`
	Tab          string              `json:"tab"`
	HeaderCount  int                 `json:"headerCount"`
	Headers      []leads.HeaderInfo  `json:"headers"`
	StatusColumn any                 `json:"statusColumnDetected"`
	SampleRows   []map[string]string `json:"sampleRows"`
}

func (s *Server) debug(w http.ResponseWriter, r *http.Request) {
	tracked, err := s.store.List(r.Context())
	if err != nil {
		s.internalError(w, r, "Failed to read config", err)
		return
	}
	if len(tracked) == 0 {
		writeJSON(w, http.StatusOK, errorBody{Error: "No sheets tracked"})
		return
	}

	first := tracked[0]
	data, err := s.loader.Raw(r.Context(), first.ID, first.Tab())
	if err != nil {
		s.internalError(w, r, "Failed to fetch sheet data", err)
		return
	}

	headers := leads.DescribeHeaders(data.Headers)
	resp := debugResponse{
		SheetName:    first.Name,
		SheetID:      first.ID,
		Tab:          first.Tab(),
		HeaderCount:  len(data.Headers),
		Headers:      headers,
		StatusColumn: "NOT FOUND",
		SampleRows:   make([]map[string]string, 0, debugSampleRows),
	}
	if idx, ok := leads.BuildHeaderMap(data.Headers)[leads.FieldStatus]; ok {
		resp.StatusColumn = headers[idx]
	}
	for _, row := range data.Rows[:min(debugSampleRows, len(data.Rows))] {
		sample := make(map[string]string, len(data.Headers))
		for i, h := range data.Headers {
			if i < len(row) {
				sample[h] = row[i]
			} else {
				sample[h] = ""
			}
		}
		resp.SampleRows = append(resp.SampleRows, sample)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	zap.L().Error("api: "+strings.ToLower(msg),
		zap.String("request_id", RequestIDFrom(r.Context())),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	writeError(w, http.StatusInternalServerError, msg)
}
