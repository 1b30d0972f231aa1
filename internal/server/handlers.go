package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/meltforce/planfit/internal/export"
	"github.com/meltforce/planfit/internal/ingest/coachplan"
	"github.com/meltforce/planfit/internal/models"
)

// defaultUserID scopes all data until multi-user auth exists.
const defaultUserID = 1

// PlanRequest is the JSON body of the plan ingest and parse endpoints.
type PlanRequest struct {
	Code           string         `json:"code"`
	Discipline     string         `json:"discipline"`
	Text           string         `json:"text"`
	ExpectedTotal  int            `json:"expected_total,omitempty"`
	ExpectedPhases map[string]int `json:"expected_phases,omitempty"`
}

func (pr PlanRequest) document() models.Document {
	doc := models.Document{
		Text:       pr.Text,
		Discipline: pr.Discipline,
		Expected:   models.ExpectedCounts{Total: pr.ExpectedTotal},
	}
	if len(pr.ExpectedPhases) > 0 {
		doc.Expected.PerPhase = make(map[models.PhaseRole]int, len(pr.ExpectedPhases))
		for role, n := range pr.ExpectedPhases {
			doc.Expected.PerPhase[models.PhaseRole(role)] = n
		}
	}
	return doc
}

func (s *Server) handlePlanIngest(w http.ResponseWriter, r *http.Request) {
	var req PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Text == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "text is required"})
		return
	}

	result, err := s.plans.Ingest(r.Context(), req.Code, req.document(), defaultUserID)
	if err != nil {
		s.log.Error("plan ingest error", "code", req.Code, "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleParse runs the parser without touching storage. The optional
// profile query parameter applies a normalization profile to the result.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Text == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "text is required"})
		return
	}

	result := coachplan.Parse(req.document())

	if profile := r.URL.Query().Get("profile"); profile != "" {
		normalized, err := s.profiles.Apply(result, profile)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		result = normalized
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleQueryPlans(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	rows, err := s.db.QueryPlans(r.Context(), start, end, defaultUserID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid plan id"})
		return
	}

	detail, err := s.db.GetPlan(r.Context(), id, defaultUserID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "plan not found"})
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleExportPlan(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid plan id"})
		return
	}

	detail, err := s.db.GetPlan(r.Context(), id, defaultUserID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "plan not found"})
		return
	}
	writeJSON(w, http.StatusOK, export.FromIntervalRows(detail.Intervals))
}

func (s *Server) handleProfiles(w http.ResponseWriter, r *http.Request) {
	type profileInfo struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	var infos []profileInfo
	for _, name := range s.profiles.Names() {
		p, _ := s.profiles.Get(name)
		infos = append(infos, profileInfo{Name: p.Name, Description: p.Description})
	}
	writeJSON(w, http.StatusOK, infos)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func parseTimeRange(r *http.Request) (start, end time.Time, err error) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if startStr == "" {
		// Default: last 30 days of plans
		end = time.Now()
		start = end.AddDate(0, 0, -30)
		return
	}

	start, err = time.Parse(time.RFC3339, startStr)
	if err != nil {
		start, err = time.Parse("2006-01-02", startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}

	if endStr == "" {
		end = time.Now()
	} else {
		end, err = time.Parse(time.RFC3339, endStr)
		if err != nil {
			end, err = time.Parse("2006-01-02", endStr)
			if err != nil {
				return time.Time{}, time.Time{}, err
			}
			// End of day for date-only
			end = end.Add(24 * time.Hour)
		}
	}
	return
}
