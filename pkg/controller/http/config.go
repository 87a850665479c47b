package http

import (
	"net/http"

	"github.com/secmon-lab/riskscore/pkg/domain/model/api"
	"github.com/secmon-lab/riskscore/pkg/domain/types"
)

func (s *Server) getCriteria(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, api.CriteriaResponse{
		Criteria: api.NewCriteria(s.uc.Session().Catalog().Criteria()),
	})
}

func (s *Server) getSelectionConfig(w http.ResponseWriter, r *http.Request) {
	selection := make(map[string]string)
	for id, mode := range s.uc.Session().Modes().Modes() {
		selection[id.String()] = mode.String()
	}
	writeJSON(w, r, http.StatusOK, api.SelectionConfigResponse{Selection: selection})
}

func (s *Server) getRiskThresholds(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, api.NewThresholds(s.uc.Session().Thresholds()))
}

func (s *Server) getThresholdPreview(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, api.NewThresholdPreview(s.uc.Session().Thresholds()))
}

func (s *Server) postScore(w http.ResponseWriter, r *http.Request) {
	var req api.ScoreRequest
	if err := readJSON(r, w, &req); err != nil {
		handleError(w, r, err)
		return
	}

	result, err := s.uc.Assessment.Preview(r.Context(), types.OptionIDsFromStrings(req.SelectedOptionIDs))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, api.NewScore(result))
}
