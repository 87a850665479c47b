// Package api holds the JSON bodies exchanged between the HTTP controller and its clients.
package api

import (
	"time"

	"github.com/secmon-lab/riskscore/pkg/domain/model"
	"github.com/secmon-lab/riskscore/pkg/domain/model/config"
	"github.com/secmon-lab/riskscore/pkg/domain/types"
)

// BranchHeader carries the caller's branch on officer routes
const BranchHeader = "X-Branch-ID"

type Option struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Points int    `json:"points"`
}

type Criterion struct {
	ID          string   `json:"id"`
	Category    string   `json:"category"`
	Description string   `json:"description,omitempty"`
	Options     []Option `json:"options"`
}

type CriteriaResponse struct {
	Criteria []Criterion `json:"criteria"`
}

type SelectionConfigResponse struct {
	Selection map[string]string `json:"selection"`
}

type Thresholds struct {
	Low      int `json:"low"`
	Moderate int `json:"moderate"`
	High     int `json:"high"`
}

// Band is one tier range. Max is exclusive and nil for the open-ended top band.
type Band struct {
	Tier string `json:"tier"`
	Min  int    `json:"min"`
	Max  *int   `json:"max,omitempty"`
}

type ThresholdPreviewResponse struct {
	Thresholds Thresholds `json:"thresholds"`
	Bands      []Band     `json:"bands"`
}

type ScoreRequest struct {
	SelectedOptionIDs []string `json:"selected_option_ids"`
}

type ScoreResponse struct {
	TotalScore        int      `json:"total_score"`
	RiskTier          string   `json:"risk_tier"`
	SelectedOptionIDs []string `json:"selected_option_ids"`
}

// AssessmentRequest creates or updates an assessment. BranchID is only read on admin create.
type AssessmentRequest struct {
	SubjectName       string   `json:"subject_name"`
	BranchID          string   `json:"branch_id,omitempty"`
	SelectedOptionIDs []string `json:"selected_option_ids"`
}

type Assessment struct {
	ID                string    `json:"id"`
	SubjectName       string    `json:"subject_name"`
	BranchID          string    `json:"branch_id,omitempty"`
	SelectedOptionIDs []string  `json:"selected_option_ids"`
	TotalScore        int       `json:"total_score"`
	RiskTier          string    `json:"risk_tier"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type AssessmentListResponse struct {
	Assessments []Assessment `json:"assessments"`
}

func NewCriteria(criteria []config.Criterion) []Criterion {
	out := make([]Criterion, len(criteria))
	for i, c := range criteria {
		options := make([]Option, len(c.Options))
		for j, opt := range c.Options {
			options[j] = Option{ID: opt.ID.String(), Label: opt.Label, Points: opt.Points}
		}
		out[i] = Criterion{
			ID:          c.ID.String(),
			Category:    c.Category,
			Description: c.Description,
			Options:     options,
		}
	}
	return out
}

func ToDomainCriteria(criteria []Criterion) []config.Criterion {
	out := make([]config.Criterion, len(criteria))
	for i, c := range criteria {
		options := make([]config.Option, len(c.Options))
		for j, opt := range c.Options {
			options[j] = config.Option{ID: types.OptionID(opt.ID), Label: opt.Label, Points: opt.Points}
		}
		out[i] = config.Criterion{
			ID:          types.CriterionID(c.ID),
			Category:    c.Category,
			Description: c.Description,
			Options:     options,
		}
	}
	return out
}

func NewThresholds(t config.ThresholdTable) Thresholds {
	return Thresholds{Low: t.Low, Moderate: t.Moderate, High: t.High}
}

func (t Thresholds) ToDomain() config.ThresholdTable {
	return config.ThresholdTable{Low: t.Low, Moderate: t.Moderate, High: t.High}
}

func NewThresholdPreview(t config.ThresholdTable) ThresholdPreviewResponse {
	bands := t.Bands()
	resp := ThresholdPreviewResponse{
		Thresholds: NewThresholds(t),
		Bands:      make([]Band, len(bands)),
	}
	for i, b := range bands {
		resp.Bands[i] = Band{Tier: b.Tier.String(), Min: b.Min}
		if !b.Unbounded {
			upper := b.Max
			resp.Bands[i].Max = &upper
		}
	}
	return resp
}

func NewScore(result *model.AssessmentResult) ScoreResponse {
	return ScoreResponse{
		TotalScore:        result.TotalScore,
		RiskTier:          result.RiskTier.String(),
		SelectedOptionIDs: types.OptionIDsToStrings(result.SelectedOptionIDs),
	}
}

func NewAssessment(record *model.AssessmentRecord) Assessment {
	return Assessment{
		ID:                record.ID.String(),
		SubjectName:       record.SubjectName,
		BranchID:          record.BranchID.String(),
		SelectedOptionIDs: types.OptionIDsToStrings(record.SelectedOptionIDs),
		TotalScore:        record.TotalScore,
		RiskTier:          record.RiskTier.String(),
		CreatedAt:         record.CreatedAt,
		UpdatedAt:         record.UpdatedAt,
	}
}

func NewAssessmentList(records []*model.AssessmentRecord) AssessmentListResponse {
	resp := AssessmentListResponse{Assessments: make([]Assessment, len(records))}
	for i, r := range records {
		resp.Assessments[i] = NewAssessment(r)
	}
	return resp
}
