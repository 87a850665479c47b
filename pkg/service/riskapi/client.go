package riskapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskscore/pkg/domain/interfaces"
	"github.com/secmon-lab/riskscore/pkg/domain/model"
	"github.com/secmon-lab/riskscore/pkg/domain/model/api"
	"github.com/secmon-lab/riskscore/pkg/domain/model/config"
	"github.com/secmon-lab/riskscore/pkg/domain/types"
	"github.com/secmon-lab/riskscore/pkg/utils/safe"
)

// Paths of the configuration endpoints
const (
	CriteriaPath        = "/api/criteria"
	SelectionConfigPath = "/api/selection-config"
	RiskThresholdsPath  = "/api/risk-thresholds"
)

const maxErrorBody = 4096

var (
	ErrUnexpectedStatus = goerr.New("unexpected response status")
	ErrInvalidResponse  = goerr.New("invalid response body")
	ErrInvalidBaseURL   = goerr.New("invalid base URL")
)

// Client talks to a riskscore server. It is a ConfigStore and, bound to one assessments
// collection, an AssessmentGateway.
type Client struct {
	baseURL    string
	collection string
	branchID   types.BranchID
	httpClient *http.Client
}

var (
	_ interfaces.ConfigStore       = &Client{}
	_ interfaces.AssessmentGateway = &Client{}
)

type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient
func WithHTTPClient(c *http.Client) Option {
	return func(x *Client) {
		x.httpClient = c
	}
}

// WithBranch sends the branch header on every request, as officer routes require
func WithBranch(branchID types.BranchID) Option {
	return func(x *Client) {
		x.branchID = branchID
	}
}

// New creates a client for the server at baseURL. collection is the assessments path, e.g.
// AssessmentEndpoints.Collection().
func New(baseURL, collection string, opts ...Option) (*Client, error) {
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		return nil, goerr.Wrap(ErrInvalidBaseURL, "base URL must start with http:// or https://", goerr.V("base_url", baseURL))
	}

	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		collection: collection,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) GetCriteria(ctx context.Context) ([]config.Criterion, error) {
	var resp api.CriteriaResponse
	if err := c.do(ctx, http.MethodGet, CriteriaPath, nil, &resp); err != nil {
		return nil, err
	}
	return api.ToDomainCriteria(resp.Criteria), nil
}

func (c *Client) GetSelectionConfig(ctx context.Context) (map[string]string, error) {
	var resp api.SelectionConfigResponse
	if err := c.do(ctx, http.MethodGet, SelectionConfigPath, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Selection == nil {
		return map[string]string{}, nil
	}
	return resp.Selection, nil
}

func (c *Client) GetRiskThresholds(ctx context.Context) (config.ThresholdTable, error) {
	var resp api.Thresholds
	if err := c.do(ctx, http.MethodGet, RiskThresholdsPath, nil, &resp); err != nil {
		return config.ThresholdTable{}, err
	}
	return resp.ToDomain(), nil
}

func (c *Client) item(id types.AssessmentID) string {
	return c.collection + "/" + id.String()
}

func (c *Client) GetExistingAssessment(ctx context.Context, id types.AssessmentID) (*model.ExistingAssessment, error) {
	var resp api.Assessment
	if err := c.do(ctx, http.MethodGet, c.item(id), nil, &resp); err != nil {
		return nil, err
	}
	return &model.ExistingAssessment{
		ID:                types.AssessmentID(resp.ID),
		SubjectName:       resp.SubjectName,
		BranchID:          types.BranchID(resp.BranchID),
		SelectedOptionIDs: types.OptionIDsFromStrings(resp.SelectedOptionIDs),
	}, nil
}

func (c *Client) SubmitAssessment(ctx context.Context, req *model.SubmitAssessmentRequest) (*model.SubmitAssessmentResponse, error) {
	body := api.AssessmentRequest{
		SubjectName:       req.SubjectName,
		BranchID:          req.BranchID.String(),
		SelectedOptionIDs: types.OptionIDsToStrings(req.SelectedOptionIDs),
	}

	var resp api.Assessment
	if err := c.do(ctx, http.MethodPost, c.collection, body, &resp); err != nil {
		return nil, err
	}
	return &model.SubmitAssessmentResponse{
		ID:         types.AssessmentID(resp.ID),
		TotalScore: resp.TotalScore,
		RiskTier:   types.RiskTier(resp.RiskTier),
	}, nil
}

func (c *Client) UpdateAssessment(ctx context.Context, id types.AssessmentID, req *model.UpdateAssessmentRequest) (*model.UpdateAssessmentResponse, error) {
	body := api.AssessmentRequest{
		SubjectName:       req.SubjectName,
		SelectedOptionIDs: types.OptionIDsToStrings(req.SelectedOptionIDs),
	}

	var resp api.Assessment
	if err := c.do(ctx, http.MethodPut, c.item(id), body, &resp); err != nil {
		return nil, err
	}
	return &model.UpdateAssessmentResponse{
		Success:    true,
		TotalScore: resp.TotalScore,
		RiskTier:   types.RiskTier(resp.RiskTier),
	}, nil
}

// do sends a JSON request and decodes a JSON response into out. 400 maps to ErrValidation and
// 404 to ErrNotFound; other non-2xx statuses are ErrUnexpectedStatus.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return goerr.Wrap(err, "failed to marshal request body")
		}
		body = bytes.NewReader(raw)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return goerr.Wrap(err, "failed to create request", goerr.V("url", url))
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.branchID != "" {
		req.Header.Set(api.BranchHeader, c.branchID.String())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "request failed", goerr.V("method", method), goerr.V("url", url))
	}
	defer safe.Close(ctx, resp.Body, "response body")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		vals := []goerr.Option{
			goerr.V("method", method),
			goerr.V("url", url),
			goerr.V("status", resp.StatusCode),
			goerr.V("body", strings.TrimSpace(string(msg))),
		}
		switch resp.StatusCode {
		case http.StatusBadRequest:
			return goerr.Wrap(model.ErrValidation, strings.TrimSpace(string(msg)), vals...)
		case http.StatusNotFound:
			return goerr.Wrap(model.ErrNotFound, "resource not found", vals...)
		default:
			return goerr.Wrap(ErrUnexpectedStatus, "server returned an error", vals...)
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return goerr.Wrap(errors.Join(ErrInvalidResponse, err), "failed to decode response", goerr.V("url", url))
	}
	return nil
}
