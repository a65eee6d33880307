package cms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/vlatan/advocacy-site/internal/config"
	"github.com/vlatan/advocacy-site/internal/models"
)

var (
	ErrUnexpectedStatus  = errors.New("unexpected status from the CMS")
	ErrUnknownCollection = errors.New("unknown collection")
)

// Max bytes of an error body included in the error message
const maxErrorBody = 512

type Service struct {
	httpClient *http.Client
	endpoint   string
	token      string
	limit      int
}

type queryResponse struct {
	Result []models.ContentRecord `json:"result"`
	Ms     int                    `json:"ms"`
}

// New creates a read-only client for the CMS query API
func New(cfg *config.Config) (*Service, error) {

	if cfg == nil {
		return nil, errors.New("unable to create CMS service with nil config")
	}

	endpoint, err := queryEndpoint(cfg)
	if err != nil {
		return nil, err
	}

	return &Service{
		httpClient: &http.Client{Timeout: cfg.CMSTimeout},
		endpoint:   endpoint,
		token:      cfg.CMSToken,
		limit:      cfg.CMSRecordLimit,
	}, nil
}

// ListRecords fetches the records of a collection in the order the CMS returns them
func (s *Service) ListRecords(ctx context.Context, collection models.Collection) ([]models.ContentRecord, error) {

	query, exists := queries[collection]
	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCollection, collection)
	}

	return s.query(ctx, query, map[string]any{"limit": s.limit})
}

// query runs a GROQ query with the given params
func (s *Service) query(ctx context.Context, query string, params map[string]any) ([]models.ContentRecord, error) {

	u, err := url.Parse(s.endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid CMS endpoint; %w", err)
	}

	// Params are passed as JSON encoded values prefixed with $
	q := u.Query()
	q.Set("query", query)
	for key, value := range params {
		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("couldn't encode the query param %q; %w", key, err)
		}
		q.Set("$"+key, string(encoded))
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("couldn't create the CMS request; %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("CMS request failed; %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("%w: %d %s", ErrUnexpectedStatus, resp.StatusCode, body)
	}

	var payload queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("couldn't decode the CMS response; %w", err)
	}

	return payload.Result, nil
}

// queryEndpoint builds the URL of the query API for the configured dataset.
// An explicit base URL overrides the project host.
func queryEndpoint(cfg *config.Config) (string, error) {

	base := cfg.CMSBaseURL
	if base == "" {
		if cfg.CMSProjectID == "" {
			return "", errors.New("no CMS project ID configured")
		}

		host := "api.sanity.io"
		if cfg.CMSUseCDN && cfg.CMSToken == "" {
			host = "apicdn.sanity.io"
		}

		base = fmt.Sprintf("https://%s.%s", cfg.CMSProjectID, host)
	}

	if cfg.CMSDataset == "" {
		return "", errors.New("no CMS dataset configured")
	}

	return url.JoinPath(base, "v"+cfg.CMSAPIVersion, "data", "query", cfg.CMSDataset)
}
