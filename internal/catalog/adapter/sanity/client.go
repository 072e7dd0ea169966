package sanity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"nft-drop/internal/catalog/config"
	apperrors "nft-drop/internal/shared/errors"
	"nft-drop/internal/shared/logger"

	"github.com/go-resty/resty/v2"
)

// queryResponse is the envelope returned by the content query endpoint
type queryResponse struct {
	Query  string          `json:"query"`
	Result json.RawMessage `json:"result"`
	Ms     int             `json:"ms"`
}

type apiError struct {
	Error struct {
		Description string `json:"description"`
		Type        string `json:"type"`
	} `json:"error"`
}

// Client executes GROQ queries against the hosted content API
type Client struct {
	http    *resty.Client
	dataset string
	log     logger.Logger
}

// NewClient creates a query client from the catalog configuration
func NewClient(cfg *config.Config, log logger.Logger) *Client {
	r := resty.New().
		SetBaseURL(cfg.APIBaseURL()).
		SetTimeout(cfg.RequestTimeout).
		SetRetryCount(cfg.RetryCount).
		SetHeader("Accept", "application/json")
	if cfg.Token != "" {
		r.SetAuthToken(cfg.Token)
	}
	return &Client{
		http:    r,
		dataset: cfg.Dataset,
		log:     log.WithComponent("sanity"),
	}
}

// Query runs query with params bound as $name and decodes the result into out.
// It returns false when the result is null.
func (c *Client) Query(ctx context.Context, query string, params map[string]interface{}, out interface{}) (bool, error) {
	qp := map[string]string{"query": query}
	for name, value := range params {
		encoded, err := json.Marshal(value)
		if err != nil {
			return false, apperrors.NewValidationError("unencodable query parameter").
				WithDetail("param", name).WithCause(err)
		}
		qp["$"+name] = string(encoded)
	}

	var body queryResponse
	var failure apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(qp).
		SetResult(&body).
		SetError(&failure).
		Get("/data/query/" + c.dataset)
	if err != nil {
		return false, apperrors.NewUpstreamError("content API request failed").
			WithComponent("sanity").WithCause(err)
	}
	if resp.IsError() {
		c.log.WithFields(map[string]interface{}{
			"status": resp.StatusCode(),
			"type":   failure.Error.Type,
		}).Warn("content API returned an error")
		return false, apperrors.NewUpstreamError(fmt.Sprintf("content API returned %d", resp.StatusCode())).
			WithComponent("sanity").
			WithDetail("description", failure.Error.Description)
	}

	c.log.Debugf("content query completed in %dms", body.Ms)

	raw := bytes.TrimSpace(body.Result)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, apperrors.NewUpstreamError("content API returned an unexpected shape").
			WithComponent("sanity").WithCause(err)
	}
	return true, nil
}
