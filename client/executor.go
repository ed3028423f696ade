package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"finance-dashboard/api/models"
)

// ImportMode selects how an imported CSV merges into the transactions list.
type ImportMode string

const (
	ImportAppend  ImportMode = "append"
	ImportReplace ImportMode = "replace"
	ImportUpsert  ImportMode = "upsert"
)

// Executor issues exactly one store request per call. No retries live here:
// retry policy belongs to the transport, not the protocol.
type Executor interface {
	Execute(ctx context.Context, req Request) (json.RawMessage, error)
	FetchDashboard(ctx context.Context) (*models.Dashboard, error)
	ImportTransactionsCSV(ctx context.Context, mode ImportMode, data []byte) error
}

// HTTPExecutor talks to the dashboard API with a bearer token.
type HTTPExecutor struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

var _ Executor = (*HTTPExecutor)(nil)

func NewHTTPExecutor(baseURL, token string) *HTTPExecutor {
	return &HTTPExecutor{
		BaseURL:    baseURL,
		Token:      token,
		HTTPClient: http.DefaultClient,
	}
}

func (e *HTTPExecutor) Execute(ctx context.Context, req Request) (json.RawMessage, error) {
	method, path, body := req.httpRequest()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, &TransportError{Err: fmt.Errorf("error marshaling request: %v", err)}
		}
		reader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, e.BaseURL+path, reader)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Authorization", "Bearer "+e.Token)

	resp, err := e.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	if err := statusError(resp.StatusCode, raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (e *HTTPExecutor) FetchDashboard(ctx context.Context) (*models.Dashboard, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, e.BaseURL+"/api/dashboard", nil)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	httpReq.Header.Set("Authorization", "Bearer "+e.Token)

	resp, err := e.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	if err := statusError(resp.StatusCode, raw); err != nil {
		return nil, err
	}

	var doc models.Dashboard
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &TransportError{Err: fmt.Errorf("error decoding dashboard: %v", err)}
	}
	return &doc, nil
}

func (e *HTTPExecutor) ImportTransactionsCSV(ctx context.Context, mode ImportMode, data []byte) error {
	url := fmt.Sprintf("%s/api/transactions/import?mode=%s", e.BaseURL, mode)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return &TransportError{Err: err}
	}
	httpReq.Header.Set("Content-Type", "text/csv")
	httpReq.Header.Set("Authorization", "Bearer "+e.Token)

	resp, err := e.HTTPClient.Do(httpReq)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Err: err}
	}
	return statusError(resp.StatusCode, raw)
}

// statusError maps a response status onto the failure taxonomy.
func statusError(status int, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}

	var parsed struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(body, &parsed)
	msg := parsed.Error
	if msg == "" {
		msg = http.StatusText(status)
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &AuthError{Status: status}
	case status == http.StatusNotFound:
		return &NotFoundError{Message: msg}
	case status >= 400 && status < 500:
		return &RejectedError{Status: status, Message: msg}
	default:
		return &TransportError{Err: fmt.Errorf("server error %d: %s", status, msg)}
	}
}
