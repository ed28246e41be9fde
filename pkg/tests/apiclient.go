package tests

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"flea_market/pkg/logx"
	"flea_market/pkg/middlewarex"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

// APIClient calls the market API from tests. A 2xx body is decoded into
// dest, any other body into errDest. Either may be nil.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
	profileID  string
}

func NewAPIClient(baseURL string, httpClient *http.Client) APIClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return APIClient{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// AsProfile returns a copy that sends requests on behalf of profileID.
func (a APIClient) AsProfile(profileID string) APIClient {
	a.profileID = profileID
	return a
}

func (a APIClient) Get(ctx context.Context, endpoint string, dest, errDest any) (*http.Response, error) {
	return a.Do(ctx, http.MethodGet, endpoint, nil, dest, errDest)
}

func (a APIClient) Post(ctx context.Context, endpoint string, request, dest, errDest any) (*http.Response, error) {
	return a.Do(ctx, http.MethodPost, endpoint, request, dest, errDest)
}

func (a APIClient) Delete(ctx context.Context, endpoint string, dest, errDest any) (*http.Response, error) {
	return a.Do(ctx, http.MethodDelete, endpoint, nil, dest, errDest)
}

// Do sends request as a JSON body when it is not nil.
func (a APIClient) Do(ctx context.Context, method, endpoint string, request, dest, errDest any) (*http.Response, error) {
	var payload io.Reader = http.NoBody

	if request != nil {
		b, err := json.Marshal(request)
		if err != nil {
			return nil, fmt.Errorf("json.Marshal: %w", err)
		}

		payload = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+endpoint, payload)
	if err != nil {
		return nil, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	if request != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if a.profileID != "" {
		req.Header.Set(middlewarex.HeaderProfileID, a.profileID)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpClient.Do: %w", err)
	}

	defer resp.Body.Close()

	slog.Debug("api call",
		slog.String(logx.FieldHTTPMethod, method),
		slog.String(logx.FieldURL, endpoint),
		slog.Int("status", resp.StatusCode),
		slog.String(logx.FieldProfileID, a.profileID),
	)

	if err = decode(resp, dest, errDest); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	return resp, nil
}

func decode(r *http.Response, dest, errDest any) error {
	target := errDest
	if r.StatusCode >= http.StatusOK && r.StatusCode < http.StatusMultipleChoices {
		target = dest
	}

	if target == nil {
		return nil
	}

	if err := json.NewDecoder(r.Body).Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("json.Decode: %w", err)
	}

	return nil
}
