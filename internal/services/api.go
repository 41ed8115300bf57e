// Raw HTTP plumbing shared by the Spotify endpoints
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/desertthunder/spotconnect/internal/shared"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

// APIResponse is a raw API response with its status and bounded body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// OK reports a 2xx status.
func (r *APIResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Err describes a non-2xx response as [shared.ErrAPIRequest], using the Spotify error message when present.
func (r *APIResponse) Err() error {
	if r.OK() {
		return nil
	}
	msg := gjson.GetBytes(r.Body, "error.message").String()
	if msg == "" {
		msg = gjson.GetBytes(r.Body, "error_description").String()
	}
	if msg == "" {
		msg = http.StatusText(r.StatusCode)
	}
	if wait := r.Headers.Get("Retry-After"); r.StatusCode == http.StatusTooManyRequests && wait != "" {
		msg += " (retry after " + wait + "s)"
	}
	return fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, r.StatusCode, msg)
}

// APIService performs rate-limited requests whose bodies are read into a [ResponseBuffer].
type APIService struct {
	httpClient  *http.Client
	limiter     *rate.Limiter
	maxResponse int
}

// NewAPIService creates an [APIService]. A nil client uses [http.DefaultClient];
// a rateLimit of zero disables limiting.
func NewAPIService(client *http.Client, maxResponse int, rateLimit float64) *APIService {
	if client == nil {
		client = http.DefaultClient
	}
	if maxResponse <= 0 {
		maxResponse = shared.MinResponseBytes
	}

	limit := rate.Inf
	if rateLimit > 0 {
		limit = rate.Limit(rateLimit)
	}

	return &APIService{
		httpClient:  client,
		limiter:     rate.NewLimiter(limit, 1),
		maxResponse: maxResponse,
	}
}

// Do sends req and reads its body into a fresh [ResponseBuffer].
//
// Transport failures wrap [shared.ErrNetwork], timeouts [shared.ErrTimeout], and oversized bodies
// [shared.ErrResponseTooLarge]. Non-2xx statuses are not errors here; see [APIResponse.Err].
func (a *APIService) Do(req *http.Request) (*APIResponse, error) {
	if err := a.limiter.Wait(req.Context()); err != nil {
		return nil, classify(err)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, classify(err)
	}
	defer resp.Body.Close()

	buf := NewResponseBuffer(a.maxResponse)
	if _, err := io.Copy(buf, resp.Body); err != nil {
		if errors.Is(err, shared.ErrResponseTooLarge) {
			return nil, err
		}
		return nil, classify(err)
	}

	return &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       buf.Bytes(),
	}, nil
}

func classify(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %v", shared.ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", shared.ErrNetwork, err)
}
