package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"
)

var (
	ErrRateLimited      = errors.New("rate limited")
	ErrServerError      = errors.New("server error")
	ErrUnexpectedStatus = errors.New("unexpected status code")
	ErrCircuitOpen      = errors.New("circuit breaker open")
	ErrDecode           = errors.New("undecodable response body")

	errNoHTTPClient  = errors.New("http client not configured")
	errMissingAPIKey = errors.New("api key is not configured")
)

// newCircuitBreaker trips after more than five consecutive failures and probes again after a cool-down.
// Calls abandoned by the caller do not count against the provider.
func newCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})
}

// doRequest executes exactly one GET through the circuit breaker. Non-2xx statuses are
// errors; 204 and other 2xx responses are returned for the caller to decode.
func doRequest(
	ctx context.Context,
	client *resty.Client,
	cb *gobreaker.CircuitBreaker,
	url string,
	buildRequest func(*resty.Request) *resty.Request,
) (*resty.Response, error) {
	if client == nil {
		return nil, errNoHTTPClient
	}

	result, err := cb.Execute(func() (interface{}, error) {
		resp, execErr := buildRequest(client.R().SetContext(ctx)).Get(url)
		if execErr != nil {
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil, fmt.Errorf("%w: %v", context.Canceled, execErr)
			}
			return nil, execErr
		}

		switch code := resp.StatusCode(); {
		case code == http.StatusTooManyRequests:
			return nil, ErrRateLimited
		case code >= 500:
			return nil, fmt.Errorf("%w: %d", ErrServerError, code)
		case code < 200 || code >= 300:
			return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, code)
		}
		return resp, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
		}
		return nil, err
	}

	resp, ok := result.(*resty.Response)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return resp, nil
}
