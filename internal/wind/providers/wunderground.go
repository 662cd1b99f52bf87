package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/i474232898/wind-station/internal/wind"
)

// DefaultBaseURL is the weather.com API host.
const DefaultBaseURL = "https://api.weather.com"

const historyPath = "/v2/pws/history/all"

// WundergroundFetcher implements the wind.Fetcher interface for the weather.com
// personal weather station history API.
type WundergroundFetcher struct {
	name    string
	apiKey  string
	baseURL string
	client  *resty.Client
	circuit *gobreaker.CircuitBreaker
	log     *zap.SugaredLogger
}

func NewWundergroundFetcher(client *resty.Client, baseURL, apiKey string, logger *zap.SugaredLogger) *WundergroundFetcher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &WundergroundFetcher{
		name:    "wunderground",
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		circuit: newCircuitBreaker("wunderground"),
		log:     logger,
	}
}

func (p *WundergroundFetcher) Name() string {
	return p.name
}

// Fetch requests the full-day history of key's station once. A response without an
// observations array is an empty day, not an error.
func (p *WundergroundFetcher) Fetch(ctx context.Context, key wind.Key) ([]wind.RawObservation, error) {
	fail := func(err error) ([]wind.RawObservation, error) {
		return nil, &wind.FetchError{StationID: key.StationID, Date: key.Date, Err: err}
	}
	if p.apiKey == "" {
		return fail(errMissingAPIKey)
	}

	resp, err := doRequest(ctx, p.client, p.circuit, p.baseURL+historyPath, func(r *resty.Request) *resty.Request {
		return r.
			SetHeader("Accept", "application/json").
			SetQueryParams(map[string]string{
				"stationId": key.StationID,
				"format":    "json",
				"units":     "m",
				"date":      key.Date,
				"apiKey":    p.apiKey,
			})
	})
	if err != nil {
		return fail(err)
	}
	if resp.StatusCode() == http.StatusNoContent {
		return []wind.RawObservation{}, nil
	}

	raw, skipped, err := decodeHistory(resp.Body())
	if err != nil {
		return fail(err)
	}
	if skipped > 0 {
		p.log.Warnw("skipped undecodable observation records", "key", key.String(), "skipped", skipped)
	}
	return raw, nil
}

// decodeHistory decodes each element of the observations array on its own so one
// malformed record cannot sink the batch. It returns the number of skipped elements.
func decodeHistory(body []byte) ([]wind.RawObservation, int, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return []wind.RawObservation{}, 0, nil
	}
	if !json.Valid(body) {
		return nil, 0, ErrDecode
	}

	var payload struct {
		Observations json.RawMessage `json:"observations"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return []wind.RawObservation{}, 0, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(payload.Observations, &items); err != nil {
		return []wind.RawObservation{}, 0, nil
	}

	raw := make([]wind.RawObservation, 0, len(items))
	skipped := 0
	for _, item := range items {
		var obs wind.RawObservation
		if err := json.Unmarshal(item, &obs); err != nil {
			skipped++
			continue
		}
		raw = append(raw, obs)
	}
	return raw, skipped, nil
}
