// Package geocode turns map pins into readable addresses using a
// Nominatim-compatible reverse geocoding service.
package geocode

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"github.com/chrisdamba/greengrocer/internal/models"
)

// Placeholder is shown when an address cannot be resolved.
const Placeholder = "Address unavailable"

var ErrNoResult = errors.New("no address for location")

type Geocoder struct {
	client *resty.Client
}

type reverseResponse struct {
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
}

func New(cfg models.GeocoderConfig) *Geocoder {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.Retries).
		SetRetryWaitTime(100*time.Millisecond).
		SetRetryMaxWaitTime(time.Second).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", cfg.UserAgent).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= 500
		})
	return &Geocoder{client: client}
}

// Reverse returns the display name of the address closest to loc.
func (g *Geocoder) Reverse(ctx context.Context, loc models.Location) (string, error) {
	if !loc.Valid() {
		return "", fmt.Errorf("invalid location %s", loc)
	}

	var result reverseResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"format": "jsonv2",
			"lat":    strconv.FormatFloat(loc.Lat, 'f', -1, 64),
			"lon":    strconv.FormatFloat(loc.Lon, 'f', -1, 64),
		}).
		SetResult(&result).
		Get("/reverse")
	if err != nil {
		return "", fmt.Errorf("reverse geocode %s: %w", loc, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("reverse geocode %s: unexpected status %d", loc, resp.StatusCode())
	}
	if result.Error != "" || result.DisplayName == "" {
		return "", fmt.Errorf("%w %s", ErrNoResult, loc)
	}
	return result.DisplayName, nil
}

// ResolveOrPlaceholder is Reverse with failures logged and replaced by
// Placeholder.
func (g *Geocoder) ResolveOrPlaceholder(ctx context.Context, loc models.Location) string {
	label, err := g.Reverse(ctx, loc)
	if err != nil {
		log.Warn().Err(err).Msg("Reverse geocoding failed")
		return Placeholder
	}
	return label
}
