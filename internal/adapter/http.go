// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/MKhiriev/go-quote-keeper/internal/config"
	"github.com/MKhiriev/go-quote-keeper/internal/logger"
	"github.com/MKhiriev/go-quote-keeper/internal/utils"
	"github.com/MKhiriev/go-quote-keeper/models"
)

type httpDiscoveryAdapter struct {
	client *utils.HTTPClient

	logger *logger.Logger
}

// NewHTTPDiscoveryAdapter constructs the HTTP implementation of
// [DiscoveryAdapter]. It normalises cfg.DiscoveryURL and configures the
// underlying client with the resolved base URL and request timeout.
//
// Returns an error if cfg.DiscoveryURL is empty or cannot be parsed.
func NewHTTPDiscoveryAdapter(cfg config.Adapter, logger *logger.Logger) (DiscoveryAdapter, error) {
	baseURL, err := normalizeBaseURL(cfg.DiscoveryURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBaseURL, err)
	}

	client := utils.NewHTTPClient()
	client.
		SetBaseURL(baseURL).
		SetTimeout(config.RequestTimeoutOrDefault(cfg.RequestTimeout, defaultRequestTimeout)).
		SetHeader("Accept", "application/json")

	return &httpDiscoveryAdapter{client: client, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// ListQuotes implements [DiscoveryAdapter].
func (h *httpDiscoveryAdapter) ListQuotes(ctx context.Context, limit int) ([]models.Quote, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	body, err := h.get(ctx, "/quotes", query)
	if err != nil {
		return nil, fmt.Errorf("list quotes request: %w", err)
	}

	return decodeQuoteList(body)
}

// RandomQuote implements [DiscoveryAdapter].
func (h *httpDiscoveryAdapter) RandomQuote(ctx context.Context, tag string) (models.Quote, error) {
	query := url.Values{}
	if tag = strings.TrimSpace(tag); tag != "" {
		query.Set("tags", tag)
	}

	body, err := h.get(ctx, "/quotes/random", query)
	if err != nil {
		return models.Quote{}, fmt.Errorf("random quote request: %w", err)
	}

	return decodeSingleQuote(body)
}

// ListTags implements [DiscoveryAdapter].
func (h *httpDiscoveryAdapter) ListTags(ctx context.Context) ([]models.Tag, error) {
	body, err := h.get(ctx, "/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("list tags request: %w", err)
	}

	return decodeTagList(body)
}

// SearchQuotes implements [DiscoveryAdapter].
func (h *httpDiscoveryAdapter) SearchQuotes(ctx context.Context, params models.SearchParams) ([]models.Quote, error) {
	body, err := h.get(ctx, "/quotes", searchQuery(params))
	if err != nil {
		return nil, fmt.Errorf("search quotes request: %w", err)
	}

	return decodeQuoteList(body)
}

func (h *httpDiscoveryAdapter) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	log := h.logger.GetChildLogger()
	log.Debug().Str("func", "httpDiscoveryAdapter.get").
		Str("path", path).
		Str("query", query.Encode()).
		Msg("sending discovery request")

	resp, err := h.client.R().
		SetContext(ctx).
		SetQueryParamsFromValues(query).
		Get(path)
	if err != nil {
		return nil, err
	}
	if err = mapHTTPError(resp); err != nil {
		log.Debug().Str("func", "httpDiscoveryAdapter.get").
			Str("path", path).
			Int("status", resp.StatusCode()).
			Msg("discovery request failed")
		return nil, err
	}

	return resp.Body(), nil
}

func searchQuery(params models.SearchParams) url.Values {
	query := url.Values{}
	if q := strings.TrimSpace(params.Query); q != "" {
		query.Set("query", q)
	}
	if tag := strings.TrimSpace(params.Tag); tag != "" {
		query.Set("tags", tag)
	}
	if author := strings.TrimSpace(params.Author); author != "" {
		query.Set("author", author)
	}
	if params.MinLength > 0 {
		query.Set("minLength", strconv.Itoa(params.MinLength))
	}
	if params.MaxLength > 0 {
		query.Set("maxLength", strconv.Itoa(params.MaxLength))
	}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}
	return query
}
