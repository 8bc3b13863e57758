// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/MKhiriev/go-quote-keeper/models"
)

const defaultRequestTimeout = 10 * time.Second

// wireQuote is a quote as any known API deployment returns it: the id is
// "_id" or "id", the author is a plain string or an object with a name, and
// tags are strings or objects with a name.
type wireQuote struct {
	ID      json.RawMessage   `json:"_id"`
	AltID   json.RawMessage   `json:"id"`
	Content string            `json:"content"`
	Author  json.RawMessage   `json:"author"`
	Tags    []json.RawMessage `json:"tags"`
	Length  int               `json:"length"`
}

type wireTag struct {
	ID    json.RawMessage `json:"_id"`
	AltID json.RawMessage `json:"id"`
	Name  string          `json:"name"`
	Slug  string          `json:"slug"`
}

type listEnvelope struct {
	Results json.RawMessage `json:"results"`
	Data    json.RawMessage `json:"data"`
	Quotes  json.RawMessage `json:"quotes"`
	Tags    json.RawMessage `json:"tags"`
}

type quoteEnvelope struct {
	Quote json.RawMessage `json:"quote"`
	Data  json.RawMessage `json:"data"`
}

func decodeQuoteList(body []byte) ([]models.Quote, error) {
	items, err := unwrapList(body)
	if err != nil {
		return nil, err
	}

	var wire []wireQuote
	if err = json.Unmarshal(items, &wire); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodingResponse, err)
	}

	quotes := make([]models.Quote, 0, len(wire))
	for _, w := range wire {
		if q, ok := w.toModel(); ok {
			quotes = append(quotes, q)
		}
	}
	return quotes, nil
}

func decodeSingleQuote(body []byte) (models.Quote, error) {
	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '[' {
		quotes, err := decodeQuoteList(body)
		if err != nil {
			return models.Quote{}, err
		}
		if len(quotes) == 0 {
			return models.Quote{}, ErrEmptyResponse
		}
		return quotes[0], nil
	}

	var env quoteEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return models.Quote{}, fmt.Errorf("%w: %w", ErrDecodingResponse, err)
	}
	if inner := firstPresent(env.Quote, env.Data); inner != nil {
		return decodeSingleQuote(inner)
	}

	var w wireQuote
	if err := json.Unmarshal(body, &w); err != nil {
		return models.Quote{}, fmt.Errorf("%w: %w", ErrDecodingResponse, err)
	}
	q, ok := w.toModel()
	if !ok {
		return models.Quote{}, ErrEmptyResponse
	}
	return q, nil
}

func decodeTagList(body []byte) ([]models.Tag, error) {
	items, err := unwrapList(body)
	if err != nil {
		return nil, err
	}

	var wire []wireTag
	if err = json.Unmarshal(items, &wire); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodingResponse, err)
	}

	tags := make([]models.Tag, 0, len(wire))
	for _, w := range wire {
		name := w.Name
		if name == "" {
			name = w.Slug
		}
		if name == "" {
			continue
		}
		id := firstText(w.ID, w.AltID)
		if id == "" {
			id = name
		}
		tags = append(tags, models.Tag{ID: id, Name: name})
	}
	return tags, nil
}

// unwrapList returns the JSON array held by body, either directly or under
// one of the known envelope keys.
func unwrapList(body []byte) (json.RawMessage, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrDecodingResponse)
	}
	if body[0] == '[' {
		return body, nil
	}

	var env listEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodingResponse, err)
	}
	items := firstPresent(env.Results, env.Data, env.Quotes, env.Tags)
	if items == nil {
		return nil, fmt.Errorf("%w: no list in response", ErrDecodingResponse)
	}
	return items, nil
}

func (w wireQuote) toModel() (models.Quote, bool) {
	if w.Content == "" {
		return models.Quote{}, false
	}

	tags := make([]string, 0, len(w.Tags))
	for _, raw := range w.Tags {
		if tag := text(raw); tag != "" {
			tags = append(tags, tag)
		}
	}

	length := w.Length
	if length <= 0 {
		length = utf8.RuneCountInString(w.Content)
	}

	return models.Quote{
		ID:      firstText(w.ID, w.AltID),
		Content: w.Content,
		Author:  text(w.Author),
		Tags:    tags,
		Length:  length,
	}, true
}

func firstPresent(raws ...json.RawMessage) json.RawMessage {
	for _, raw := range raws {
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
			return trimmed
		}
	}
	return nil
}

func firstText(raws ...json.RawMessage) string {
	for _, raw := range raws {
		if s := text(raw); s != "" {
			return s
		}
	}
	return ""
}

// text reads a string, a number, or an object carrying a name.
func text(raw json.RawMessage) string {
	raw = firstPresent(raw)
	if raw == nil {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}

	var named struct {
		Name string `json:"name"`
		Slug string `json:"slug"`
	}
	if err := json.Unmarshal(raw, &named); err == nil {
		if named.Name != "" {
			return named.Name
		}
		return named.Slug
	}
	return ""
}
