package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/choiyuns329/Japan-trip/internal/domain"
)

// DefaultPublicURL is where the front-end is served during development.
const DefaultPublicURL = "http://localhost:5173"

// ShareLink encodes trip into the fragment of baseURL. The fragment is the
// standard base64 of the document's UTF-8 JSON, which the front-end reads
// back on load.
func ShareLink(baseURL string, trip domain.Trip) (string, error) {
	raw, err := json.Marshal(trip)
	if err != nil {
		return "", fmt.Errorf("service.ShareLink: %w", err)
	}
	return strings.TrimRight(baseURL, "#") + "#" + base64.StdEncoding.EncodeToString(raw), nil
}

// DecodeShareLink reverses ShareLink. It accepts a full link or just the
// fragment. The result is normalized and validated.
func DecodeShareLink(link string) (domain.Trip, error) {
	frag := link
	if i := strings.LastIndex(link, "#"); i >= 0 {
		frag = link[i+1:]
	}
	frag = strings.TrimSpace(frag)
	if frag == "" {
		return domain.Trip{}, fmt.Errorf("service.DecodeShareLink: %w: empty share data", domain.ErrValidation)
	}

	raw, err := base64.StdEncoding.DecodeString(frag)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.DecodeShareLink: %w: %v", domain.ErrValidation, err)
	}

	var t domain.Trip
	if err := json.Unmarshal(raw, &t); err != nil {
		return domain.Trip{}, fmt.Errorf("service.DecodeShareLink: %w: %v", domain.ErrValidation, err)
	}
	t = t.Normalize()
	if err := t.Validate(); err != nil {
		return domain.Trip{}, fmt.Errorf("service.DecodeShareLink: %w", err)
	}
	return t, nil
}

// Share returns a link to the current document.
func (s *TripService) Share() (string, error) {
	return ShareLink(s.publicURL, s.Trip())
}

// Import replaces the current document with the one carried by a share link.
func (s *TripService) Import(ctx context.Context, link string) (domain.Trip, error) {
	t, err := DecodeShareLink(link)
	if err != nil {
		return s.Trip(), err
	}
	return s.Replace(ctx, t)
}
