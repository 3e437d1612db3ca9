package planner

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/choiyuns329/Japan-trip/internal/domain"
)

// systemInstruction describes the exact JSON shape the model must return.
// %s is the currency unit.
const systemInstruction = `You are a helpful travel planning assistant.
The user will give you a destination or a rough plan.
You must return a single JSON object with the structure described below.

Generate realistic data for flights, hotels, activities and local transportation based on the destination.
Dates should be relative to today's date given in the context if the user does not specify them.
Currency values (price, cost, budget) must be whole numbers in %s.

Structure:
{
  "title": string,
  "destination": string,
  "startDate": string (YYYY-MM-DD),
  "endDate": string (YYYY-MM-DD),
  "budget": number,
  "flights": [
    { "id": string, "type": "outbound" | "inbound", "airline": string, "flightNumber": string, "departureTime": string, "arrivalTime": string, "departureAirport": string, "arrivalAirport": string, "price": number }
  ],
  "accommodations": [
    { "id": string, "name": string, "address": string, "checkIn": string, "checkOut": string, "price": number, "notes": string }
  ],
  "activities": [
    { "id": string, "day": number (1-based day of the trip), "time": string (HH:MM, 24-hour, zero padded), "title": string, "location": string, "description": string, "cost": number }
  ],
  "transportation": [
    { "id": string, "type": "rental" | "train" | "bus" | "taxi" | "other", "details": string, "pickupLocation": string, "cost": number }
  ]
}

Omit a field entirely if you have nothing to say about it.
A list you return replaces the current one, so repeat any existing entries you want to keep.
Only return the JSON object. Do not return markdown.`

// tripContext is the part of the current document sent along with the prompt.
// List entries carry every field except the id.
type tripContext struct {
	Today          string           `json:"today"`
	Title          string           `json:"title"`
	Destination    string           `json:"destination,omitempty"`
	StartDate      string           `json:"startDate"`
	EndDate        string           `json:"endDate"`
	Budget         int64            `json:"budget"`
	Flights        []map[string]any `json:"flights"`
	Accommodations []map[string]any `json:"accommodations"`
	Activities     []map[string]any `json:"activities"`
	Transportation []map[string]any `json:"transportation"`
}

func buildSystemInstruction(currency string) string {
	return fmt.Sprintf(systemInstruction, currency)
}

func buildUserMessage(prompt string, current domain.Trip, now time.Time) (string, error) {
	ctx := tripContext{
		Today:       now.Format(domain.DateLayout),
		Title:       current.Title,
		Destination: current.Destination,
		StartDate:   current.StartDate,
		EndDate:     current.EndDate,
		Budget:      int64(current.Budget),
	}
	var err error
	if ctx.Flights, err = withoutIDs(current.Flights); err != nil {
		return "", err
	}
	if ctx.Accommodations, err = withoutIDs(current.Accommodations); err != nil {
		return "", err
	}
	if ctx.Activities, err = withoutIDs(current.Activities); err != nil {
		return "", err
	}
	if ctx.Transportation, err = withoutIDs(current.Transportation); err != nil {
		return "", err
	}

	ctxJSON, err := json.MarshalIndent(ctx, "", "  ")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Generate a trip plan for: %s.\n\nCurrent trip context:\n%s",
		strings.TrimSpace(prompt), ctxJSON), nil
}

// withoutIDs re-encodes list as JSON objects with the "id" key dropped.
func withoutIDs[T any](list []T) ([]map[string]any, error) {
	out := []map[string]any{}
	if len(list) == 0 {
		return out, nil
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	for _, m := range out {
		delete(m, "id")
	}
	return out, nil
}
