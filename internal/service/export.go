package service

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/choiyuns329/Japan-trip/internal/budget"
	"github.com/choiyuns329/Japan-trip/internal/domain"
)

// Format is an export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
	FormatICS  Format = "ics"
)

// Formats lists every supported export format.
var Formats = []Format{FormatJSON, FormatYAML, FormatCSV, FormatICS}

// ParseFormat maps a format name to a Format. Empty means JSON.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FormatJSON, nil
	}
	if !lo.Contains(Formats, f) {
		return "", fmt.Errorf("%w: unknown export format %q", domain.ErrValidation, s)
	}
	return f, nil
}

// ContentType is the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatYAML:
		return "application/yaml"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatICS:
		return "text/calendar; charset=utf-8"
	}
	return "application/json"
}

// csvHeaders defines the column names written as the first row of a CSV export.
var csvHeaders = []string{"kind", "id", "day", "time", "title", "details", "location", "amount"}

// Export encodes the current document.
func (s *TripService) Export(f Format) ([]byte, error) {
	return ExportTrip(s.Trip(), f, time.Local)
}

// ExportTrip encodes trip in format f. Calendar times are interpreted in loc.
func ExportTrip(trip domain.Trip, f Format, loc *time.Location) ([]byte, error) {
	var (
		out []byte
		err error
	)
	switch f {
	case FormatJSON:
		out, err = json.MarshalIndent(trip, "", "  ")
	case FormatYAML:
		out, err = yaml.Marshal(trip)
	case FormatCSV:
		out, err = exportCSV(trip)
	case FormatICS:
		out = []byte(exportICS(trip, loc))
	default:
		err = fmt.Errorf("%w: unknown export format %q", domain.ErrValidation, f)
	}
	if err != nil {
		return nil, fmt.Errorf("service.ExportTrip: %w", err)
	}
	return out, nil
}

// exportCSV writes one row per entity. Activities appear in display order.
func exportCSV(trip domain.Trip) ([]byte, error) {
	var rows [][]string
	for _, f := range trip.Flights {
		rows = append(rows, []string{
			string(domain.KindFlight), f.ID, "", f.DepartureTime,
			strings.TrimSpace(f.Airline + " " + f.FlightNumber),
			fmt.Sprintf("%s %s→%s", f.Direction, f.DepartureAirport, f.ArrivalAirport),
			f.DepartureAirport, amount(f.Price),
		})
	}
	for _, a := range trip.Accommodations {
		rows = append(rows, []string{
			string(domain.KindAccommodation), a.ID, "", a.CheckIn,
			a.Name, a.Notes, a.Address, amount(a.Price),
		})
	}
	for _, a := range budget.Itinerary(trip.Activities) {
		rows = append(rows, []string{
			string(domain.KindActivity), a.ID, strconv.Itoa(a.Day), a.Time,
			a.Title, a.Description, a.Location, amount(a.Cost),
		})
	}
	for _, t := range trip.Transportation {
		rows = append(rows, []string{
			string(domain.KindTransportation), t.ID, "", "",
			string(t.Mode), t.Details, t.PickupLocation, amount(t.Cost),
		})
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeaders); err != nil {
		return nil, err
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func amount(a domain.Amount) string {
	return strconv.FormatInt(int64(a), 10)
}

// timeLayouts are the free-form flight and check-in formats we try, most
// specific first.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	domain.DateLayout,
}

func parseLoose(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// exportICS builds a calendar. Activities are placed on startDate + (day-1);
// flights need a parseable departure time; stays become all-day spans.
// Entries whose dates cannot be worked out are left out.
func exportICS(trip domain.Trip, loc *time.Location) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//TripMate//Trip Export//KO")

	stamp := time.Now().UTC()

	start, haveStart := parseLoose(trip.StartDate, loc)
	for _, a := range budget.Itinerary(trip.Activities) {
		if !haveStart {
			break
		}
		day := start.AddDate(0, 0, a.Day-1)
		ev := cal.AddEvent(a.ID + "@tripmate")
		ev.SetDtStampTime(stamp)
		ev.SetSummary(a.Title)
		if a.Location != "" {
			ev.SetLocation(a.Location)
		}
		if a.Description != "" {
			ev.SetDescription(a.Description)
		}
		if hm, err := time.ParseInLocation("15:04", a.Time, loc); err == nil {
			at := time.Date(day.Year(), day.Month(), day.Day(), hm.Hour(), hm.Minute(), 0, 0, loc)
			ev.SetStartAt(at)
			ev.SetEndAt(at.Add(time.Hour))
		} else {
			ev.SetAllDayStartAt(day)
			ev.SetAllDayEndAt(day.AddDate(0, 0, 1))
		}
	}

	for _, f := range trip.Flights {
		dep, ok := parseLoose(f.DepartureTime, loc)
		if !ok {
			continue
		}
		arr, ok := parseLoose(f.ArrivalTime, loc)
		if !ok || !arr.After(dep) {
			arr = dep.Add(time.Hour)
		}
		ev := cal.AddEvent(f.ID + "@tripmate")
		ev.SetDtStampTime(stamp)
		ev.SetSummary(strings.TrimSpace(fmt.Sprintf("✈ %s %s", f.Airline, f.FlightNumber)))
		ev.SetLocation(fmt.Sprintf("%s → %s", f.DepartureAirport, f.ArrivalAirport))
		ev.SetStartAt(dep)
		ev.SetEndAt(arr)
	}

	for _, a := range trip.Accommodations {
		in, ok := parseLoose(a.CheckIn, loc)
		if !ok {
			continue
		}
		out, ok := parseLoose(a.CheckOut, loc)
		if !ok || !out.After(in) {
			out = in.AddDate(0, 0, 1)
		}
		ev := cal.AddEvent(a.ID + "@tripmate")
		ev.SetDtStampTime(stamp)
		ev.SetSummary(a.Name)
		if a.Address != "" {
			ev.SetLocation(a.Address)
		}
		ev.SetAllDayStartAt(in)
		ev.SetAllDayEndAt(out)
	}

	return cal.Serialize()
}
