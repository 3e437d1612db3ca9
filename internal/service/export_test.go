package service_test

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/choiyuns329/Japan-trip/internal/domain"
	"github.com/choiyuns329/Japan-trip/internal/service"
)

func exportFixture() domain.Trip {
	return domain.Trip{
		Title:     "Osaka",
		StartDate: "2025-11-01",
		EndDate:   "2025-11-04",
		Budget:    1_000_000,
		Flights: []domain.Flight{{
			ID: "f1", Direction: domain.Outbound, Airline: "Jeju Air", FlightNumber: "7C1302",
			DepartureTime: "2025-11-01T08:00", ArrivalTime: "2025-11-01T09:40",
			DepartureAirport: "ICN", ArrivalAirport: "KIX", Price: 350000,
		}},
		Accommodations: []domain.Accommodation{{
			ID: "h1", Name: "Namba Hotel", Address: "Osaka", CheckIn: "2025-11-01", CheckOut: "2025-11-04", Price: 400000,
		}},
		Activities: []domain.Activity{
			{ID: "a2", Day: 2, Time: "10:00", Title: "USJ", Cost: 90000},
			{ID: "a1", Day: 1, Time: "15:00", Title: "Dotonbori", Location: "Namba"},
		},
		Transportation: []domain.Transportation{{ID: "t1", Mode: domain.ModeTrain, Details: "ICOCA", Cost: 20000}},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := service.ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, service.FormatJSON, f)

	f, err = service.ParseFormat("ICS")
	require.NoError(t, err)
	assert.Equal(t, service.FormatICS, f)

	_, err = service.ParseFormat("pdf")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestExportTrip_JSON(t *testing.T) {
	out, err := service.ExportTrip(exportFixture(), service.FormatJSON, time.UTC)
	require.NoError(t, err)

	var got domain.Trip
	require.NoError(t, json.Unmarshal(out, &got))
	assert.Equal(t, exportFixture(), got)
}

func TestExportTrip_YAML(t *testing.T) {
	out, err := service.ExportTrip(exportFixture(), service.FormatYAML, time.UTC)
	require.NoError(t, err)

	var got domain.Trip
	require.NoError(t, yaml.Unmarshal(out, &got))
	assert.Equal(t, exportFixture(), got)
}

func TestExportTrip_CSV(t *testing.T) {
	out, err := service.ExportTrip(exportFixture(), service.FormatCSV, time.UTC)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 6, "header + one row per entity")
	assert.Equal(t, []string{"kind", "id", "day", "time", "title", "details", "location", "amount"}, records[0])
	assert.Equal(t, []string{"flights", "f1", "", "2025-11-01T08:00", "Jeju Air 7C1302", "outbound ICN→KIX", "ICN", "350000"}, records[1])
	assert.Equal(t, "h1", records[2][1])
	assert.Equal(t, "a1", records[3][1], "activities in display order")
	assert.Equal(t, "a2", records[4][1])
	assert.Equal(t, []string{"transportation", "t1", "", "", "train", "ICOCA", "", "20000"}, records[5])
}

func TestExportTrip_ICS(t *testing.T) {
	out, err := service.ExportTrip(exportFixture(), service.FormatICS, time.UTC)
	require.NoError(t, err)
	cal := string(out)

	assert.Contains(t, cal, "BEGIN:VCALENDAR")
	assert.Contains(t, cal, "SUMMARY:Dotonbori")
	assert.Contains(t, cal, "DTSTART:20251101T150000Z", "day 1 is the start date")
	assert.Contains(t, cal, "SUMMARY:USJ")
	assert.Contains(t, cal, "DTSTART:20251102T100000Z")
	assert.Contains(t, cal, "SUMMARY:Namba Hotel")
	assert.Contains(t, cal, "DTSTART;VALUE=DATE:20251101")
	assert.Contains(t, cal, "UID:f1@tripmate")
}

func TestExportTrip_ICS_SkipsUndatedEntries(t *testing.T) {
	trip := exportFixture()
	trip.StartDate = ""
	trip.Flights[0].DepartureTime = "morning"
	trip.Accommodations[0].CheckIn = ""

	out, err := service.ExportTrip(trip, service.FormatICS, time.UTC)
	require.NoError(t, err)

	assert.NotContains(t, string(out), "BEGIN:VEVENT")
}
