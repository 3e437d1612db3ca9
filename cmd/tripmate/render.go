package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/choiyuns329/Japan-trip/internal/budget"
	"github.com/choiyuns329/Japan-trip/internal/domain"
)

// renderer prints trip data for humans. Amounts are grouped per locale and
// prefixed with the currency symbol.
type renderer struct {
	w      io.Writer
	p      *message.Printer
	symbol string
}

func newRenderer(w io.Writer, locale string, unit currency.Unit) *renderer {
	p := message.NewPrinter(language.Make(locale))
	return &renderer{w: w, p: p, symbol: p.Sprint(currency.Symbol(unit))}
}

func (r *renderer) money(a domain.Amount) string {
	return r.p.Sprintf("%s%d", r.symbol, int64(a))
}

func (r *renderer) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.w, format, args...)
}

// orDash keeps empty cells visible in tabular output.
func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// Trip prints the trip header and every list. Activities are shown in
// itinerary order, the other lists in storage order.
func (r *renderer) Trip(t domain.Trip) {
	r.printf("%s\n", t.Title)
	r.printf("  destination  %s\n", orDash(t.Destination))
	r.printf("  dates        %s → %s\n", orDash(t.StartDate), orDash(t.EndDate))
	r.printf("  budget       %s\n", r.money(t.Budget))

	tw := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintf(tw, "\nflights (%d)\n", len(t.Flights))
	for _, f := range t.Flights {
		fmt.Fprintf(tw, "  %s\t%s\t%s %s\t%s→%s\t%s\t%s\n",
			f.ID, f.Direction, orDash(f.Airline), f.FlightNumber,
			orDash(f.DepartureAirport), orDash(f.ArrivalAirport), orDash(f.DepartureTime), r.money(f.Price))
	}

	fmt.Fprintf(tw, "\naccommodations (%d)\n", len(t.Accommodations))
	for _, h := range t.Accommodations {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s..%s\t%s\n",
			h.ID, orDash(h.Name), orDash(h.Address), orDash(h.CheckIn), orDash(h.CheckOut), r.money(h.Price))
	}

	fmt.Fprintf(tw, "\nactivities (%d)\n", len(t.Activities))
	for _, a := range budget.Itinerary(t.Activities) {
		fmt.Fprintf(tw, "  %s\tday %d\t%s\t%s\t%s\t%s\n",
			a.ID, a.Day, orDash(a.Time), orDash(a.Title), orDash(a.Location), r.money(a.Cost))
	}

	fmt.Fprintf(tw, "\ntransportation (%d)\n", len(t.Transportation))
	for _, tr := range t.Transportation {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\n",
			tr.ID, tr.Mode, orDash(tr.Details), orDash(tr.PickupLocation), r.money(tr.Cost))
	}
}

// Budget prints the per-category totals against the budget.
func (r *renderer) Budget(s budget.Summary) {
	if s.Empty {
		r.printf("no costs entered yet (budget %s)\n", r.money(s.Budget))
		return
	}

	tw := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', tabwriter.AlignRight)
	for _, c := range s.Categories() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t\n", c.Category, r.money(c.Amount), percent(c.Amount, s.Total))
	}
	fmt.Fprintf(tw, "total\t%s\t\t\n", r.money(s.Total))
	fmt.Fprintf(tw, "budget\t%s\t\t\n", r.money(s.Budget))
	fmt.Fprintf(tw, "remaining\t%s\t\t\n", r.money(s.Remaining))
	_ = tw.Flush()

	if s.OverBudget {
		r.printf("over budget by %s\n", r.money(-s.Remaining))
	}
}

func percent(part, total domain.Amount) string {
	if total == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.0f%%", float64(part)*100/float64(total))
}

// Itinerary prints activities grouped by day.
func (r *renderer) Itinerary(days []budget.DayPlan) {
	if len(days) == 0 {
		r.printf("no activities planned\n")
		return
	}
	for i, d := range days {
		if i > 0 {
			r.printf("\n")
		}
		r.printf("day %d  (%s)\n", d.Day, r.money(d.Cost))
		for _, a := range d.Activities {
			line := fmt.Sprintf("  %s  %s", orDash(a.Time), orDash(a.Title))
			if a.Location != "" {
				line += " @ " + a.Location
			}
			r.printf("%s\n", line)
		}
	}
}

// User prints the signed-in identity.
func (r *renderer) User(u domain.User) {
	r.printf("%s <%s>  %s\n", u.Name, u.Email, u.ID)
}
