package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/choiyuns329/Japan-trip/internal/domain"
	"github.com/choiyuns329/Japan-trip/internal/editor"
	"github.com/choiyuns329/Japan-trip/internal/service"
)

func runShow(_ context.Context, a *app, cmd *cli.Command) error {
	trip := a.trips.Trip()
	if cmd.Bool("json") {
		data, err := json.MarshalIndent(trip, "", "  ")
		if err != nil {
			return err
		}
		a.out.printf("%s\n", data)
		return nil
	}
	a.out.Trip(trip)
	return nil
}

func runInfo(ctx context.Context, a *app, cmd *cli.Command) error {
	var p editor.InfoPatch
	for name, dst := range map[string]**string{
		"title":       &p.Title,
		"destination": &p.Destination,
		"start":       &p.StartDate,
		"end":         &p.EndDate,
	} {
		if cmd.IsSet(name) {
			v := cmd.String(name)
			*dst = &v
		}
	}
	if cmd.IsSet("budget") {
		b := domain.Amount(cmd.Int("budget"))
		p.Budget = &b
	}
	if p == (editor.InfoPatch{}) {
		return errors.New("nothing to change: pass at least one of --title, --destination, --start, --end, --budget")
	}

	trip, err := a.trips.SetInfo(ctx, p)
	if err != nil {
		return err
	}
	a.out.Trip(trip)
	return nil
}

func runAdd(ctx context.Context, a *app, cmd *cli.Command) error {
	kind, err := domain.ParseKind(cmd.Args().First())
	if err != nil {
		return err
	}

	var opts []editor.AddOption
	if cmd.IsSet("type") {
		dir := domain.Direction(strings.ToLower(cmd.String("type")))
		if dir != domain.Outbound && dir != domain.Inbound {
			return fmt.Errorf("%w: --type must be outbound or inbound", domain.ErrValidation)
		}
		opts = append(opts, editor.WithDirection(dir))
	}

	var patch func(domain.Entity) (domain.Entity, error)
	if cmd.IsSet("set") {
		data := []byte(cmd.String("set"))
		patch = func(e domain.Entity) (domain.Entity, error) { return patchEntity(e, data) }
	}
	_, e, err := a.trips.AddWith(ctx, kind, patch, opts...)
	if err != nil {
		return err
	}
	a.out.printf("added %s %s\n", kind, e.EntityID())
	return nil
}

func runUpdate(ctx context.Context, a *app, cmd *cli.Command) error {
	if cmd.Args().Len() != 3 {
		return errors.New("usage: tripmate update <kind> <id> '<json>'")
	}
	kind, err := domain.ParseKind(cmd.Args().Get(0))
	if err != nil {
		return err
	}
	id := cmd.Args().Get(1)

	current, ok := editor.Find(a.trips.Trip(), kind, id)
	if !ok {
		return fmt.Errorf("%w: no %s with id %s", domain.ErrNotFound, kind, id)
	}
	next, err := patchEntity(current, []byte(cmd.Args().Get(2)))
	if err != nil {
		return err
	}
	if _, err := a.trips.Update(ctx, next); err != nil {
		return err
	}
	a.out.printf("updated %s %s\n", kind, id)
	return nil
}

// patchEntity decodes data on top of a copy of e, so fields the JSON leaves
// out keep their current values. The id cannot be changed.
func patchEntity(e domain.Entity, data []byte) (domain.Entity, error) {
	switch v := e.(type) {
	case domain.Flight:
		return decodeOnto(v, data)
	case domain.Accommodation:
		return decodeOnto(v, data)
	case domain.Activity:
		return decodeOnto(v, data)
	case domain.Transportation:
		return decodeOnto(v, data)
	}
	return nil, fmt.Errorf("unsupported entity %T", e)
}

func decodeOnto[T domain.Entity](v T, data []byte) (domain.Entity, error) {
	id := v.EntityID()
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if v.EntityID() != id {
		return nil, fmt.Errorf("%w: id cannot be changed", domain.ErrValidation)
	}
	return v, nil
}

func runDelete(ctx context.Context, a *app, cmd *cli.Command) error {
	if cmd.Args().Len() != 2 {
		return errors.New("usage: tripmate delete <kind> <id>")
	}
	kind, err := domain.ParseKind(cmd.Args().Get(0))
	if err != nil {
		return err
	}
	id := cmd.Args().Get(1)

	before := a.trips.Trip().Len(kind)
	trip, err := a.trips.Delete(ctx, kind, id)
	if err != nil {
		return err
	}
	if trip.Len(kind) == before {
		a.out.printf("no %s with id %s\n", kind, id)
		return nil
	}
	a.out.printf("deleted %s %s\n", kind, id)
	return nil
}

func runBudget(_ context.Context, a *app, _ *cli.Command) error {
	a.out.Budget(a.trips.Budget())
	return nil
}

func runItinerary(_ context.Context, a *app, _ *cli.Command) error {
	a.out.Itinerary(a.trips.Itinerary())
	return nil
}

func runPlan(ctx context.Context, a *app, cmd *cli.Command) error {
	prompt := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	if prompt == "" {
		return errors.New("usage: tripmate plan <what kind of trip>")
	}
	trip, err := a.trips.Generate(ctx, prompt)
	if err != nil {
		return err
	}
	a.out.Trip(trip)
	return nil
}

func runShare(_ context.Context, a *app, _ *cli.Command) error {
	link, err := a.trips.Share()
	if err != nil {
		return err
	}
	a.out.printf("%s\n", link)
	return nil
}

func runImport(ctx context.Context, a *app, cmd *cli.Command) error {
	link := cmd.Args().First()
	if link == "" {
		return errors.New("usage: tripmate import <share link>")
	}
	trip, err := a.trips.Import(ctx, link)
	if err != nil {
		return err
	}
	a.out.Trip(trip)
	return nil
}

func runReset(ctx context.Context, a *app, cmd *cli.Command) error {
	if !cmd.Bool("yes") {
		return errors.New("reset discards the whole trip; rerun with --yes to confirm")
	}
	if _, err := a.trips.Reset(ctx); err != nil {
		return err
	}
	a.out.printf("trip reset to defaults\n")
	return nil
}

func runExport(_ context.Context, a *app, cmd *cli.Command) error {
	f, err := service.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	data, err := a.trips.Export(f)
	if err != nil {
		return err
	}

	path := cmd.String("output")
	if path == "" || path == "-" {
		_, err = a.out.w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	a.out.printf("wrote %s\n", path)
	return nil
}

func runLogin(ctx context.Context, a *app, cmd *cli.Command) error {
	u, err := a.sessions.Login(ctx, cmd.String("name"), cmd.String("email"))
	if err != nil {
		return err
	}
	a.out.User(u)
	return nil
}

func runLogout(ctx context.Context, a *app, _ *cli.Command) error {
	if err := a.sessions.Logout(ctx); err != nil {
		return err
	}
	a.out.printf("signed out\n")
	return nil
}

func runWhoami(ctx context.Context, a *app, _ *cli.Command) error {
	u, err := a.sessions.Current(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		a.out.printf("not signed in\n")
		return nil
	}
	if err != nil {
		return err
	}
	a.out.User(u)
	return nil
}

// userMessage turns a command error into the line printed on stderr.
func userMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrNoPlan):
		return "no plan was generated; the trip is unchanged"
	case errors.Is(err, domain.ErrGenerationInFlight):
		return "a plan is already being generated"
	case errors.Is(err, domain.ErrPersist):
		return "the change could not be saved: " + err.Error()
	}
	return err.Error()
}
