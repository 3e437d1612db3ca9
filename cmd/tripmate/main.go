// Package main is the entry point for the tripmate CLI and local API server.
// Its sole responsibility is wiring dependencies together and dispatching
// commands. No business logic belongs here.
package main

import (
	"context"
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
)

func newCommand() *cli.Command {
	kindUsage := "<flights|accommodations|activities|transportation>"

	return &cli.Command{
		Name:  "tripmate",
		Usage: "Plan a trip: flights, stays, a day-by-day itinerary and a budget",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the local HTTP API",
				Action: withApp(true, runServe),
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "port", Aliases: []string{"p"}, Usage: "listen port (overrides PORT)"},
				},
			},
			{
				Name:   "show",
				Usage:  "Print the trip",
				Action: withApp(false, runShow),
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "print the raw document"},
				},
			},
			{
				Name:   "info",
				Usage:  "Change the trip title, destination, dates or budget",
				Action: withApp(false, runInfo),
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title"},
					&cli.StringFlag{Name: "destination", Aliases: []string{"d"}},
					&cli.StringFlag{Name: "start", Usage: "start date, YYYY-MM-DD"},
					&cli.StringFlag{Name: "end", Usage: "end date, YYYY-MM-DD"},
					&cli.IntFlag{Name: "budget", Aliases: []string{"b"}},
				},
			},
			{
				Name:      "add",
				Usage:     "Add an entry",
				ArgsUsage: kindUsage,
				Action:    withApp(false, runAdd),
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "type", Usage: "flight direction: outbound or inbound"},
					&cli.StringFlag{Name: "set", Usage: `initial fields as JSON, e.g. '{"title":"Osaka Castle"}'`},
				},
			},
			{
				Name:      "update",
				Usage:     "Change fields of an entry",
				ArgsUsage: kindUsage + " <id> '<json>'",
				Action:    withApp(false, runUpdate),
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Remove an entry",
				ArgsUsage: kindUsage + " <id>",
				Action:    withApp(false, runDelete),
			},
			{
				Name:   "budget",
				Usage:  "Show spending by category against the budget",
				Action: withApp(false, runBudget),
			},
			{
				Name:   "itinerary",
				Usage:  "Show activities day by day",
				Action: withApp(false, runItinerary),
			},
			{
				Name:      "plan",
				Usage:     "Generate a plan from a description and merge it into the trip",
				ArgsUsage: "<description>",
				Action:    withApp(false, runPlan),
			},
			{
				Name:   "share",
				Usage:  "Print a link that carries the whole trip",
				Action: withApp(false, runShare),
			},
			{
				Name:      "import",
				Usage:     "Replace the trip with the one in a share link",
				ArgsUsage: "<link>",
				Action:    withApp(false, runImport),
			},
			{
				Name:   "reset",
				Usage:  "Discard the trip and start over",
				Action: withApp(false, runReset),
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "confirm"},
				},
			},
			{
				Name:   "export",
				Usage:  "Write the trip as json, yaml, csv or ics",
				Action: withApp(false, runExport),
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "json"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "file to write, - for stdout"},
				},
			},
			{
				Name:   "login",
				Usage:  "Sign in with a local identity",
				Action: withApp(false, runLogin),
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name"},
					&cli.StringFlag{Name: "email"},
				},
			},
			{
				Name:   "logout",
				Usage:  "Forget the local identity",
				Action: withApp(false, runLogout),
			},
			{
				Name:   "whoami",
				Usage:  "Print the local identity",
				Action: withApp(false, runWhoami),
			},
		},
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "tripmate:", userMessage(err))
		os.Exit(1)
	}
}
