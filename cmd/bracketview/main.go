package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/Dosada05/fight-events/brackets"
	"github.com/Dosada05/fight-events/client"
)

func main() {
	app := &cli.App{
		Name:  "bracketview",
		Usage: "browse events, brackets and fight cards from the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api",
				Usage:   "API base URL",
				Value:   client.DefaultBaseURL,
				EnvVars: []string{"API_BASE_URL"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "events",
				Usage: "list events",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "page", Value: 1},
					&cli.IntFlag{Name: "limit", Value: 10},
				},
				Action: func(c *cli.Context) error {
					return listEvents(c.Context, apiClient(c), c.App.Writer, c.Int("page"), c.Int("limit"))
				},
			},
			{
				Name:      "brackets",
				Usage:     "show the brackets of an event",
				ArgsUsage: "<event-id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "site", Value: string(brackets.SitePublic), Usage: "admin, public or tournament"},
					&cli.StringFlag{Name: "age-class", Usage: "tournament site only: show one age class"},
				},
				Action: func(c *cli.Context) error {
					id, err := eventIDArg(c)
					if err != nil {
						return err
					}
					return showBrackets(c.Context, apiClient(c), c.App.Writer, id, brackets.Site(c.String("site")), c.String("age-class"))
				},
			},
			{
				Name:      "fight-card",
				Usage:     "show the fight card of a Full Contact event",
				ArgsUsage: "<event-id>",
				Action: func(c *cli.Context) error {
					id, err := eventIDArg(c)
					if err != nil {
						return err
					}
					return showFightCard(c.Context, apiClient(c), c.App.Writer, id)
				},
			},
			{
				Name:  "dashboard",
				Usage: "show sales and registration totals",
				Flags: []cli.Flag{
					&cli.TimestampFlag{Name: "start", Layout: "2006-01-02"},
					&cli.TimestampFlag{Name: "end", Layout: "2006-01-02"},
				},
				Action: func(c *cli.Context) error {
					return showDashboard(c.Context, apiClient(c), c.App.Writer, c.Timestamp("start"), c.Timestamp("end"))
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func apiClient(c *cli.Context) *client.Client {
	return client.New(c.String("api"), nil)
}
