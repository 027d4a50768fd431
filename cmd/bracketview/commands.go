package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/Dosada05/fight-events/brackets"
	"github.com/Dosada05/fight-events/client"
)

func eventIDArg(c *cli.Context) (int, error) {
	id, err := strconv.Atoi(c.Args().First())
	if err != nil || id <= 0 {
		return 0, cli.Exit("event id must be a positive number", 2)
	}
	return id, nil
}

func listEvents(ctx context.Context, api *client.Client, w io.Writer, page, limit int) error {
	events, err := api.ListEvents(ctx, page, limit)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tFORMAT\tSTART\tSTATUS")
	for _, e := range events.Items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", e.ID, e.Name, e.Format, e.StartDate.Format("2006-01-02"), e.Status)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	p := events.Pagination
	_, err = fmt.Fprintf(w, "page %d of %d (%d events)\n", p.CurrentPage, p.TotalPages, p.TotalItems)
	return err
}

// openEvent walks a view from the events list into the selected event.
func openEvent(ctx context.Context, api *client.Client, site brackets.Site, id int) (*brackets.View, error) {
	event, err := api.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	view := brackets.NewView(site)
	if err := view.SelectEvent(event); err != nil {
		return nil, err
	}
	return view, nil
}

func showBrackets(ctx context.Context, api *client.Client, w io.Writer, id int, site brackets.Site, ageClass string) error {
	switch site {
	case brackets.SiteAdmin, brackets.SitePublic, brackets.SiteTournament:
	default:
		return cli.Exit(fmt.Sprintf("unknown site %q", site), 2)
	}

	view, err := openEvent(ctx, api, site, id)
	if err != nil {
		return err
	}
	if err := view.LoadData(); err != nil {
		return err
	}

	if view.State() == brackets.StateParticipantList {
		fmt.Fprintf(w, "%s: %d participants\n", view.Event().Name, len(view.Participants()))
		if msg := view.Message(); msg != "" {
			_, err := fmt.Fprintln(w, msg)
			return err
		}
		if err := view.ShowBrackets(); err != nil {
			return err
		}
	}
	if ageClass != "" {
		if err := view.FilterAgeClass(ageClass); err != nil {
			return err
		}
	}
	if msg := view.Message(); msg != "" {
		_, err := fmt.Fprintln(w, msg)
		return err
	}

	for i, layout := range view.Layouts() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if err := layout.RenderText(w); err != nil {
			return err
		}
	}
	return nil
}

func showFightCard(ctx context.Context, api *client.Client, w io.Writer, id int) error {
	view, err := openEvent(ctx, api, brackets.SitePublic, id)
	if err != nil {
		return err
	}
	if err := view.OpenFightCard(); err != nil {
		return err
	}
	if msg := view.Message(); msg != "" {
		_, err := fmt.Fprintln(w, msg)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "BOUT\tBRACKET\tRED\tBLUE\tRESULT")
	for _, b := range view.FightCard() {
		blue := "(bye)"
		if b.BlueCorner != nil {
			blue = b.BlueCorner.Name
		}
		result := "scheduled"
		if b.Fight != nil {
			result = string(b.Fight.Status)
			if b.Fight.Winner != nil {
				result += " - " + strings.ToUpper(string(*b.Fight.Winner)) + " wins"
			}
		}
		bracket := strconv.Itoa(b.BracketInfo.BracketNumber)
		if b.BracketInfo.Title != "" {
			bracket += " " + b.BracketInfo.Title
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", b.BoutNumber, bracket, b.RedCorner.Name, blue, result)
	}
	return tw.Flush()
}

func showDashboard(ctx context.Context, api *client.Client, w io.Writer, start, end *time.Time) error {
	var from, to time.Time
	if start != nil {
		from = *start
	}
	if end != nil {
		to = *end
	}
	d, err := api.GetDashboard(ctx, from, to)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Events\t%d\n", d.TotalEvents)
	fmt.Fprintf(tw, "Fighters\t%d\n", d.Fighters)
	fmt.Fprintf(tw, "Trainers\t%d\n", d.Trainers)
	fmt.Fprintf(tw, "Promoters\t%d\n", d.Promoters)
	fmt.Fprintf(tw, "Tickets sold\t%d\n", d.TicketsSold)
	fmt.Fprintf(tw, "Revenue\t%s\n", formatCents(d.RevenueCents))
	for _, p := range d.Daily {
		fmt.Fprintf(tw, "  %s\t%d tickets\t%s\n", p.Date, p.TicketsSold, formatCents(p.RevenueCents))
	}
	return tw.Flush()
}

func formatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign, cents = "-", -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
