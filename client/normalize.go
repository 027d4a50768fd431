package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Dashboard is the canonical analytics shape, whatever keys the backend used.
type Dashboard struct {
	TotalEvents  int          `json:"totalEvents"`
	Fighters     int          `json:"fighters"`
	Trainers     int          `json:"trainers"`
	Promoters    int          `json:"promoters"`
	TicketsSold  int          `json:"ticketsSold"`
	RevenueCents int64        `json:"revenueCents"`
	Daily        []DailyPoint `json:"daily"`
}

type DailyPoint struct {
	Date         string `json:"date"`
	TicketsSold  int    `json:"ticketsSold"`
	RevenueCents int64  `json:"revenueCents"`
}

var (
	eventsKeys   = []string{"totalEvents", "eventsTotal", "events"}
	ticketsKeys  = []string{"ticketsSold", "totalTickets", "tickets"}
	revenueKeys  = []string{"revenue", "totalRevenue", "amount"}
	dateKeys     = []string{"date", "day", "_id"}
	seriesKeys   = []string{"dailySales", "daily", "sales"}
	fighterKeys  = []string{"fighters", "totalFighters"}
	trainerKeys  = []string{"trainers", "totalTrainers"}
	promoterKeys = []string{"promoters", "totalPromoters"}
)

const revenueCentsKey = "revenueCents"

type fields map[string]json.RawMessage

// number returns the first key holding a number or a numeric string.
func (f fields) number(keys ...string) (float64, bool) {
	for _, k := range keys {
		raw, ok := f[k]
		if !ok || bytes.Equal(raw, []byte("null")) {
			continue
		}
		var n float64
		if err := json.Unmarshal(raw, &n); err == nil {
			return n, true
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if n, err := strconv.ParseFloat(s, 64); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}

func (f fields) integer(keys ...string) int {
	n, _ := f.number(keys...)
	return int(n)
}

// revenueCents prefers an explicit cents field; other revenue keys hold currency units.
func (f fields) revenueCents() int64 {
	if n, ok := f.number(revenueCentsKey); ok {
		return int64(n)
	}
	n, _ := f.number(revenueKeys...)
	return int64(math.Round(n * 100))
}

func (f fields) text(keys ...string) string {
	for _, k := range keys {
		raw, ok := f[k]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			return s
		}
	}
	return ""
}

// NormalizeDashboard maps any of the known dashboard payload shapes onto Dashboard.
func NormalizeDashboard(data []byte) (*Dashboard, error) {
	var top fields
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("dashboard payload is not an object: %w", err)
	}

	d := &Dashboard{
		TotalEvents:  top.integer(eventsKeys...),
		Fighters:     top.integer(fighterKeys...),
		Trainers:     top.integer(trainerKeys...),
		Promoters:    top.integer(promoterKeys...),
		TicketsSold:  top.integer(ticketsKeys...),
		RevenueCents: top.revenueCents(),
		Daily:        []DailyPoint{},
	}

	for _, k := range seriesKeys {
		raw, ok := top[k]
		if !ok {
			continue
		}
		var rows []fields
		if err := json.Unmarshal(raw, &rows); err != nil {
			return nil, fmt.Errorf("dashboard %s is not a list: %w", k, err)
		}
		for _, row := range rows {
			d.Daily = append(d.Daily, DailyPoint{
				Date:         row.text(dateKeys...),
				TicketsSold:  row.integer(ticketsKeys...),
				RevenueCents: row.revenueCents(),
			})
		}
		break
	}
	return d, nil
}
