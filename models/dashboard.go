package models

import "time"

type DailySales struct {
	Date         string `json:"date"`
	TicketsSold  int    `json:"ticketsSold"`
	RevenueCents int64  `json:"revenueCents"`
}

type DashboardStats struct {
	StartDate     time.Time    `json:"startDate"`
	EndDate       time.Time    `json:"endDate"`
	EventsTotal   int          `json:"eventsTotal"`
	UpcomingTotal int          `json:"upcomingTotal"`
	Fighters      int          `json:"fighters"`
	Trainers      int          `json:"trainers"`
	Promoters     int          `json:"promoters"`
	TicketsSold   int          `json:"ticketsSold"`
	RevenueCents  int64        `json:"revenueCents"`
	DailySales    []DailySales `json:"dailySales"`
}

// Pagination mirrors the paginated envelope the dashboard expects.
type Pagination struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	TotalItems  int `json:"totalItems"`
	PageSize    int `json:"pageSize"`
}

// NewPagination computes page counts; page is 1-based.
func NewPagination(page, pageSize, total int) Pagination {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return Pagination{CurrentPage: page, TotalPages: totalPages, TotalItems: total, PageSize: pageSize}
}
