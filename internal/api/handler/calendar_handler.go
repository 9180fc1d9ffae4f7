package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bookline/booking-gateway/internal/core/domain"
	"github.com/bookline/booking-gateway/internal/core/service"
)

// CalendarHandler serves the computed day/week grid for the admin agenda.
type CalendarHandler struct {
	schedule *service.ScheduleService
	now      func() time.Time
}

func NewCalendarHandler(schedule *service.ScheduleService) *CalendarHandler {
	return &CalendarHandler{schedule: schedule, now: time.Now}
}

type calendarResponse struct {
	View       string       `json:"view"`
	Anchor     string       `json:"anchor"`
	PrevAnchor string       `json:"prev_anchor"`
	NextAnchor string       `json:"next_anchor"`
	Grid       service.Grid `json:"grid"`
}

// Grid returns the laid-out calendar for ?view=day|week&date=YYYY-MM-DD.
// Day view is partitioned into one swimlane per professional; week view is
// one column per day, Sunday first.
func (h *CalendarHandler) Grid(c echo.Context) error {
	now := h.now()

	mode := service.ViewDay
	if c.QueryParam("view") == string(service.ViewWeek) {
		mode = service.ViewWeek
	}

	anchor := now
	if raw := c.QueryParam("date"); raw != "" {
		parsed, err := time.ParseInLocation(domain.DateLayout, raw, time.Local)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "date must match YYYY-MM-DD")
		}
		anchor = parsed
	}

	ctx := c.Request().Context()
	events, err := h.schedule.Appointments(ctx)
	if err != nil {
		return err
	}

	var lanes []domain.Professional
	if mode == service.ViewDay {
		if lanes, err = h.schedule.Professionals(ctx); err != nil {
			return err
		}
	}

	state := service.CalendarState{Anchor: anchor, Mode: mode}
	return c.JSON(http.StatusOK, calendarResponse{
		View:       string(mode),
		Anchor:     anchor.Format(domain.DateLayout),
		PrevAnchor: state.Previous().Anchor.Format(domain.DateLayout),
		NextAnchor: state.Next().Anchor.Format(domain.DateLayout),
		Grid:       service.BuildGrid(events, mode, anchor, lanes, now),
	})
}
