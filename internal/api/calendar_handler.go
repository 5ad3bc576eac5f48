package api

import (
	"coachdesk/planner/internal/calendar"
	"coachdesk/planner/internal/logger"
	"coachdesk/planner/internal/service"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	dateLayout  = "2006-01-02"
	monthLayout = "2006-01"
)

// CalendarHandler serves the coach's appointment calendar.
type CalendarHandler struct {
	calendarService service.CalendarService
	loc             *time.Location
	log             *logger.Logger
}

func NewCalendarHandler(calendarService service.CalendarService, loc *time.Location, log *logger.Logger) *CalendarHandler {
	if loc == nil {
		loc = time.Local
	}
	return &CalendarHandler{calendarService: calendarService, loc: loc, log: log}
}

// parseQuery reads ?view=&date=YYYY-MM-DD&focus=YYYY-MM.
func (h *CalendarHandler) parseQuery(c *gin.Context) (service.CalendarQuery, error) {
	var q service.CalendarQuery
	view, err := calendar.ParseViewMode(c.Query("view"))
	if err != nil {
		return q, err
	}
	q.View = view
	if raw := c.Query("date"); raw != "" {
		if q.Date, err = time.ParseInLocation(dateLayout, raw, h.loc); err != nil {
			return q, fmt.Errorf("date must be YYYY-MM-DD")
		}
	}
	if raw := c.Query("focus"); raw != "" {
		if q.Focus, err = time.ParseInLocation(monthLayout, raw, h.loc); err != nil {
			return q, fmt.Errorf("focus must be YYYY-MM")
		}
	}
	return q, nil
}

// GetCalendar handles GET /calendar
func (h *CalendarHandler) GetCalendar(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	q, err := h.parseQuery(c)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	view, err := h.calendarService.View(c.Request.Context(), actor, q)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Navigate handles GET /calendar/navigate?direction=previous|next|today and
// returns the resulting view.
func (h *CalendarHandler) Navigate(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	q, err := h.parseQuery(c)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	switch dir := c.Query("direction"); dir {
	case "previous", "next", "today":
		q = h.calendarService.Navigate(q, dir)
	default:
		abortWithError(c, http.StatusBadRequest, "direction must be previous, next or today")
		return
	}
	view, err := h.calendarService.View(c.Request.Context(), actor, q)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Stream handles GET /calendar/stream: a server-sent event per recomputed
// view until the client goes away.
func (h *CalendarHandler) Stream(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	q, err := h.parseQuery(c)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx := c.Request.Context()
	views, err := h.calendarService.Watch(ctx, actor, q)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.Stream(func(w io.Writer) bool {
		select {
		case view, ok := <-views:
			if !ok {
				return false
			}
			c.SSEvent("calendar", view)
			return true
		case <-ctx.Done():
			return false
		}
	})
}
