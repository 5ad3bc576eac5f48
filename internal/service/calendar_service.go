package service

import (
	"coachdesk/planner/internal/calendar"
	"coachdesk/planner/internal/domain"
	"coachdesk/planner/internal/logger"
	"coachdesk/planner/internal/repository"
	"context"
	"time"
)

// CalendarQuery describes one calendar screen state.
type CalendarQuery struct {
	View  calendar.ViewMode
	Date  time.Time // selected reference date
	Focus time.Time // focused month; zero means the month of Date
}

// CalendarView is one rendered calendar: cells with their day chips.
type CalendarView struct {
	View  calendar.ViewMode `json:"view"`
	Date  time.Time         `json:"date"`
	Focus time.Time         `json:"focus"`
	From  time.Time         `json:"from"`
	To    time.Time         `json:"to"`
	Cells []calendar.Cell   `json:"cells"`
	// Unplaced counts appointments whose start could not be read.
	Unplaced int `json:"unplaced"`
}

type CalendarService interface {
	View(ctx context.Context, actor domain.Actor, q CalendarQuery) (*CalendarView, error)
	// Watch pushes a recomputed view whenever the coach's appointments
	// change, until ctx is done.
	Watch(ctx context.Context, actor domain.Actor, q CalendarQuery) (<-chan *CalendarView, error)
	// Navigate moves q one step ("previous", "next") or to "today".
	Navigate(q CalendarQuery, direction string) CalendarQuery
}

type calendarService struct {
	appointmentRepo repository.AppointmentRepository
	window          calendar.Windower
	limits          calendar.ChipLimits
	loc             *time.Location
	log             *logger.Logger
	now             func() time.Time
}

// NewCalendarService builds the calendar view service. Days are cut in loc.
func NewCalendarService(
	appointmentRepo repository.AppointmentRepository,
	window calendar.Windower,
	limits calendar.ChipLimits,
	loc *time.Location,
	log *logger.Logger,
) CalendarService {
	if loc == nil {
		loc = time.Local
	}
	return &calendarService{
		appointmentRepo: appointmentRepo,
		window:          window,
		limits:          limits,
		loc:             loc,
		log:             log,
		now:             time.Now,
	}
}

func (s *calendarService) normalize(q CalendarQuery) CalendarQuery {
	if q.View == "" {
		q.View = calendar.ViewMonth
	}
	if q.Date.IsZero() {
		q.Date = s.now()
	}
	q.Date = calendar.StartOfDay(q.Date.In(s.loc))
	if q.Focus.IsZero() {
		q.Focus = q.Date
	}
	q.Focus = calendar.StartOfMonth(q.Focus.In(s.loc))
	return q
}

// render is a full recompute over one appointment snapshot.
func (s *calendarService) render(q CalendarQuery, appointments []domain.Appointment) *CalendarView {
	from, to := s.window.Range(q.View, q.Date)
	cells := s.window.Cells(q.View, q.Date, q.Focus, s.now())
	unplaced := 0
	for _, a := range appointments {
		if a.Start == nil || a.Start.IsZero() {
			unplaced++
		}
	}
	return &CalendarView{
		View:     q.View,
		Date:     q.Date,
		Focus:    q.Focus,
		From:     from,
		To:       to,
		Cells:    calendar.Bucket(appointments, cells, s.limits.For(q.View)),
		Unplaced: unplaced,
	}
}

func (s *calendarService) View(ctx context.Context, actor domain.Actor, q CalendarQuery) (*CalendarView, error) {
	q = s.normalize(q)
	from, to := s.window.Range(q.View, q.Date)
	appointments, err := s.appointmentRepo.GetByCoachBetween(ctx, actor.ID, from, to)
	if err != nil {
		return nil, err
	}
	return s.render(q, appointments), nil
}

func (s *calendarService) Watch(ctx context.Context, actor domain.Actor, q CalendarQuery) (<-chan *CalendarView, error) {
	q = s.normalize(q)
	from, to := s.window.Range(q.View, q.Date)
	snapshots, err := s.appointmentRepo.Subscribe(ctx, actor.ID, from, to)
	if err != nil {
		return nil, err
	}

	out := make(chan *CalendarView)
	go func() {
		defer close(out)
		for appointments := range snapshots {
			select {
			case out <- s.render(q, appointments):
			case <-ctx.Done():
				return
			}
		}
		s.log.Debug("calendar watch ended", "coachId", actor.ID)
	}()
	return out, nil
}

func (s *calendarService) Navigate(q CalendarQuery, direction string) CalendarQuery {
	q = s.normalize(q)
	nav := calendar.NewNavigator(s.window, q.View, q.Date, s.now)
	nav.Focus = q.Focus
	switch direction {
	case "previous", "prev":
		nav.Previous()
	case "next":
		nav.Next()
	case "today":
		nav.Today()
	}
	return CalendarQuery{View: nav.View, Date: nav.Reference, Focus: nav.Focus}
}
