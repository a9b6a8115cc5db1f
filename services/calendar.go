package services

import (
	"context"
	"fmt"
	"time"

	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"hearth/database"
	"hearth/models"
)

// CalendarService wraps the household's provider calendar. Each call
// is a single round trip; failures bubble up to the handler as-is.
type CalendarService struct {
	svc        *calendar.Service
	calendarID string
	location   *time.Location
}

// NewCalendarService builds a provider client from the settings row:
// the calendar id, the decrypted service-account credential, and the
// household timezone.
func NewCalendarService(ctx context.Context, calendarID string, credentialJSON []byte, timezone string) (*CalendarService, error) {
	if calendarID == "" {
		return nil, fmt.Errorf("no calendar id configured")
	}
	svc, err := calendar.NewService(ctx, option.WithCredentialsJSON(credentialJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar client: %w", err)
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}
	return &CalendarService{svc: svc, calendarID: calendarID, location: loc}, nil
}

// ListWeek fetches the provider events falling inside the plan week.
func (s *CalendarService) ListWeek(weekOf string) ([]models.CalendarEvent, error) {
	start, end, err := s.weekWindow(weekOf)
	if err != nil {
		return nil, err
	}

	result, err := s.svc.Events.List(s.calendarID).
		TimeMin(start.Format(time.RFC3339)).
		TimeMax(end.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list calendar events: %w", err)
	}

	events := make([]models.CalendarEvent, 0, len(result.Items))
	for _, item := range result.Items {
		events = append(events, s.fromProvider(item))
	}
	return events, nil
}

// CreateEvent writes a new event to the provider and returns the
// local mirror form.
func (s *CalendarService) CreateEvent(input models.CalendarEventInput) (*models.CalendarEvent, error) {
	created, err := s.svc.Events.Insert(s.calendarID, s.toProvider(input)).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar event: %w", err)
	}
	event := s.fromProvider(created)
	return &event, nil
}

// UpdateEvent patches an existing provider event.
func (s *CalendarService) UpdateEvent(providerID string, input models.CalendarEventInput) (*models.CalendarEvent, error) {
	updated, err := s.svc.Events.Patch(s.calendarID, providerID, s.toProvider(input)).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to update calendar event: %w", err)
	}
	event := s.fromProvider(updated)
	return &event, nil
}

// DeleteEvent removes an event from the provider.
func (s *CalendarService) DeleteEvent(providerID string) error {
	if err := s.svc.Events.Delete(s.calendarID, providerID).Do(); err != nil {
		return fmt.Errorf("failed to delete calendar event: %w", err)
	}
	return nil
}

// SyncWeek refreshes the local mirror for one week: provider events
// are upserted by provider id and mirror rows the provider no longer
// has are removed, assignments included. Returns the mirrored events.
func (s *CalendarService) SyncWeek(weekOf string) ([]models.CalendarEvent, error) {
	events, err := s.ListWeek(weekOf)
	if err != nil {
		return nil, err
	}

	start, end, err := s.weekWindow(weekOf)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(events))
	for i := range events {
		seen[events[i].ProviderID] = true

		var existing models.CalendarEvent
		result := database.DB.Where("provider_id = ?", events[i].ProviderID).First(&existing)
		if result.Error != nil {
			if err := database.DB.Create(&events[i]).Error; err != nil {
				return nil, fmt.Errorf("failed to mirror event: %w", err)
			}
			continue
		}
		existing.Title = events[i].Title
		existing.Start = events[i].Start
		existing.End = events[i].End
		existing.AllDay = events[i].AllDay
		existing.Location = events[i].Location
		if err := database.DB.Save(&existing).Error; err != nil {
			return nil, fmt.Errorf("failed to refresh mirrored event: %w", err)
		}
		events[i] = existing
	}

	var stale []models.CalendarEvent
	database.DB.Where("start >= ? AND start < ?", start, end).Find(&stale)
	for _, ev := range stale {
		if seen[ev.ProviderID] {
			continue
		}
		database.DB.Where("calendar_event_id = ?", ev.ID).Delete(&models.EventAssignment{})
		database.DB.Delete(&ev)
	}

	var mirrored []models.CalendarEvent
	if result := database.DB.Preload("Assignees").Where("start >= ? AND start < ?", start, end).Order("start").Find(&mirrored); result.Error != nil {
		return nil, fmt.Errorf("failed to load mirrored events: %w", result.Error)
	}
	return mirrored, nil
}

func (s *CalendarService) weekWindow(weekOf string) (time.Time, time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", weekOf, s.location)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid week anchor %q: %w", weekOf, err)
	}
	return t, t.AddDate(0, 0, 7), nil
}

func (s *CalendarService) fromProvider(item *calendar.Event) models.CalendarEvent {
	event := models.CalendarEvent{
		ProviderID: item.Id,
		Title:      item.Summary,
		Location:   item.Location,
	}
	if item.Start != nil {
		if item.Start.DateTime != "" {
			event.Start, _ = time.Parse(time.RFC3339, item.Start.DateTime)
		} else if item.Start.Date != "" {
			event.Start, _ = time.ParseInLocation("2006-01-02", item.Start.Date, s.location)
			event.AllDay = true
		}
	}
	if item.End != nil {
		if item.End.DateTime != "" {
			event.End, _ = time.Parse(time.RFC3339, item.End.DateTime)
		} else if item.End.Date != "" {
			event.End, _ = time.ParseInLocation("2006-01-02", item.End.Date, s.location)
		}
	}
	return event
}

func (s *CalendarService) toProvider(input models.CalendarEventInput) *calendar.Event {
	event := &calendar.Event{
		Summary:  input.Title,
		Location: input.Location,
	}
	if input.AllDay {
		event.Start = &calendar.EventDateTime{Date: input.Start.In(s.location).Format("2006-01-02")}
		event.End = &calendar.EventDateTime{Date: input.End.In(s.location).Format("2006-01-02")}
	} else {
		event.Start = &calendar.EventDateTime{DateTime: input.Start.Format(time.RFC3339)}
		event.End = &calendar.EventDateTime{DateTime: input.End.Format(time.RFC3339)}
	}
	return event
}

// WeekEventIDs lists the provider ids of the mirrored events in one
// week, for the events-step gate.
func WeekEventIDs(weekOf, timezone string) ([]string, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation("2006-01-02", weekOf, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid week anchor %q: %w", weekOf, err)
	}

	var events []models.CalendarEvent
	if result := database.DB.Where("start >= ? AND start < ?", t, t.AddDate(0, 0, 7)).Find(&events); result.Error != nil {
		return nil, result.Error
	}
	ids := make([]string, len(events))
	for i, ev := range events {
		ids[i] = ev.ProviderID
	}
	return ids, nil
}
