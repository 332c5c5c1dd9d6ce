package http

import (
	"net/http"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/bao1311/EventFinder/services/api/internal/domain"
)

// RouteEvent dispatches the /events/{id} subtree: the JSON detail and
// the iCalendar export.
func RouteEvent(svc EventGetter) http.HandlerFunc {
	detail := HandleGetEvent(svc)
	calendar := HandleEventCalendar(svc)
	return func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/calendar.ics") {
			calendar(w, r)
			return
		}
		detail(w, r)
	}
}

// HandleEventCalendar returns an HTTP handler for
// GET /events/{id}/calendar.ics.
func HandleEventCalendar(svc EventGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		id, ok := parseEventCalendarPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		ev, err := svc.GetEvent(r.Context(), id)
		if err != nil {
			writeEventError(w, err)
			return
		}
		if ev.DateTBA {
			writeError(w, http.StatusConflict, codeInvalidRequestBody, "event date not announced yet")
			return
		}

		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="event.ics"`)
		_, _ = w.Write([]byte(renderCalendar(ev)))
	}
}

// renderCalendar builds a single-VEVENT calendar for the event. Without
// an advertised duration the entry spans two hours.
func renderCalendar(ev domain.Event) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//EventFinder//Discovery//EN")

	entry := cal.AddEvent(ev.ID + "@eventfinder")
	entry.SetStartAt(ev.StartsAt)
	entry.SetEndAt(ev.StartsAt.Add(2 * time.Hour))
	entry.SetDtStampTime(ev.FetchedAt)
	entry.SetSummary(ev.Name)
	if ev.URL != "" {
		entry.SetURL(ev.URL)
	}
	if loc := calendarLocation(ev.Venue); loc != "" {
		entry.SetLocation(loc)
	}
	if ev.Geocoded {
		entry.SetGeo(ev.Latitude, ev.Longitude)
	}
	return cal.Serialize()
}

func calendarLocation(v domain.Venue) string {
	parts := make([]string, 0, 4)
	for _, part := range []string{v.Name, v.Address, v.City, v.Country} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, ", ")
}

// parseEventCalendarPath extracts the event ID from
// /events/{id}/calendar.ics.
func parseEventCalendarPath(path string) (string, bool) {
	rest, ok := strings.CutPrefix(path, "/events/")
	if !ok {
		return "", false
	}
	id, ok := strings.CutSuffix(rest, "/calendar.ics")
	if !ok || id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}
