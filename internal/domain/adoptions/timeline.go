package adoptions

import (
	"fmt"
	"time"
)

func (a *Application) appendTimeline(status Status, at time.Time, notes, actor string) {
	a.Timeline = append(a.Timeline, TimelineEntry{
		Status: status,
		Date:   at,
		Notes:  notes,
		Actor:  actor,
	})
}

// CheckTimeline verifica el log de auditoría: arranca en submitted, fechas no
// decrecientes y la última entrada coincide con el estado actual.
func CheckTimeline(a Application) error {
	if len(a.Timeline) == 0 {
		return fmt.Errorf("application %s has empty timeline", a.ID)
	}
	if a.Timeline[0].Status != StatusSubmitted {
		return fmt.Errorf("application %s timeline starts at %s", a.ID, a.Timeline[0].Status)
	}
	for i := 1; i < len(a.Timeline); i++ {
		if a.Timeline[i].Date.Before(a.Timeline[i-1].Date) {
			return fmt.Errorf("application %s timeline entry %d goes back in time", a.ID, i)
		}
	}
	if last := a.Timeline[len(a.Timeline)-1]; last.Status != a.Status {
		return fmt.Errorf("application %s last timeline entry %s != status %s", a.ID, last.Status, a.Status)
	}
	return nil
}
