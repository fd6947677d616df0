package attention

import (
	"time"

	"github.com/kailas-cloud/clientrank/internal/domain/client"
	"github.com/kailas-cloud/clientrank/internal/domain/feed"
)

// DefaultStaleContactDays is the contact age after which a client is flagged.
const DefaultStaleContactDays = 90

// Status is the display label derived for a client card.
type Status string

// Display statuses in priority order.
const (
	StatusMeetingToday Status = "Meeting Today"
	StatusComplaint    Status = "Open Complaint"
	StatusOverdueTask  Status = "Overdue Task"
	StatusStaleContact Status = "Follow-up Due"
	StatusOnTrack      Status = "On Track"
)

// Verdict is the outcome of classifying one client.
type Verdict struct {
	NeedsAttention bool
	// HealthScore is set only when an external health record was used.
	// Lower is worse.
	HealthScore *float64
}

// Heuristic flags clients from contact age and alert count.
type Heuristic struct {
	StaleContactDays int
}

// Classify implements Classifier.
func (h Heuristic) Classify(c *client.Client, _ feed.Signals, now time.Time) Verdict {
	return Verdict{
		NeedsAttention: c.DaysSinceContact(now) > h.staleDays() || c.AlertCount > 0,
	}
}

func (h Heuristic) staleDays() int {
	if h.StaleContactDays <= 0 {
		return DefaultStaleContactDays
	}
	return h.StaleContactDays
}

// HealthBased flags clients whose external health band is watch or at-risk.
type HealthBased struct{}

// Classify implements Classifier. Signals without a health record are never flagged.
func (HealthBased) Classify(_ *client.Client, sig feed.Signals, _ time.Time) Verdict {
	if sig.Health == nil {
		return Verdict{}
	}
	score := sig.Health.Score
	switch sig.Health.Status {
	case feed.HealthWatch, feed.HealthAtRisk:
		return Verdict{NeedsAttention: true, HealthScore: &score}
	default:
		return Verdict{HealthScore: &score}
	}
}

// Service picks the health variant when a record exists for the client and
// falls back to the heuristic otherwise.
type Service struct {
	heuristic Classifier
	health    Classifier
	staleDays int
}

// New creates a Service. staleContactDays <= 0 selects DefaultStaleContactDays.
func New(staleContactDays int) *Service {
	if staleContactDays <= 0 {
		staleContactDays = DefaultStaleContactDays
	}
	return &Service{
		heuristic: Heuristic{StaleContactDays: staleContactDays},
		health:    HealthBased{},
		staleDays: staleContactDays,
	}
}

// Classify implements Classifier.
func (s *Service) Classify(c *client.Client, sig feed.Signals, now time.Time) Verdict {
	if sig.Health != nil {
		return s.health.Classify(c, sig, now)
	}
	return s.heuristic.Classify(c, sig, now)
}

// NeedsAttention is shorthand for Classify(...).NeedsAttention.
func (s *Service) NeedsAttention(c *client.Client, sig feed.Signals, now time.Time) bool {
	return s.Classify(c, sig, now).NeedsAttention
}

// Describe derives the card status. First match wins: a meeting today, an open
// complaint, an overdue incomplete task, a stale contact. Display only.
func (s *Service) Describe(c *client.Client, sig feed.Signals, now time.Time) Status {
	switch {
	case hasMeetingOn(sig.Appointments, now):
		return StatusMeetingToday
	case hasComplaint(sig.Alerts):
		return StatusComplaint
	case hasOverdueTask(sig.Tasks, now):
		return StatusOverdueTask
	case c.DaysSinceContact(now) > s.staleDays:
		return StatusStaleContact
	default:
		return StatusOnTrack
	}
}

func hasMeetingOn(appts []feed.Appointment, now time.Time) bool {
	y, m, d := now.Date()
	for _, a := range appts {
		if a.StartTime == nil {
			continue
		}
		ay, am, ad := a.StartTime.In(now.Location()).Date()
		if ay == y && am == m && ad == d {
			return true
		}
	}
	return false
}

func hasComplaint(alerts []feed.Alert) bool {
	for i := range alerts {
		if alerts[i].IsComplaint() {
			return true
		}
	}
	return false
}

func hasOverdueTask(tasks []feed.Task, now time.Time) bool {
	for _, t := range tasks {
		if !t.Completed && t.DueDate != nil && t.DueDate.Before(now) {
			return true
		}
	}
	return false
}
