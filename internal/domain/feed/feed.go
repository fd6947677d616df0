package feed

import (
	"strings"
	"time"
)

// Task is the slice of a task record the engine reads.
type Task struct {
	ClientID  string     `json:"clientId"`
	DueDate   *time.Time `json:"dueDate,omitempty"`
	Completed bool       `json:"completed"`
}

// Appointment is the slice of a calendar entry the engine reads.
type Appointment struct {
	ClientID  string     `json:"clientId"`
	StartTime *time.Time `json:"startTime,omitempty"`
}

// Severity is an alert severity level.
type Severity string

// SeverityHigh is the only severity the engine distinguishes.
const SeverityHigh Severity = "high"

// Alert is the slice of a portfolio alert the engine reads.
type Alert struct {
	ClientID string   `json:"clientId"`
	Severity Severity `json:"severity"`
	Title    string   `json:"title"`
}

// IsComplaint reports whether the alert is an open high-severity complaint.
func (a *Alert) IsComplaint() bool {
	return Severity(strings.ToLower(string(a.Severity))) == SeverityHigh &&
		strings.Contains(strings.ToLower(a.Title), "complaint")
}

// HealthStatus is a relationship-health band computed by an external service.
type HealthStatus string

// Health bands. Other values may appear and are treated as healthy.
const (
	HealthOnTrack HealthStatus = "on-track"
	HealthWatch   HealthStatus = "watch"
	HealthAtRisk  HealthStatus = "at-risk"
)

// ParseHealthStatus normalizes spelling variants such as "At Risk" or "at_risk".
func ParseHealthStatus(s string) HealthStatus {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("_", "-", " ", "-").Replace(s)
	return HealthStatus(s)
}

// Health is an externally computed relationship-health record. Lower scores are worse.
type Health struct {
	ClientID string       `json:"clientId"`
	Status   HealthStatus `json:"status"`
	Score    float64      `json:"score"`
}

// Signals groups every feed record that mentions one client.
type Signals struct {
	Tasks        []Task
	Appointments []Appointment
	Alerts       []Alert
	Health       *Health
}

// Index groups feed records by client id so a ranking pass reads each feed once.
type Index struct {
	byClient map[string]*Signals
	skipped  int
}

// NewIndex builds an Index. Records without a client id, tasks without a due date
// and appointments without a start time are skipped. For health, the last record
// per client wins.
func NewIndex(tasks []Task, appointments []Appointment, alerts []Alert, health []Health) *Index {
	idx := &Index{byClient: make(map[string]*Signals)}

	for _, t := range tasks {
		if !validID(t.ClientID) || t.DueDate == nil {
			idx.skipped++
			continue
		}
		s := idx.entry(t.ClientID)
		s.Tasks = append(s.Tasks, t)
	}
	for _, a := range appointments {
		if !validID(a.ClientID) || a.StartTime == nil {
			idx.skipped++
			continue
		}
		s := idx.entry(a.ClientID)
		s.Appointments = append(s.Appointments, a)
	}
	for _, a := range alerts {
		if !validID(a.ClientID) {
			idx.skipped++
			continue
		}
		s := idx.entry(a.ClientID)
		s.Alerts = append(s.Alerts, a)
	}
	for i := range health {
		h := health[i]
		if !validID(h.ClientID) {
			idx.skipped++
			continue
		}
		h.Status = ParseHealthStatus(string(h.Status))
		idx.entry(h.ClientID).Health = &h
	}
	return idx
}

// For returns the signals for a client. Unknown clients get empty signals.
func (idx *Index) For(clientID string) Signals {
	if idx == nil {
		return Signals{}
	}
	if s, ok := idx.byClient[clientID]; ok {
		return *s
	}
	return Signals{}
}

// Skipped returns how many records failed the shape checks.
func (idx *Index) Skipped() int {
	if idx == nil {
		return 0
	}
	return idx.skipped
}

func (idx *Index) entry(clientID string) *Signals {
	s, ok := idx.byClient[clientID]
	if !ok {
		s = &Signals{}
		idx.byClient[clientID] = s
	}
	return s
}

func validID(id string) bool { return strings.TrimSpace(id) != "" }
