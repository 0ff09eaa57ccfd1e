package event_bus

import "time"

type TrackingStarted struct {
	Time           time.Time
	Activity       string
	AttendanceType string
	BillingCode    string
	Description    string
}

type TrackingEnded struct {
	Time     time.Time
	Activity string
	Duration time.Duration
}

type CatalogChanged struct {
	Path        string
	BillingCode string
}
