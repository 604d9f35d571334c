package models

import (
	// Go Internal Packages
	"time"
)

type AuditEventType string

const (
	EventPaymentRequested AuditEventType = "payment.requested"
	EventPaymentRecorded  AuditEventType = "payment.recorded"
	EventPaymentVerified  AuditEventType = "payment.verified"
	EventClientPaid       AuditEventType = "client.paid"
	EventPaymentApplied   AuditEventType = "payment.applied"
	EventPaymentFailed    AuditEventType = "payment.failed"
	EventPaymentCritical  AuditEventType = "payment.critical"
)

// AuditEvent is one step of a payment workflow as published on the audit topic.
type AuditEvent struct {
	ID        string         `json:"id" bson:"_id"`
	Type      AuditEventType `json:"type" bson:"type"`
	Authority string         `json:"authority,omitempty" bson:"authority,omitempty"`
	Referrer  string         `json:"referrer,omitempty" bson:"referrer,omitempty"`
	Clients   []string       `json:"clients,omitempty" bson:"clients,omitempty"`
	Amount    uint64         `json:"amount,omitempty" bson:"amount,omitempty"`
	Detail    string         `json:"detail,omitempty" bson:"detail,omitempty"`
	Timestamp time.Time      `json:"timestamp" bson:"timestamp"`
}

// CriticalIncident holds what an operator needs to reconcile a failure that
// happened after the gateway already acted.
type CriticalIncident struct {
	Stage        string    `json:"stage"`
	Authority    string    `json:"authority"`
	Referrer     string    `json:"referrer,omitempty"`
	Clients      []string  `json:"clients"`
	Amount       uint64    `json:"amount"`
	FailedName   string    `json:"failed_name,omitempty"`
	Position     int       `json:"position,omitempty"`
	Applied      []string  `json:"applied,omitempty"`
	NotAttempted []string  `json:"not_attempted,omitempty"`
	Error        string    `json:"error"`
	OccurredAt   time.Time `json:"occurred_at"`
}

const (
	StageRecord = "record"
	StageApply  = "apply"
)
