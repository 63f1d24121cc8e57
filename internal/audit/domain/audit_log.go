package domain

import "time"

// AuditLog is one recorded login action. Credentials are never stored.
type AuditLog struct {
	ID        string
	Action    string
	Method    string
	Metadata  string
	CreatedAt time.Time
}
