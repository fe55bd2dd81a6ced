// Package model defines the incident types shared across the application.
package model

// Incident is a single dispatch/alarm event as delivered by the upstream
// alarm API. All fields besides ID are optional; an empty string means the
// upstream did not supply the field.
type Incident struct {
	ID         string `json:"id"`
	Type       string `json:"type,omitempty"`
	Keyword    string `json:"keyword,omitempty"`
	Unit       string `json:"unit,omitempty"`
	Vehicles   string `json:"vehicles,omitempty"`
	Timestamp  string `json:"timestamp,omitempty"`
	TenantID   string `json:"tenant_id,omitempty"`
	TenantName string `json:"tenant_name,omitempty"`
}
