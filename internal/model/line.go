package model

import "time"

// Line is a rail line followed by exactly one user.
// (OwnerID, CompanyName, LineName) is unique.
type Line struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	CompanyName string    `json:"company_name"`
	LineName    string    `json:"line_name"`
	InfoURL     string    `json:"info_url,omitempty"` // empty when no status page is known
	Memo        string    `json:"memo,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// DisplayName joins company and line name the way the dashboard shows it.
func (l *Line) DisplayName() string {
	return l.CompanyName + " " + l.LineName
}

// HasInfoURL reports whether a status page is configured.
func (l *Line) HasInfoURL() bool {
	return l.InfoURL != ""
}
