package models

import (
	"time"
)

// PlayerProfile is a local snapshot of player identity data.
// Owned and managed solely by the match service; populated via the
// player sync worker from the profile service. The match engine only ever
// reads it, and only for display-name enrichment.
type PlayerProfile struct {
	ID             string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ExternalUserID string    `gorm:"uniqueIndex;not null" json:"external_user_id"` // the profile service's stable player id
	Username       string    `gorm:"index;not null" json:"username"`
	FirstName      *string   `json:"first_name,omitempty"`
	LastName       *string   `json:"last_name,omitempty"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// DisplayName prefers the first name, falling back to the username.
func (p *PlayerProfile) DisplayName() string {
	if p.FirstName != nil && *p.FirstName != "" {
		return *p.FirstName
	}
	return p.Username
}
