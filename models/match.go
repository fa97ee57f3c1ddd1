package models

import (
	"time"
)

// Match lifecycle states. Transitions are one-way:
// WAITING → IN_PROGRESS → COMPLETED.
const (
	MatchStatusWaiting    = "WAITING"
	MatchStatusInProgress = "IN_PROGRESS"
	MatchStatusCompleted  = "COMPLETED"
)

// Move choices. Fixed set; the beats relation lives in the match service.
const (
	ChoiceRock     = "ROCK"
	ChoicePaper    = "PAPER"
	ChoiceScissors = "SCISSORS"
)

// Match is one Rock-Paper-Scissors game between two players.
// The ID doubles as the shareable invite token.
type Match struct {
	ID        string    `json:"match_id" gorm:"primaryKey;type:uuid"`
	CreatorID string    `json:"creator_id" gorm:"index;not null"`
	JoinerID  *string   `json:"joiner_id,omitempty" gorm:"index"` // nil until a second player joins
	Status    string    `json:"status" gorm:"type:varchar(16);not null;index;default:'WAITING'"`
	WinnerID  *string   `json:"winner_id,omitempty"` // nil = draw or not yet decided; meaningful only when COMPLETED
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Move is a player's one-time choice within a match. The composite unique
// index is what actually enforces "at most one move per player per match";
// the service checks first, the index backstops races.
type Move struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	MatchID     string    `json:"match_id" gorm:"not null;uniqueIndex:idx_moves_match_player"`
	PlayerID    string    `json:"player_id" gorm:"not null;uniqueIndex:idx_moves_match_player"`
	Choice      string    `json:"choice" gorm:"type:varchar(16);not null;check:choice IN ('ROCK','PAPER','SCISSORS')"`
	SubmittedAt time.Time `json:"submitted_at" gorm:"autoCreateTime"`
}

// ResultAcknowledgment records that a player has had a completed match's
// result rendered to them at least once. Gates the one-time reveal animation
// on the client; never restricts data access. Rows are created lazily and
// never deleted.
type ResultAcknowledgment struct {
	ID       string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	MatchID  string    `json:"match_id" gorm:"not null;uniqueIndex:idx_acks_match_player"`
	PlayerID string    `json:"player_id" gorm:"not null;uniqueIndex:idx_acks_match_player"`
	SeenAt   time.Time `json:"seen_at" gorm:"autoCreateTime"`
}
