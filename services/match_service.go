package services

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"

	"rps-match-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultMaxOpenMatches caps how many non-completed matches a player may
// have created at once. Overridable via MAX_OPEN_MATCHES.
const DefaultMaxOpenMatches = 3

type MatchService struct {
	DB             *gorm.DB
	MaxOpenMatches int
}

func NewMatchService(db *gorm.DB) *MatchService {
	limit := DefaultMaxOpenMatches
	if v := os.Getenv("MAX_OPEN_MATCHES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		} else {
			log.Printf("⚠️ Invalid MAX_OPEN_MATCHES %q, using default %d", v, DefaultMaxOpenMatches)
		}
	}
	return &MatchService{DB: db, MaxOpenMatches: limit}
}

// NormalizeChoice validates a raw choice value, accepting any casing.
func NormalizeChoice(raw string) (string, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case models.ChoiceRock:
		return models.ChoiceRock, nil
	case models.ChoicePaper:
		return models.ChoicePaper, nil
	case models.ChoiceScissors:
		return models.ChoiceScissors, nil
	default:
		return "", ErrInvalidChoice
	}
}

func beats(a, b string) bool {
	return (a == models.ChoiceRock && b == models.ChoiceScissors) ||
		(a == models.ChoiceScissors && b == models.ChoicePaper) ||
		(a == models.ChoicePaper && b == models.ChoiceRock)
}

// ResolveWinner applies the fixed beats relation to two recorded moves and
// returns the winning player's id, or nil for a draw.
func ResolveWinner(a, b models.Move) *string {
	if a.Choice == b.Choice {
		return nil
	}
	if beats(a.Choice, b.Choice) {
		return &a.PlayerID
	}
	return &b.PlayerID
}

// IsParticipant reports whether playerID is the match's creator or joiner.
func IsParticipant(m *models.Match, playerID string) bool {
	if m.CreatorID == playerID {
		return true
	}
	return m.JoinerID != nil && *m.JoinerID == playerID
}

// CreateMatch opens a new WAITING match owned by creatorID and returns it.
// The per-creator cap is a soft admission check (count-and-compare), not a
// transactional guard; two racing creates may both pass at the boundary.
func (s *MatchService) CreateMatch(creatorID string) (*models.Match, error) {
	var open int64
	if err := s.DB.Model(&models.Match{}).
		Where("creator_id = ? AND status <> ?", creatorID, models.MatchStatusCompleted).
		Count(&open).Error; err != nil {
		return nil, err
	}
	if open >= int64(s.MaxOpenMatches) {
		return nil, ErrLimitExceeded
	}

	match := &models.Match{
		ID:        uuid.NewString(),
		CreatorID: creatorID,
		Status:    models.MatchStatusWaiting,
	}
	if err := s.DB.Create(match).Error; err != nil {
		return nil, err
	}
	log.Printf("🎮 Match %s created by %s", match.ID, creatorID)
	return match, nil
}

// JoinMatch attaches playerID as the joiner of a WAITING match and moves it
// to IN_PROGRESS. The row lock makes a double join impossible: the second
// caller re-reads the match as IN_PROGRESS and gets ErrInvalidState.
func (s *MatchService) JoinMatch(matchID, playerID string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var match models.Match
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&match, "id = ?", matchID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMatchNotFound
			}
			return err
		}
		if match.Status != models.MatchStatusWaiting {
			return ErrInvalidState
		}
		if match.CreatorID == playerID {
			return ErrSelfJoin
		}

		if err := tx.Model(&match).Updates(map[string]interface{}{
			"joiner_id": playerID,
			"status":    models.MatchStatusInProgress,
		}).Error; err != nil {
			return err
		}
		log.Printf("🤝 Match %s joined by %s", matchID, playerID)
		return nil
	})
}

// SubmitMove records a player's choice. The submission that completes the
// pair also resolves the match inside the same transaction. The SELECT ...
// FOR UPDATE on the match row is the serialization point: of two racing
// submitters exactly one observes both moves present and performs the
// resolution; the other commits its move first and the match it re-reads is
// already locked until that resolution lands.
func (s *MatchService) SubmitMove(matchID, playerID, choice string) (*models.Match, error) {
	choice, err := NormalizeChoice(choice)
	if err != nil {
		return nil, err
	}

	var match models.Match
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&match, "id = ?", matchID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMatchNotFound
			}
			return err
		}
		if match.Status != models.MatchStatusInProgress {
			return ErrInvalidState
		}
		if !IsParticipant(&match, playerID) {
			return ErrNotAParticipant
		}

		var existing int64
		if err := tx.Model(&models.Move{}).
			Where("match_id = ? AND player_id = ?", matchID, playerID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrDuplicateMove
		}

		move := models.Move{
			ID:       uuid.NewString(),
			MatchID:  matchID,
			PlayerID: playerID,
			Choice:   choice,
		}
		if err := tx.Create(&move).Error; err != nil {
			// unique (match_id, player_id) index backstops the check above
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateMove
			}
			return err
		}

		var moves []models.Move
		if err := tx.Where("match_id = ?", matchID).Find(&moves).Error; err != nil {
			return err
		}
		if len(moves) < 2 {
			return nil // opponent hasn't moved yet
		}

		winnerID := ResolveWinner(moves[0], moves[1])
		if err := tx.Model(&match).Updates(map[string]interface{}{
			"status":    models.MatchStatusCompleted,
			"winner_id": winnerID,
		}).Error; err != nil {
			return err
		}
		match.Status = models.MatchStatusCompleted
		match.WinnerID = winnerID
		if winnerID != nil {
			log.Printf("🏁 Match %s resolved, winner %s", matchID, *winnerID)
		} else {
			log.Printf("🏁 Match %s resolved as a draw", matchID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &match, nil
}

// AcknowledgeResult records that playerID has seen the completed match's
// outcome. Idempotent: repeat calls after the first insert are no-ops.
func (s *MatchService) AcknowledgeResult(matchID, playerID string) error {
	var match models.Match
	if err := s.DB.First(&match, "id = ?", matchID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMatchNotFound
		}
		return err
	}
	if match.Status != models.MatchStatusCompleted {
		return ErrInvalidState
	}

	ack := models.ResultAcknowledgment{
		ID:       uuid.NewString(),
		MatchID:  matchID,
		PlayerID: playerID,
	}
	if err := s.DB.Create(&ack).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil // already acknowledged
		}
		return err
	}
	return nil
}
