package services

import (
	"errors"

	"rps-match-service/models"

	"gorm.io/gorm"
)

// ActiveMatch is an IN_PROGRESS match annotated with whether the listing
// player has already moved. The opponent's choice is never exposed here.
type ActiveMatch struct {
	models.Match
	HasMoved bool `json:"has_moved"`
}

// CompletedMatch is a COMPLETED match annotated with whether the listing
// player has acknowledged the result.
type CompletedMatch struct {
	models.Match
	ResultSeen bool `json:"result_seen"`
}

// MatchList groups the matches relevant to one player. The categories are
// disjoint: a player's own WAITING matches go to Awaiting, never Open.
type MatchList struct {
	Open      []models.Match   `json:"open"`
	Awaiting  []models.Match   `json:"awaiting"`
	Active    []ActiveMatch    `json:"active"`
	Completed []CompletedMatch `json:"completed"`
}

// MoveView is a resolved move as shown to viewers of a completed match.
type MoveView struct {
	PlayerID string `json:"player_id"`
	Choice   string `json:"choice"`
}

// MatchDetail is the single-match view. YourMove is only set while the match
// is IN_PROGRESS; Moves only once it is COMPLETED.
type MatchDetail struct {
	models.Match
	CreatorName string     `json:"creator_name"`
	JoinerName  *string    `json:"joiner_name,omitempty"`
	YourMove    *string    `json:"your_move,omitempty"`
	Moves       []MoveView `json:"moves,omitempty"`
	ResultSeen  bool       `json:"result_seen"`
}

type MatchQueryService struct {
	DB      *gorm.DB
	Players *PlayerService
}

func NewMatchQueryService(db *gorm.DB, players *PlayerService) *MatchQueryService {
	return &MatchQueryService{DB: db, Players: players}
}

// ListMatches returns every match relevant to playerID, split into the four
// listing categories, each ordered by creation time ascending. Clients poll
// this on a fixed interval to notice joins and opponent moves.
func (s *MatchQueryService) ListMatches(playerID string) (*MatchList, error) {
	var matches []models.Match
	err := retryRead(func() error {
		return s.DB.
			Where("status = ? OR ((creator_id = ? OR joiner_id = ?) AND status IN ?)",
				models.MatchStatusWaiting, playerID, playerID,
				[]string{models.MatchStatusInProgress, models.MatchStatusCompleted}).
			Order("created_at ASC").
			Find(&matches).Error
	})
	if err != nil {
		return nil, err
	}

	matchIDs := make([]string, 0, len(matches))
	for i := range matches {
		matchIDs = append(matchIDs, matches[i].ID)
	}

	moved := make(map[string]bool)
	seen := make(map[string]bool)
	if len(matchIDs) > 0 {
		var moves []models.Move
		if err := s.DB.Where("player_id = ? AND match_id IN ?", playerID, matchIDs).
			Find(&moves).Error; err != nil {
			return nil, err
		}
		for i := range moves {
			moved[moves[i].MatchID] = true
		}

		var acks []models.ResultAcknowledgment
		if err := s.DB.Where("player_id = ? AND match_id IN ?", playerID, matchIDs).
			Find(&acks).Error; err != nil {
			return nil, err
		}
		for i := range acks {
			seen[acks[i].MatchID] = true
		}
	}

	return CategorizeMatches(playerID, matches, moved, seen), nil
}

// CategorizeMatches splits matches into the listing categories for playerID.
// Input order is preserved within each category.
func CategorizeMatches(playerID string, matches []models.Match, moved, seen map[string]bool) *MatchList {
	list := &MatchList{
		Open:      []models.Match{},
		Awaiting:  []models.Match{},
		Active:    []ActiveMatch{},
		Completed: []CompletedMatch{},
	}
	for _, m := range matches {
		switch m.Status {
		case models.MatchStatusWaiting:
			if m.CreatorID == playerID {
				list.Awaiting = append(list.Awaiting, m)
			} else {
				list.Open = append(list.Open, m)
			}
		case models.MatchStatusInProgress:
			if IsParticipant(&m, playerID) {
				list.Active = append(list.Active, ActiveMatch{Match: m, HasMoved: moved[m.ID]})
			}
		case models.MatchStatusCompleted:
			if IsParticipant(&m, playerID) {
				list.Completed = append(list.Completed, CompletedMatch{Match: m, ResultSeen: seen[m.ID]})
			}
		}
	}
	return list
}

// GetMatchDetail loads one match for rendering. Access follows the share
// model: participants always, anyone while the match is still WAITING (the
// id is the invite token).
func (s *MatchQueryService) GetMatchDetail(matchID, viewerID string) (*MatchDetail, error) {
	var match models.Match
	if err := s.DB.First(&match, "id = ?", matchID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	if !IsParticipant(&match, viewerID) && match.Status != models.MatchStatusWaiting {
		return nil, ErrNotViewable
	}

	detail := &MatchDetail{Match: match}
	detail.CreatorName = s.Players.DisplayName(match.CreatorID)
	if match.JoinerID != nil {
		name := s.Players.DisplayName(*match.JoinerID)
		detail.JoinerName = &name
	}

	switch match.Status {
	case models.MatchStatusInProgress:
		var move models.Move
		err := s.DB.Where("match_id = ? AND player_id = ?", matchID, viewerID).
			First(&move).Error
		if err == nil {
			detail.YourMove = &move.Choice
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	case models.MatchStatusCompleted:
		var moves []models.Move
		if err := s.DB.Where("match_id = ?", matchID).
			Order("submitted_at ASC").Find(&moves).Error; err != nil {
			return nil, err
		}
		for _, m := range moves {
			detail.Moves = append(detail.Moves, MoveView{PlayerID: m.PlayerID, Choice: m.Choice})
		}

		var count int64
		if err := s.DB.Model(&models.ResultAcknowledgment{}).
			Where("match_id = ? AND player_id = ?", matchID, viewerID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		detail.ResultSeen = count > 0
	}

	return detail, nil
}
