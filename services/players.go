package services

import (
	"errors"
	"log"

	"rps-match-service/models"

	"gorm.io/gorm"
)

// UnknownPlayerName is the placeholder used whenever a display name cannot
// be resolved. Enrichment failures must never abort an engine operation.
const UnknownPlayerName = "Unknown"

// PlayerService resolves stable player ids to display names from the local
// player_profiles mirror kept fresh by the sync worker.
type PlayerService struct {
	DB *gorm.DB
}

func NewPlayerService(db *gorm.DB) *PlayerService {
	return &PlayerService{DB: db}
}

// DisplayName returns the player's display name, or UnknownPlayerName when
// the mirror has no row or the lookup fails.
func (s *PlayerService) DisplayName(playerID string) string {
	var profile models.PlayerProfile
	if err := s.DB.Where("external_user_id = ?", playerID).First(&profile).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("⚠️ Display name lookup failed for %s: %v", playerID, err)
		}
		return UnknownPlayerName
	}
	return profile.DisplayName()
}

// DisplayNames batch-resolves ids in one query. Every requested id is
// present in the returned map; misses map to UnknownPlayerName.
func (s *PlayerService) DisplayNames(playerIDs []string) map[string]string {
	names := make(map[string]string, len(playerIDs))
	for _, id := range playerIDs {
		names[id] = UnknownPlayerName
	}
	if len(playerIDs) == 0 {
		return names
	}

	var profiles []models.PlayerProfile
	if err := s.DB.Where("external_user_id IN ?", playerIDs).Find(&profiles).Error; err != nil {
		log.Printf("⚠️ Batch display name lookup failed: %v", err)
		return names
	}
	for i := range profiles {
		names[profiles[i].ExternalUserID] = profiles[i].DisplayName()
	}
	return names
}
