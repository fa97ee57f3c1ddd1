package services

import (
	"sort"

	"rps-match-service/models"

	"gorm.io/gorm"
)

// DefaultMinHeadToHeadGames is the minimum number of games a pairing needs
// before it counts toward best/worst win-rate opponents. Filters out
// small-sample noise.
const DefaultMinHeadToHeadGames = 3

// PlayerStats is one player's aggregate over all their completed matches.
type PlayerStats struct {
	UserID              string  `json:"user_id"`
	Username            string  `json:"username"`
	TotalGames          int     `json:"total_games"`
	Wins                int     `json:"wins"`
	Losses              int     `json:"losses"`
	Draws               int     `json:"draws"`
	RockCount           int     `json:"rock_count"`
	PaperCount          int     `json:"paper_count"`
	ScissorsCount       int     `json:"scissors_count"`
	FavoriteChoice      *string `json:"favorite_choice,omitempty"`       // unset on ties
	LeastFavoriteChoice *string `json:"least_favorite_choice,omitempty"` // unset with fewer than two distinct choices
	// CurrentStreak is signed: positive = consecutive wins ending at the most
	// recent match, negative = consecutive losses. A draw halts the scan.
	CurrentStreak    int `json:"current_streak"`
	LongestWinStreak int `json:"longest_win_streak"`

	MostFrequentOpponent *OpponentRecord `json:"most_frequent_opponent,omitempty"`
	BestOpponent         *OpponentRecord `json:"best_opponent,omitempty"`
	WorstOpponent        *OpponentRecord `json:"worst_opponent,omitempty"`
}

// OpponentRecord summarizes one pairing from a single player's perspective.
type OpponentRecord struct {
	OpponentID   string  `json:"opponent_id"`
	OpponentName string  `json:"opponent_name"`
	Games        int     `json:"games"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	Draws        int     `json:"draws"`
	WinRate      float64 `json:"win_rate"`
}

// HeadToHead is the aggregate record between one unordered pair of players.
// Player1/Player2 ordering is by id, so the record is identical no matter
// which side asks.
type HeadToHead struct {
	Player1ID   string `json:"player1_id"`
	Player2ID   string `json:"player2_id"`
	Player1Name string `json:"player1_name"`
	Player2Name string `json:"player2_name"`
	Player1Wins int    `json:"player1_wins"`
	Player2Wins int    `json:"player2_wins"`
	Draws       int    `json:"draws"`
	TotalGames  int    `json:"total_games"`
}

// StatsReport is the full read-side output: every participating player plus
// every pairing. Recomputed per request, nothing persisted.
type StatsReport struct {
	PlayerStats []PlayerStats `json:"player_stats"`
	HeadToHead  []HeadToHead  `json:"head_to_head_stats"`
}

type StatsService struct {
	DB                 *gorm.DB
	Players            *PlayerService
	MinHeadToHeadGames int
}

func NewStatsService(db *gorm.DB, players *PlayerService) *StatsService {
	return &StatsService{
		DB:                 db,
		Players:            players,
		MinHeadToHeadGames: DefaultMinHeadToHeadGames,
	}
}

// GetAllStats computes the full report over every completed match.
func (s *StatsService) GetAllStats() (*StatsReport, error) {
	matches, moves, err := s.loadCompleted()
	if err != nil {
		return nil, err
	}

	ids := participantIDs(matches)
	names := s.Players.DisplayNames(ids)

	players, pairs := BuildStats(matches, moves, names, s.MinHeadToHeadGames)
	return &StatsReport{PlayerStats: players, HeadToHead: pairs}, nil
}

// GetPlayerStats returns one player's aggregate, or ErrPlayerNoMatches when
// they have never finished a match.
func (s *StatsService) GetPlayerStats(playerID string) (*PlayerStats, error) {
	report, err := s.GetAllStats()
	if err != nil {
		return nil, err
	}
	for i := range report.PlayerStats {
		if report.PlayerStats[i].UserID == playerID {
			return &report.PlayerStats[i], nil
		}
	}
	return nil, ErrPlayerNoMatches
}

// GetHeadToHead returns every pairing playerID is part of.
func (s *StatsService) GetHeadToHead(playerID string) ([]HeadToHead, error) {
	report, err := s.GetAllStats()
	if err != nil {
		return nil, err
	}
	pairs := []HeadToHead{}
	for _, h := range report.HeadToHead {
		if h.Player1ID == playerID || h.Player2ID == playerID {
			pairs = append(pairs, h)
		}
	}
	return pairs, nil
}

// loadCompleted reads a consistent snapshot of completed matches in
// chronological order, plus the moves belonging to them.
func (s *StatsService) loadCompleted() ([]models.Match, []models.Move, error) {
	var matches []models.Match
	if err := retryRead(func() error {
		return s.DB.Where("status = ?", models.MatchStatusCompleted).
			Order("created_at ASC, id ASC").
			Find(&matches).Error
	}); err != nil {
		return nil, nil, err
	}
	if len(matches) == 0 {
		return matches, nil, nil
	}

	matchIDs := make([]string, 0, len(matches))
	for i := range matches {
		matchIDs = append(matchIDs, matches[i].ID)
	}
	var moves []models.Move
	if err := retryRead(func() error {
		return s.DB.Where("match_id IN ?", matchIDs).Find(&moves).Error
	}); err != nil {
		return nil, nil, err
	}
	return matches, moves, nil
}

func participantIDs(matches []models.Match) []string {
	seen := make(map[string]bool)
	var ids []string
	for i := range matches {
		m := &matches[i]
		if !seen[m.CreatorID] {
			seen[m.CreatorID] = true
			ids = append(ids, m.CreatorID)
		}
		if m.JoinerID != nil && !seen[*m.JoinerID] {
			seen[*m.JoinerID] = true
			ids = append(ids, *m.JoinerID)
		}
	}
	return ids
}

type outcome struct {
	isWin  bool
	isDraw bool
}

// BuildStats is the pure aggregation core. matches must be completed and in
// chronological order; names maps every participant id to a display name
// (missing ids fall back to UnknownPlayerName). Output slices are sorted for
// stable rendering: players by total games descending, pairings by total
// games descending.
func BuildStats(matches []models.Match, moves []models.Move, names map[string]string, minH2HGames int) ([]PlayerStats, []HeadToHead) {
	stats := make(map[string]*PlayerStats)
	pairs := make(map[[2]string]*HeadToHead)
	history := make(map[string][]outcome)

	nameFor := func(id string) string {
		if n, ok := names[id]; ok {
			return n
		}
		return UnknownPlayerName
	}
	playerFor := func(id string) *PlayerStats {
		if p, ok := stats[id]; ok {
			return p
		}
		p := &PlayerStats{UserID: id, Username: nameFor(id)}
		stats[id] = p
		return p
	}

	for i := range matches {
		m := &matches[i]
		if m.JoinerID == nil {
			continue // defensive: a completed match always has a joiner
		}
		creator := playerFor(m.CreatorID)
		joiner := playerFor(*m.JoinerID)

		creator.TotalGames++
		joiner.TotalGames++
		switch {
		case m.WinnerID == nil:
			creator.Draws++
			joiner.Draws++
		case *m.WinnerID == m.CreatorID:
			creator.Wins++
			joiner.Losses++
		default:
			creator.Losses++
			joiner.Wins++
		}

		history[m.CreatorID] = append(history[m.CreatorID], outcome{
			isWin:  m.WinnerID != nil && *m.WinnerID == m.CreatorID,
			isDraw: m.WinnerID == nil,
		})
		history[*m.JoinerID] = append(history[*m.JoinerID], outcome{
			isWin:  m.WinnerID != nil && *m.WinnerID == *m.JoinerID,
			isDraw: m.WinnerID == nil,
		})

		key := pairKey(m.CreatorID, *m.JoinerID)
		h := pairs[key]
		if h == nil {
			h = &HeadToHead{
				Player1ID:   key[0],
				Player2ID:   key[1],
				Player1Name: nameFor(key[0]),
				Player2Name: nameFor(key[1]),
			}
			pairs[key] = h
		}
		h.TotalGames++
		switch {
		case m.WinnerID == nil:
			h.Draws++
		case *m.WinnerID == h.Player1ID:
			h.Player1Wins++
		default:
			h.Player2Wins++
		}
	}

	for i := range moves {
		p, ok := stats[moves[i].PlayerID]
		if !ok {
			continue
		}
		switch moves[i].Choice {
		case models.ChoiceRock:
			p.RockCount++
		case models.ChoicePaper:
			p.PaperCount++
		case models.ChoiceScissors:
			p.ScissorsCount++
		}
	}

	for id, p := range stats {
		p.CurrentStreak = currentStreak(history[id])
		p.LongestWinStreak = longestWinStreak(history[id])
		p.FavoriteChoice, p.LeastFavoriteChoice = choicePreferences(p.RockCount, p.PaperCount, p.ScissorsCount)
		attachOpponents(p, pairs, minH2HGames)
	}

	players := make([]PlayerStats, 0, len(stats))
	for _, p := range stats {
		players = append(players, *p)
	}
	sort.Slice(players, func(i, j int) bool {
		if players[i].TotalGames != players[j].TotalGames {
			return players[i].TotalGames > players[j].TotalGames
		}
		return players[i].UserID < players[j].UserID
	})

	h2h := make([]HeadToHead, 0, len(pairs))
	for _, h := range pairs {
		h2h = append(h2h, *h)
	}
	sort.Slice(h2h, func(i, j int) bool {
		if h2h[i].TotalGames != h2h[j].TotalGames {
			return h2h[i].TotalGames > h2h[j].TotalGames
		}
		if h2h[i].Player1ID != h2h[j].Player1ID {
			return h2h[i].Player1ID < h2h[j].Player1ID
		}
		return h2h[i].Player2ID < h2h[j].Player2ID
	})

	return players, h2h
}

func pairKey(a, b string) [2]string {
	if a < b {
		return [2]string{a, b}
	}
	return [2]string{b, a}
}

// currentStreak walks outcomes from most recent backwards, stopping at the
// first draw or sign change.
func currentStreak(games []outcome) int {
	streak := 0
	for i := len(games) - 1; i >= 0; i-- {
		g := games[i]
		switch {
		case g.isDraw:
			return streak
		case g.isWin:
			if streak < 0 {
				return streak
			}
			streak++
		default:
			if streak > 0 {
				return streak
			}
			streak--
		}
	}
	return streak
}

// longestWinStreak is the maximum run of consecutive wins anywhere in the
// chronological history.
func longestWinStreak(games []outcome) int {
	longest, run := 0, 0
	for _, g := range games {
		if g.isWin {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	return longest
}

// choicePreferences derives the favorite (highest non-zero count, undefined
// on ties) and least favorite (lowest non-zero count, undefined unless at
// least two distinct choices were used, undefined on ties).
func choicePreferences(rock, paper, scissors int) (favorite, leastFavorite *string) {
	counts := map[string]int{
		models.ChoiceRock:     rock,
		models.ChoicePaper:    paper,
		models.ChoiceScissors: scissors,
	}

	distinct := 0
	for _, n := range counts {
		if n > 0 {
			distinct++
		}
	}
	if distinct == 0 {
		return nil, nil
	}

	var maxChoice, minChoice string
	maxCount, minCount := 0, 0
	maxTied, minTied := false, false
	for _, choice := range []string{models.ChoiceRock, models.ChoicePaper, models.ChoiceScissors} {
		n := counts[choice]
		if n == 0 {
			continue
		}
		if maxChoice == "" || n > maxCount {
			maxChoice, maxCount, maxTied = choice, n, false
		} else if n == maxCount {
			maxTied = true
		}
		if minChoice == "" || n < minCount {
			minChoice, minCount, minTied = choice, n, false
		} else if n == minCount {
			minTied = true
		}
	}

	if !maxTied {
		favorite = &maxChoice
	}
	if distinct >= 2 && !minTied {
		leastFavorite = &minChoice
	}
	return favorite, leastFavorite
}

// attachOpponents derives the per-player opponent highlights from the
// pairing records: most frequent opponent overall, best and worst win-rate
// opponents among pairings with at least minGames games.
func attachOpponents(p *PlayerStats, pairs map[[2]string]*HeadToHead, minGames int) {
	var records []OpponentRecord
	for _, h := range pairs {
		var rec OpponentRecord
		switch p.UserID {
		case h.Player1ID:
			rec = OpponentRecord{
				OpponentID:   h.Player2ID,
				OpponentName: h.Player2Name,
				Games:        h.TotalGames,
				Wins:         h.Player1Wins,
				Losses:       h.Player2Wins,
				Draws:        h.Draws,
			}
		case h.Player2ID:
			rec = OpponentRecord{
				OpponentID:   h.Player1ID,
				OpponentName: h.Player1Name,
				Games:        h.TotalGames,
				Wins:         h.Player2Wins,
				Losses:       h.Player1Wins,
				Draws:        h.Draws,
			}
		default:
			continue
		}
		rec.WinRate = float64(rec.Wins) / float64(rec.Games)
		records = append(records, rec)
	}
	if len(records) == 0 {
		return
	}

	// Deterministic tie-breaks by opponent id.
	sort.Slice(records, func(i, j int) bool {
		return records[i].OpponentID < records[j].OpponentID
	})

	frequent := records[0]
	for _, r := range records[1:] {
		if r.Games > frequent.Games {
			frequent = r
		}
	}
	p.MostFrequentOpponent = &frequent

	var best, worst *OpponentRecord
	for i := range records {
		r := &records[i]
		if r.Games < minGames {
			continue
		}
		if best == nil || r.WinRate > best.WinRate {
			best = r
		}
		if worst == nil || r.WinRate < worst.WinRate {
			worst = r
		}
	}
	if best != nil {
		b, w := *best, *worst
		p.BestOpponent = &b
		p.WorstOpponent = &w
	}
}
