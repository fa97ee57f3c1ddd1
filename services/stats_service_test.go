package services

import (
	"testing"

	"rps-match-service/models"
)

// completed builds a COMPLETED match between creator and joiner. winner ""
// means draw. Chronology in BuildStats follows slice order.
func completed(id, creator, joiner, winner string) models.Match {
	m := models.Match{
		ID:        id,
		CreatorID: creator,
		JoinerID:  &joiner,
		Status:    models.MatchStatusCompleted,
	}
	if winner != "" {
		m.WinnerID = &winner
	}
	return m
}

func statsFor(t *testing.T, players []PlayerStats, id string) *PlayerStats {
	t.Helper()
	for i := range players {
		if players[i].UserID == id {
			return &players[i]
		}
	}
	t.Fatalf("no stats computed for %s", id)
	return nil
}

func TestBuildStatsTotals(t *testing.T) {
	matches := []models.Match{
		completed("g1", "alice", "bob", "alice"),
		completed("g2", "bob", "alice", "bob"),
		completed("g3", "alice", "bob", ""),
	}
	names := map[string]string{"alice": "Alice", "bob": "Bob"}

	players, _ := BuildStats(matches, nil, names, DefaultMinHeadToHeadGames)

	alice := statsFor(t, players, "alice")
	if alice.TotalGames != 3 || alice.Wins != 1 || alice.Losses != 1 || alice.Draws != 1 {
		t.Fatalf("alice = %d/%d/%d/%d, want 3 games, 1 win, 1 loss, 1 draw",
			alice.TotalGames, alice.Wins, alice.Losses, alice.Draws)
	}
	if alice.Username != "Alice" {
		t.Fatalf("alice username = %q, want Alice", alice.Username)
	}

	bob := statsFor(t, players, "bob")
	if bob.Wins != 1 || bob.Losses != 1 || bob.Draws != 1 {
		t.Fatalf("bob = %d/%d/%d, want 1 win, 1 loss, 1 draw", bob.Wins, bob.Losses, bob.Draws)
	}
}

func TestBuildStatsNameFallback(t *testing.T) {
	matches := []models.Match{completed("g1", "alice", "ghost", "alice")}

	players, pairs := BuildStats(matches, nil, map[string]string{"alice": "Alice"}, DefaultMinHeadToHeadGames)

	ghost := statsFor(t, players, "ghost")
	if ghost.Username != UnknownPlayerName {
		t.Fatalf("unresolved player name = %q, want %q", ghost.Username, UnknownPlayerName)
	}
	if len(pairs) != 1 {
		t.Fatalf("pairs = %d, want 1", len(pairs))
	}
}

func TestStreaks(t *testing.T) {
	// Chronological outcomes for alice: win, win, draw, loss, win.
	matches := []models.Match{
		completed("g1", "alice", "bob", "alice"),
		completed("g2", "alice", "bob", "alice"),
		completed("g3", "alice", "bob", ""),
		completed("g4", "alice", "bob", "bob"),
		completed("g5", "alice", "bob", "alice"),
	}

	players, _ := BuildStats(matches, nil, nil, DefaultMinHeadToHeadGames)
	alice := statsFor(t, players, "alice")

	if alice.CurrentStreak != 1 {
		t.Fatalf("current streak = %d, want 1", alice.CurrentStreak)
	}
	if alice.LongestWinStreak != 2 {
		t.Fatalf("longest win streak = %d, want 2", alice.LongestWinStreak)
	}
}

func TestCurrentStreakStopsAtDraw(t *testing.T) {
	// Most recent match is a draw: the scan halts immediately.
	matches := []models.Match{
		completed("g1", "alice", "bob", "alice"),
		completed("g2", "alice", "bob", ""),
	}

	players, _ := BuildStats(matches, nil, nil, DefaultMinHeadToHeadGames)
	if got := statsFor(t, players, "alice").CurrentStreak; got != 0 {
		t.Fatalf("current streak = %d, want 0", got)
	}
}

func TestCurrentStreakNegative(t *testing.T) {
	matches := []models.Match{
		completed("g1", "alice", "bob", "alice"),
		completed("g2", "alice", "bob", "bob"),
		completed("g3", "alice", "bob", "bob"),
	}

	players, _ := BuildStats(matches, nil, nil, DefaultMinHeadToHeadGames)
	if got := statsFor(t, players, "alice").CurrentStreak; got != -2 {
		t.Fatalf("current streak = %d, want -2", got)
	}
	if got := statsFor(t, players, "bob").CurrentStreak; got != 2 {
		t.Fatalf("bob current streak = %d, want 2", got)
	}
}

func TestHeadToHeadSymmetric(t *testing.T) {
	// alice wins 3, bob wins 1, 2 draws.
	matches := []models.Match{
		completed("g1", "alice", "bob", "alice"),
		completed("g2", "bob", "alice", "alice"),
		completed("g3", "alice", "bob", "alice"),
		completed("g4", "bob", "alice", "bob"),
		completed("g5", "alice", "bob", ""),
		completed("g6", "bob", "alice", ""),
	}

	_, pairs := BuildStats(matches, nil, nil, DefaultMinHeadToHeadGames)
	if len(pairs) != 1 {
		t.Fatalf("pairs = %d, want 1 (unordered pair)", len(pairs))
	}

	h := pairs[0]
	if h.TotalGames != 6 {
		t.Fatalf("total games = %d, want 6", h.TotalGames)
	}
	if h.Player1Wins+h.Player2Wins+h.Draws != h.TotalGames {
		t.Fatalf("wins+draws = %d, want %d", h.Player1Wins+h.Player2Wins+h.Draws, h.TotalGames)
	}

	aliceWins, bobWins := h.Player1Wins, h.Player2Wins
	if h.Player1ID != "alice" {
		aliceWins, bobWins = bobWins, aliceWins
	}
	if aliceWins != 3 || bobWins != 1 || h.Draws != 2 {
		t.Fatalf("record = %d/%d/%d, want 3/1/2", aliceWins, bobWins, h.Draws)
	}
}

func TestChoicePreferences(t *testing.T) {
	fav, least := choicePreferences(5, 2, 1)
	if fav == nil || *fav != models.ChoiceRock {
		t.Fatalf("favorite = %v, want ROCK", fav)
	}
	if least == nil || *least != models.ChoiceScissors {
		t.Fatalf("least favorite = %v, want SCISSORS", least)
	}

	// Tie at the top leaves the favorite undetermined.
	fav, least = choicePreferences(3, 3, 1)
	if fav != nil {
		t.Fatalf("favorite = %s, want undetermined on tie", *fav)
	}
	if least == nil || *least != models.ChoiceScissors {
		t.Fatalf("least favorite = %v, want SCISSORS", least)
	}

	// A single distinct choice has a favorite but no least favorite.
	fav, least = choicePreferences(0, 4, 0)
	if fav == nil || *fav != models.ChoicePaper {
		t.Fatalf("favorite = %v, want PAPER", fav)
	}
	if least != nil {
		t.Fatalf("least favorite = %s, want undefined with one distinct choice", *least)
	}

	// No moves at all.
	fav, least = choicePreferences(0, 0, 0)
	if fav != nil || least != nil {
		t.Fatalf("no moves should yield no preferences")
	}
}

func TestChoiceCounts(t *testing.T) {
	matches := []models.Match{completed("g1", "alice", "bob", "alice")}
	moves := []models.Move{
		{MatchID: "g1", PlayerID: "alice", Choice: models.ChoiceRock},
		{MatchID: "g1", PlayerID: "bob", Choice: models.ChoiceScissors},
	}

	players, _ := BuildStats(matches, moves, nil, DefaultMinHeadToHeadGames)

	alice := statsFor(t, players, "alice")
	if alice.RockCount != 1 || alice.PaperCount != 0 || alice.ScissorsCount != 0 {
		t.Fatalf("alice counts = %d/%d/%d, want 1/0/0",
			alice.RockCount, alice.PaperCount, alice.ScissorsCount)
	}
}

func TestOpponentHighlights(t *testing.T) {
	// alice vs bob: 4 games, alice wins all. alice vs carol: 3 games, carol
	// wins all. alice vs dave: 1 game (below the min-games threshold).
	matches := []models.Match{
		completed("g1", "alice", "bob", "alice"),
		completed("g2", "alice", "bob", "alice"),
		completed("g3", "alice", "bob", "alice"),
		completed("g4", "alice", "bob", "alice"),
		completed("g5", "alice", "carol", "carol"),
		completed("g6", "alice", "carol", "carol"),
		completed("g7", "alice", "carol", "carol"),
		completed("g8", "alice", "dave", "dave"),
	}

	players, _ := BuildStats(matches, nil, nil, 3)
	alice := statsFor(t, players, "alice")

	if alice.MostFrequentOpponent == nil || alice.MostFrequentOpponent.OpponentID != "bob" {
		t.Fatalf("most frequent opponent = %+v, want bob", alice.MostFrequentOpponent)
	}
	if alice.BestOpponent == nil || alice.BestOpponent.OpponentID != "bob" {
		t.Fatalf("best opponent = %+v, want bob", alice.BestOpponent)
	}
	if alice.WorstOpponent == nil || alice.WorstOpponent.OpponentID != "carol" {
		t.Fatalf("worst opponent = %+v, want carol", alice.WorstOpponent)
	}

	// dave's single game cannot produce win-rate highlights.
	dave := statsFor(t, players, "dave")
	if dave.BestOpponent != nil || dave.WorstOpponent != nil {
		t.Fatalf("dave has %d game(s), want no win-rate opponents", dave.TotalGames)
	}
	if dave.MostFrequentOpponent == nil || dave.MostFrequentOpponent.OpponentID != "alice" {
		t.Fatalf("dave's most frequent opponent = %+v, want alice", dave.MostFrequentOpponent)
	}
}
