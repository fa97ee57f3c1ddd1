package services

import (
	"testing"

	"rps-match-service/models"
)

func waiting(id, creator string) models.Match {
	return models.Match{ID: id, CreatorID: creator, Status: models.MatchStatusWaiting}
}

func inProgress(id, creator, joiner string) models.Match {
	return models.Match{ID: id, CreatorID: creator, JoinerID: &joiner, Status: models.MatchStatusInProgress}
}

func TestCategorizeMatchesDisjoint(t *testing.T) {
	matches := []models.Match{
		waiting("w1", "alice"),
		waiting("w2", "bob"),
		inProgress("a1", "alice", "bob"),
		inProgress("a2", "carol", "dave"),
		completed("c1", "bob", "alice", "alice"),
	}

	list := CategorizeMatches("alice", matches, nil, nil)

	if len(list.Awaiting) != 1 || list.Awaiting[0].ID != "w1" {
		t.Fatalf("awaiting = %+v, want [w1]", list.Awaiting)
	}
	if len(list.Open) != 1 || list.Open[0].ID != "w2" {
		t.Fatalf("open = %+v, want [w2]: own invites must not be offered back", list.Open)
	}
	if len(list.Active) != 1 || list.Active[0].ID != "a1" {
		t.Fatalf("active = %+v, want [a1]: a2 has different participants", list.Active)
	}
	if len(list.Completed) != 1 || list.Completed[0].ID != "c1" {
		t.Fatalf("completed = %+v, want [c1]", list.Completed)
	}
}

func TestCategorizeMatchesAnnotations(t *testing.T) {
	matches := []models.Match{
		inProgress("a1", "alice", "bob"),
		inProgress("a2", "bob", "alice"),
		completed("c1", "alice", "bob", ""),
		completed("c2", "bob", "alice", "bob"),
	}
	moved := map[string]bool{"a1": true}
	seen := map[string]bool{"c2": true}

	list := CategorizeMatches("alice", matches, moved, seen)

	if !list.Active[0].HasMoved || list.Active[1].HasMoved {
		t.Fatalf("has_moved annotations wrong: %+v", list.Active)
	}
	if list.Completed[0].ResultSeen || !list.Completed[1].ResultSeen {
		t.Fatalf("result_seen annotations wrong: %+v", list.Completed)
	}
}

func TestCategorizeMatchesPreservesOrder(t *testing.T) {
	// Input arrives ordered by creation time; categories must keep it.
	matches := []models.Match{
		waiting("w1", "bob"),
		waiting("w2", "carol"),
		waiting("w3", "dave"),
	}

	list := CategorizeMatches("alice", matches, nil, nil)

	if len(list.Open) != 3 {
		t.Fatalf("open = %d, want 3", len(list.Open))
	}
	for i, id := range []string{"w1", "w2", "w3"} {
		if list.Open[i].ID != id {
			t.Fatalf("open[%d] = %s, want %s", i, list.Open[i].ID, id)
		}
	}
}

func TestCategorizeMatchesEmpty(t *testing.T) {
	list := CategorizeMatches("alice", nil, nil, nil)
	if list.Open == nil || list.Awaiting == nil || list.Active == nil || list.Completed == nil {
		t.Fatalf("categories must be empty slices, not nil, for JSON rendering")
	}
}
