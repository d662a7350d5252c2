package matching

import (
	"strings"
	"time"

	"incontro/internal/models"
)

const (
	scoreBase        = 40
	scorePerHobby    = 12
	scoreSameCity    = 15
	scoreAgeClose    = 10 // |age difference| <= 3
	scoreAgeNear     = 5  // |age difference| <= 7
	scoreOrientation = 5

	scoreMin = 20
	scoreMax = 99
)

// Score computes the affinity percentage between two profiles as of now.
// Returns 0 when either profile is absent; that special case bypasses the
// [20, 99] clamp applied to every computed score.
func Score(viewer, candidate *models.Profile) int {
	return ScoreAt(viewer, candidate, time.Now())
}

// ScoreAt is Score with an explicit evaluation instant, for deterministic use.
func ScoreAt(viewer, candidate *models.Profile, now time.Time) int {
	if viewer == nil || candidate == nil {
		return 0
	}

	score := scoreBase
	score += scorePerHobby * sharedHobbyCount(viewer.Hobbies, candidate.Hobbies)

	if viewer.City != "" && strings.EqualFold(viewer.City, candidate.City) {
		score += scoreSameCity
	}

	diff := AgeAt(viewer.BirthDate, now) - AgeAt(candidate.BirthDate, now)
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff <= 3:
		score += scoreAgeClose
	case diff <= 7:
		score += scoreAgeNear
	}

	if viewer.Orientation != "" && strings.EqualFold(string(viewer.Orientation), string(candidate.Orientation)) {
		score += scoreOrientation
	}

	if score < scoreMin {
		return scoreMin
	}
	if score > scoreMax {
		return scoreMax
	}
	return score
}

// sharedHobbyCount counts distinct hobby tokens present in both
// comma-separated lists, compared case-insensitively.
func sharedHobbyCount(a, b string) int {
	theirs := make(map[string]struct{})
	for _, t := range models.ParseTags(b) {
		theirs[models.NormalizeTag(t)] = struct{}{}
	}

	seen := make(map[string]struct{})
	shared := 0
	for _, t := range models.ParseTags(a) {
		key := models.NormalizeTag(t)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if _, ok := theirs[key]; ok {
			shared++
		}
	}
	return shared
}
