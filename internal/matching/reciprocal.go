package matching

import (
	"strings"

	"incontro/internal/models"
)

// wants reports whether subject's declared orientation and preferred gender
// admit other as a partner.
//
// The rule set is the one the product has always shipped: heterosexual
// requires a gender-opposite pairing, gay requires both parties male,
// lesbian requires both parties female, and any other orientation
// (bisexual, pansexual, ...) defaults to interested-in-everyone. A specific
// preferred gender in the looking-for record narrows any of the above.
// These branches are observable behavior; keep them exactly as written.
func wants(subject, other *models.Profile) bool {
	switch {
	case equalFold(string(subject.Orientation), string(models.OrientationHeterosexual)):
		if !oppositeGenders(subject.Gender, other.Gender) {
			return false
		}
	case equalFold(string(subject.Orientation), string(models.OrientationGay)):
		if !isGender(subject.Gender, models.GenderMale) || !isGender(other.Gender, models.GenderMale) {
			return false
		}
	case equalFold(string(subject.Orientation), string(models.OrientationLesbian)):
		if !isGender(subject.Gender, models.GenderFemale) || !isGender(other.Gender, models.GenderFemale) {
			return false
		}
	}

	pref := preferredGender(subject)
	if pref != "" && !equalFold(pref, string(other.Gender)) {
		return false
	}
	return true
}

// MutuallyInterested reports whether both directions of the interest check hold.
func MutuallyInterested(a, b *models.Profile) bool {
	if a == nil || b == nil {
		return false
	}
	return wants(a, b) && wants(b, a)
}

// FilterMutual returns the candidates that pass the reciprocal interest
// check against the viewer, excluding the viewer's own profile. Order is
// preserved; the decision per candidate is order-independent and pure.
// A nil viewer (unauthenticated browse) admits every candidate.
func FilterMutual(viewer *models.Profile, candidates []*models.Profile) []*models.Profile {
	if viewer == nil {
		return candidates
	}

	admitted := make([]*models.Profile, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate == nil || candidate.ID == viewer.ID {
			continue
		}
		if wants(candidate, viewer) && wants(viewer, candidate) {
			admitted = append(admitted, candidate)
		}
	}
	return admitted
}

// preferredGender extracts the looking-for gender, with "everyone" (and
// legacy JSON-encoded variants of it) meaning no constraint.
func preferredGender(p *models.Profile) string {
	tags := models.ParseTags(p.LookingFor.Gender)
	if len(tags) != 1 {
		// Empty or a multi-valued legacy list: no narrowing.
		return ""
	}
	if equalFold(tags[0], models.PreferredGenderEveryone) {
		return ""
	}
	return tags[0]
}

func oppositeGenders(a, b models.Gender) bool {
	return (isGender(a, models.GenderMale) && isGender(b, models.GenderFemale)) ||
		(isGender(a, models.GenderFemale) && isGender(b, models.GenderMale))
}

func isGender(g models.Gender, want models.Gender) bool {
	return equalFold(string(g), string(want))
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
