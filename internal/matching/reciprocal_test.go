package matching

import (
	"testing"

	"incontro/internal/models"

	"github.com/stretchr/testify/assert"
)

func profile(id uint, gender models.Gender, orientation models.Orientation) *models.Profile {
	return &models.Profile{ID: id, Gender: gender, Orientation: orientation}
}

func TestMutuallyInterested(t *testing.T) {
	tests := []struct {
		name string
		a    *models.Profile
		b    *models.Profile
		want bool
	}{
		{
			name: "Hetero male and hetero female",
			a:    profile(1, models.GenderMale, models.OrientationHeterosexual),
			b:    profile(2, models.GenderFemale, models.OrientationHeterosexual),
			want: true,
		},
		{
			name: "Hetero male and hetero male",
			a:    profile(1, models.GenderMale, models.OrientationHeterosexual),
			b:    profile(2, models.GenderMale, models.OrientationHeterosexual),
			want: false,
		},
		{
			name: "Gay male and gay male",
			a:    profile(1, models.GenderMale, models.OrientationGay),
			b:    profile(2, models.GenderMale, models.OrientationGay),
			want: true,
		},
		{
			name: "Gay male and gay female",
			a:    profile(1, models.GenderMale, models.OrientationGay),
			b:    profile(2, models.GenderFemale, models.OrientationGay),
			want: false,
		},
		{
			name: "Lesbian female and lesbian female",
			a:    profile(1, models.GenderFemale, models.OrientationLesbian),
			b:    profile(2, models.GenderFemale, models.OrientationLesbian),
			want: true,
		},
		{
			name: "Bisexual defaults to wanting everyone",
			a:    profile(1, models.GenderMale, models.OrientationBisexual),
			b:    profile(2, models.GenderMale, models.OrientationBisexual),
			want: true,
		},
		{
			name: "Bisexual and hetero female of same gender is one-sided",
			a:    profile(1, models.GenderFemale, models.OrientationBisexual),
			b:    profile(2, models.GenderFemale, models.OrientationHeterosexual),
			want: false,
		},
		{
			name: "Orientation comparison is case-insensitive",
			a:    &models.Profile{ID: 1, Gender: "Male", Orientation: "Heterosexual"},
			b:    &models.Profile{ID: 2, Gender: "FEMALE", Orientation: "heterosexual"},
			want: true,
		},
		{
			name: "Nil party never matches",
			a:    nil,
			b:    profile(2, models.GenderFemale, models.OrientationHeterosexual),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MutuallyInterested(tt.a, tt.b))
		})
	}
}

func TestPreferredGenderOverride(t *testing.T) {
	seeksMen := profile(1, models.GenderFemale, models.OrientationBisexual)
	seeksMen.LookingFor.Gender = string(models.GenderMale)

	woman := profile(2, models.GenderFemale, models.OrientationBisexual)
	man := profile(3, models.GenderMale, models.OrientationBisexual)

	assert.False(t, MutuallyInterested(seeksMen, woman))
	assert.True(t, MutuallyInterested(seeksMen, man))

	t.Run("everyone does not narrow", func(t *testing.T) {
		open := profile(4, models.GenderFemale, models.OrientationBisexual)
		open.LookingFor.Gender = models.PreferredGenderEveryone
		assert.True(t, MutuallyInterested(open, woman))
	})

	t.Run("legacy JSON-wrapped value still narrows", func(t *testing.T) {
		legacy := profile(5, models.GenderFemale, models.OrientationBisexual)
		legacy.LookingFor.Gender = `["male"]`
		assert.False(t, MutuallyInterested(legacy, woman))
		assert.True(t, MutuallyInterested(legacy, man))
	})
}

func TestFilterMutual(t *testing.T) {
	viewer := profile(1, models.GenderMale, models.OrientationHeterosexual)

	candidates := []*models.Profile{
		profile(1, models.GenderFemale, models.OrientationHeterosexual), // viewer's own id
		profile(2, models.GenderFemale, models.OrientationHeterosexual), // mutual
		profile(3, models.GenderMale, models.OrientationHeterosexual),   // excluded both ways
		profile(4, models.GenderFemale, models.OrientationLesbian),      // candidate does not want viewer
		profile(5, models.GenderFemale, models.OrientationBisexual),     // mutual via default
		nil,
	}

	got := FilterMutual(viewer, candidates)
	ids := make([]uint, 0, len(got))
	for _, p := range got {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []uint{2, 5}, ids)
}

func TestFilterMutualUnauthenticatedBypass(t *testing.T) {
	candidates := []*models.Profile{
		profile(2, models.GenderFemale, models.OrientationHeterosexual),
		profile(3, models.GenderMale, models.OrientationHeterosexual),
	}

	// No viewer: the reciprocal gate does not apply at all.
	assert.Equal(t, candidates, FilterMutual(nil, candidates))
}
