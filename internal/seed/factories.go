// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"incontro/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	cities = []string{
		"Roma", "Milano", "Napoli", "Torino", "Palermo", "Genova", "Bologna",
		"Firenze", "Bari", "Catania", "Venezia", "Verona", "Padova", "Trieste",
		"Brescia", "Parma", "Modena", "Cagliari", "Perugia", "Pescara",
	}

	provinces = map[string]string{
		"Roma": "RM", "Milano": "MI", "Napoli": "NA", "Torino": "TO",
		"Palermo": "PA", "Genova": "GE", "Bologna": "BO", "Firenze": "FI",
		"Bari": "BA", "Catania": "CT", "Venezia": "VE", "Verona": "VR",
		"Padova": "PD", "Trieste": "TS", "Brescia": "BS", "Parma": "PR",
		"Modena": "MO", "Cagliari": "CA", "Perugia": "PG", "Pescara": "PE",
	}

	hobbyPool = []string{
		"cinema", "cucina", "trekking", "fotografia", "viaggi", "lettura",
		"musica", "ballo", "palestra", "calcio", "tennis", "nuoto", "vela",
		"sci", "arte", "teatro", "giardinaggio", "vino", "moto", "yoga",
	}

	bodyTypes = []string{"slim", "athletic", "average", "curvy"}

	orientations = []models.Orientation{
		models.OrientationHeterosexual,
		models.OrientationHeterosexual,
		models.OrientationHeterosexual, // weighted toward the common case
		models.OrientationGay,
		models.OrientationLesbian,
		models.OrientationBisexual,
		models.OrientationPansexual,
	}
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db  *gorm.DB
	rng *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:  db,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// BuildProfile constructs a profile without persisting it.
func (f *Factory) BuildProfile(overrides ...func(*models.Profile)) *models.Profile {
	gender := models.GenderFemale
	if f.rng.Intn(2) == 0 {
		gender = models.GenderMale
	}

	city := cities[f.rng.Intn(len(cities))]
	age := 18 + f.rng.Intn(42)
	birth := time.Now().UTC().AddDate(-age, 0, -f.rng.Intn(364))

	hobbies := f.pickHobbies(2 + f.rng.Intn(4))

	profile := &models.Profile{
		Email:       strings.ToLower(gofakeit.Email()),
		Password:    hashedSeedPassword,
		Name:        gofakeit.FirstName(),
		Surname:     gofakeit.LastName(),
		BirthDate:   birth.Format("2006-01-02"),
		City:        city,
		Province:    provinces[city],
		Job:         gofakeit.JobTitle(),
		Bio:         gofakeit.Paragraph(1, 2, 8, " "),
		Hobbies:     strings.Join(hobbies, ","),
		Desires:     gofakeit.Sentence(10),
		BodyType:    bodyTypes[f.rng.Intn(len(bodyTypes))],
		Gender:      gender,
		Orientation: orientations[f.rng.Intn(len(orientations))],
		LookingFor: models.LookingFor{
			Gender: models.PreferredGenderEveryone,
			AgeMin: max(18, age-8),
			AgeMax: age + 8,
		},
		Premium:   f.rng.Intn(4) == 0,
		Validated: f.rng.Intn(5) != 0,
		Online:    f.rng.Intn(3) == 0,
		Photos:    f.photoSet(1 + f.rng.Intn(models.MaxProfilePhotos)),
	}

	for _, override := range overrides {
		override(profile)
	}
	return profile
}

// CreateProfile builds and persists a profile.
func (f *Factory) CreateProfile(overrides ...func(*models.Profile)) (*models.Profile, error) {
	profile := f.BuildProfile(overrides...)
	if err := f.db.Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// BuildPost constructs a post for the given author on the given UTC day.
// The spread across days keeps the one-post-per-day index happy.
func (f *Factory) BuildPost(author *models.Profile, daysBack int) *models.Post {
	createdAt := time.Now().UTC().AddDate(0, 0, -daysBack).
		Add(-time.Duration(f.rng.Intn(12)) * time.Hour)

	return &models.Post{
		UserID:      author.ID,
		Description: gofakeit.Paragraph(1, 2, 10, " "),
		Photos:      f.photoSet(f.rng.Intn(models.MaxPostPhotos + 1)),
		CreatedAt:   createdAt,
	}
}

func (f *Factory) pickHobbies(n int) []string {
	picked := make([]string, 0, n)
	seen := map[string]bool{}
	for len(picked) < n {
		h := hobbyPool[f.rng.Intn(len(hobbyPool))]
		if !seen[h] {
			seen[h] = true
			picked = append(picked, h)
		}
	}
	return picked
}

func (f *Factory) photoSet(n int) datatypes.JSON {
	if n == 0 {
		return nil
	}
	refs := make([]string, n)
	for i := range refs {
		refs[i] = fmt.Sprintf("https://picsum.photos/seed/%s/600/800", gofakeit.UUID())
	}
	raw, _ := json.Marshal(refs)
	return datatypes.JSON(raw)
}

// All seeded accounts share one password so developers can log in as anyone.
const SeedPassword = "Incontro1234"

var hashedSeedPassword = func() string {
	hashed, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(hashed)
}()
