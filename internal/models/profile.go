// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Gender is a profile's declared gender.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Orientation is a profile's declared orientation.
type Orientation string

const (
	OrientationHeterosexual Orientation = "heterosexual"
	OrientationGay          Orientation = "gay"
	OrientationLesbian      Orientation = "lesbian"
	OrientationBisexual     Orientation = "bisexual"
	OrientationPansexual    Orientation = "pansexual"
)

// PreferredGenderEveryone means the looking-for preference does not narrow by gender.
const PreferredGenderEveryone = "everyone"

// MaxProfilePhotos is the maximum number of photo references per profile.
const MaxProfilePhotos = 5

// LookingFor is the structured partner preference embedded in a profile.
// AgeMin must not exceed AgeMax; everything else is free text.
type LookingFor struct {
	Gender   string `gorm:"size:16" json:"gender"`
	AgeMin   int    `json:"age_min"`
	AgeMax   int    `json:"age_max"`
	Job      string `json:"job"`
	Hobbies  string `json:"hobbies"`
	City     string `json:"city"`
	Height   string `json:"height"`
	BodyType string `json:"body_type"`
	Other    string `json:"other"`
}

// Profile represents a registered person in the Incontro application.
type Profile struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Email    string `gorm:"unique;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`

	Name      string `gorm:"not null" json:"name"`
	Surname   string `json:"surname"`
	BirthDate string `gorm:"size:10" json:"birth_date"` // YYYY-MM-DD
	City      string `json:"city"`
	Province  string `json:"province"`
	Job       string `json:"job"`
	Bio       string `gorm:"type:text" json:"bio"`
	Hobbies   string `json:"hobbies"` // comma-separated tokens
	Desires   string `gorm:"type:text" json:"desires"`
	BodyType  string `json:"body_type"`

	Gender      Gender      `gorm:"type:varchar(16);not null" json:"gender"`
	Orientation Orientation `gorm:"type:varchar(32);not null" json:"orientation"`
	LookingFor  LookingFor  `gorm:"embedded;embeddedPrefix:looking_for_" json:"looking_for"`

	Premium   bool `json:"premium"`
	Online    bool `json:"online"`
	Validated bool `json:"validated"`
	Blocked   bool `json:"blocked"`
	IsAdmin   bool `json:"is_admin"`

	// Photos holds up to MaxProfilePhotos opaque photo references.
	Photos           datatypes.JSON    `json:"photos"`
	IdentityDocument string            `json:"identity_document,omitempty"`
	GettingToKnow    datatypes.JSONMap `json:"getting_to_know,omitempty"`

	// Age is derived from BirthDate at read time; never persisted.
	Age int `gorm:"-" json:"age"`
	// MatchScore is the compatibility with the requesting viewer (computed)
	MatchScore int `gorm:"-" json:"match_score,omitempty"`
	// LikesCount and HeartsCount are not persisted; computed at query time
	LikesCount  int `gorm:"->;-:migration" json:"likes_count"`
	HeartsCount int `gorm:"->;-:migration" json:"hearts_count"`
	// Liked/Hearted indicate the requesting viewer's current interaction state (computed)
	Liked   bool `gorm:"->;-:migration" json:"liked"`
	Hearted bool `gorm:"->;-:migration" json:"hearted"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for GORM
func (Profile) TableName() string {
	return "profiles"
}

// DisplayName returns the public-facing name for the profile.
func (p *Profile) DisplayName() string {
	if p.Surname == "" {
		return p.Name
	}
	return p.Name + " " + p.Surname
}

// FirstPhoto returns the first photo reference, or "" when the profile has none.
func (p *Profile) FirstPhoto() string {
	photos := ParseTags(string(p.Photos))
	if len(photos) == 0 {
		return ""
	}
	return photos[0]
}
