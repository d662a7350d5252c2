package seed

import (
	"fmt"
	"log"

	"incontro/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumProfiles int
	NumPosts    int
	ShouldClean bool
}

// Seed populates the database with demo data: profiles, posts spread over
// past days, like/heart edges, chat requests and a banner wall.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Starting database seeding with %d profiles and %d posts...", opts.NumProfiles, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	factory := NewFactory(db)

	profiles, err := createProfiles(factory, opts.NumProfiles)
	if err != nil {
		return fmt.Errorf("failed to create profiles: %w", err)
	}
	log.Printf("%d profiles created", len(profiles))

	if err := ensureAdmin(factory); err != nil {
		return fmt.Errorf("failed to create admin account: %w", err)
	}

	posts, err := createPosts(factory, profiles, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("%d posts created", len(posts))

	if err := createInteractions(factory, profiles, posts); err != nil {
		return fmt.Errorf("failed to create interactions: %w", err)
	}

	if err := createChatRequests(factory, profiles); err != nil {
		return fmt.Errorf("failed to create chat requests: %w", err)
	}

	if err := createBanners(factory, profiles); err != nil {
		return fmt.Errorf("failed to create banners: %w", err)
	}

	log.Println("Seeding complete")
	return nil
}

func clearData(db *gorm.DB) error {
	tables := []interface{}{
		&models.BannerReply{},
		&models.BannerMessage{},
		&models.PostInteraction{},
		&models.Interaction{},
		&models.ChatRequest{},
		&models.Post{},
		&models.Profile{},
	}
	for _, table := range tables {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(table).Error; err != nil {
			return err
		}
	}
	return nil
}

func createProfiles(f *Factory, n int) ([]*models.Profile, error) {
	profiles := make([]*models.Profile, 0, n)
	for i := 0; i < n; i++ {
		profile, err := f.CreateProfile()
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

// ensureAdmin creates a known admin account if none exists yet.
func ensureAdmin(f *Factory) error {
	var count int64
	if err := f.db.Model(&models.Profile{}).Where("is_admin = ?", true).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	_, err := f.CreateProfile(func(p *models.Profile) {
		p.Email = "admin@incontro.local"
		p.Name = "Admin"
		p.Surname = "Incontro"
		p.IsAdmin = true
		p.Validated = true
		p.Premium = true
	})
	return err
}

// createPosts spreads posts over past days, at most one per author per day.
func createPosts(f *Factory, profiles []*models.Profile, n int) ([]*models.Post, error) {
	posts := make([]*models.Post, 0, n)
	usedDays := map[uint]map[int]bool{}

	for len(posts) < n {
		author := profiles[f.rng.Intn(len(profiles))]
		daysBack := f.rng.Intn(60)
		if usedDays[author.ID] == nil {
			usedDays[author.ID] = map[int]bool{}
		}
		if usedDays[author.ID][daysBack] {
			continue
		}
		usedDays[author.ID][daysBack] = true

		post := f.BuildPost(author, daysBack)
		if err := f.db.Create(post).Error; err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func createInteractions(f *Factory, profiles []*models.Profile, posts []*models.Post) error {
	kinds := []models.InteractionKind{models.InteractionLike, models.InteractionHeart}

	for _, actor := range profiles {
		edges := f.rng.Intn(6)
		for i := 0; i < edges; i++ {
			target := profiles[f.rng.Intn(len(profiles))]
			if target.ID == actor.ID {
				continue
			}
			interaction := &models.Interaction{
				ActorID:  actor.ID,
				TargetID: target.ID,
				Kind:     kinds[f.rng.Intn(len(kinds))],
			}
			// Duplicate edges lose to the unique index; skip them quietly.
			f.db.Create(interaction)
		}
	}

	for _, post := range posts {
		likes := f.rng.Intn(4)
		for i := 0; i < likes; i++ {
			actor := profiles[f.rng.Intn(len(profiles))]
			f.db.Create(&models.PostInteraction{
				ActorID: actor.ID,
				PostID:  post.ID,
				Kind:    kinds[f.rng.Intn(len(kinds))],
			})
		}
	}
	return nil
}

func createChatRequests(f *Factory, profiles []*models.Profile) error {
	statuses := []models.ChatRequestStatus{
		models.ChatRequestStatusPending,
		models.ChatRequestStatusPending,
		models.ChatRequestStatusApproved,
		models.ChatRequestStatusRejected,
	}

	for _, sender := range profiles {
		if !sender.Premium {
			continue
		}
		requests := f.rng.Intn(3)
		for i := 0; i < requests; i++ {
			target := profiles[f.rng.Intn(len(profiles))]
			if target.ID == sender.ID {
				continue
			}
			// One request per ordered pair; duplicates lose to the index.
			f.db.Create(&models.ChatRequest{
				FromID:  sender.ID,
				ToID:    target.ID,
				Message: "Ciao, mi piacerebbe conoscerti!",
				Status:  statuses[f.rng.Intn(len(statuses))],
			})
		}
	}
	return nil
}

func createBanners(f *Factory, profiles []*models.Profile) error {
	n := len(profiles) / 10
	if n == 0 {
		n = 1
	}
	for i := 0; i < n && i < len(profiles); i++ {
		author := profiles[i]
		if err := f.db.Create(&models.BannerMessage{
			AuthorID: author.ID,
			Body:     "Stasera aperitivo in centro, chi si unisce?",
		}).Error; err != nil {
			return err
		}
	}
	return nil
}
