package main

import (
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"hookr/pkg/config"
	"hookr/pkg/database"
	"hookr/pkg/logger"
	"hookr/pkg/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const seedPassword = "password123"

var (
	seedTags = []string{"blonde", "brunette", "fitness", "cosplay", "travel", "gamer", "tattoo", "outdoor", "lingerie", "art"}
	weekDays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}
)

type seeder struct {
	db  *gorm.DB
	log *logger.Logger
	now time.Time
}

func main() {
	var (
		viewers  = flag.Int("viewers", 10, "number of viewer accounts")
		creators = flag.Int("creators", 6, "number of approved creators with a model card")
		posts    = flag.Int("posts", 5, "posts per creator")
		seed     = flag.Int64("seed", 0, "random seed (0 picks one from the clock)")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.New().With("cmd", "seed")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}
	defer database.Close(db)

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	gofakeit.Seed(*seed)

	s := &seeder{db: db, log: log, now: time.Now()}
	if err := s.run(*viewers, *creators, *posts); err != nil {
		log.Error("Failed to seed database: %v", err)
		panic(err)
	}

	log.Info("Database seeded successfully (password for every account: %s)", seedPassword)
}

func (s *seeder) run(viewers, creators, postsPerCreator int) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if _, err := s.user("admin", models.RoleAdmin, string(hash)); err != nil {
		return err
	}

	viewerIDs := make([]string, 0, viewers)
	for i := 0; i < viewers; i++ {
		u, err := s.user(fakeUsername(), models.RoleViewer, string(hash))
		if err != nil {
			return err
		}
		viewerIDs = append(viewerIDs, u.ID)
	}

	for i := 0; i < creators; i++ {
		u, err := s.user(fakeUsername(), models.RoleCreator, string(hash))
		if err != nil {
			return err
		}
		model, err := s.model(u)
		if err != nil {
			return err
		}
		for j := 0; j < postsPerCreator; j++ {
			if err := s.post(model, j); err != nil {
				return err
			}
		}
		for _, viewerID := range viewerIDs {
			if gofakeit.Bool() {
				if err := s.subscribe(viewerID, model); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

// user creates an account with a funded wallet, or returns the existing one with that username.
func (s *seeder) user(username string, role models.UserRole, hash string) (*models.User, error) {
	var existing models.User
	err := s.db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		s.log.Info("User %s already exists, skipping", username)
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user := &models.User{
		Email:     strings.ToLower(username) + "@hookr.test",
		Username:  username,
		Password:  hash,
		Role:      role,
		AvatarURL: fmt.Sprintf("https://i.pravatar.cc/300?u=%s", username),
		Bio:       gofakeit.Sentence(8),
		Gender:    gofakeit.RandomString([]string{"female", "male", "other"}),
		IsActive:  true,
	}
	if role == models.RoleCreator {
		applied := s.now.Add(-48 * time.Hour)
		reviewed := s.now.Add(-24 * time.Hour)
		user.CreatorStatus = models.CreatorApproved
		user.CreatorNote = gofakeit.Sentence(6)
		user.AppliedAt = &applied
		user.ReviewedAt = &reviewed
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		wallet := &models.Wallet{UserID: user.ID, BalanceCents: int64(gofakeit.Number(50, 500)) * 100}
		if err := tx.Create(wallet).Error; err != nil {
			return err
		}
		return tx.Create(&models.Transaction{
			UserID:       user.ID,
			Type:         models.TransactionTopUp,
			AmountCents:  wallet.BalanceCents,
			BalanceAfter: wallet.BalanceCents,
			Description:  "Seed top-up",
		}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create user %s: %w", username, err)
	}

	s.log.Info("Created %s: %s (%s)", role, user.Username, user.Email)
	return user, nil
}

func (s *seeder) model(u *models.User) (*models.CreatorProfile, error) {
	var existing models.CreatorProfile
	if err := s.db.Where("user_id = ?", u.ID).First(&existing).Error; err == nil {
		return &existing, nil
	}

	lat := gofakeit.Latitude()
	lon := gofakeit.Longitude()
	model := &models.CreatorProfile{
		UserID:          u.ID,
		Name:            gofakeit.FirstName(),
		Age:             gofakeit.Number(18, 45),
		Bio:             gofakeit.Paragraph(1, 3, 12, " "),
		PriceCents:      int64(gofakeit.Number(5, 60)) * 100,
		Featured:        gofakeit.Number(1, 4) == 1,
		Verified:        gofakeit.Bool(),
		ProfileImageURL: fmt.Sprintf("https://picsum.photos/seed/%s/600/800", u.Username),
		Latitude:        &lat,
		Longitude:       &lon,
	}

	for _, tag := range pickTags(3) {
		model.Tags = append(model.Tags, models.ModelTag{Tag: tag})
	}
	for _, day := range weekDays {
		model.Availability = append(model.Availability, models.ModelAvailability{Day: day, Available: gofakeit.Bool()})
	}

	if err := s.db.Create(model).Error; err != nil {
		return nil, fmt.Errorf("create model for %s: %w", u.Username, err)
	}
	s.log.Info("Created model %s for %s", model.Name, u.Username)
	return model, nil
}

func (s *seeder) post(model *models.CreatorProfile, index int) error {
	mediaType := models.MediaTypeImage
	mediaURL := fmt.Sprintf("https://picsum.photos/seed/%s-%d/1080/1350", model.ID, index)
	if index%4 == 3 {
		mediaType = models.MediaTypeVideo
		mediaURL = "https://samplelib.com/lib/preview/mp4/sample-5s.mp4"
	}

	post := &models.Post{
		ModelID:    model.ID,
		CreatorID:  model.UserID,
		Content:    gofakeit.Sentence(10),
		MediaURL:   mediaURL,
		MediaType:  mediaType,
		IsPremium:  index%2 == 1,
		LikesCount: gofakeit.Number(0, 300),
		Views:      gofakeit.Number(100, 5000),
		CreatedAt:  s.now.Add(-time.Duration(gofakeit.Number(1, 24*20)) * time.Hour),
	}
	for _, tag := range pickTags(2) {
		post.Tags = append(post.Tags, models.PostTag{Tag: tag})
	}

	if err := s.db.Create(post).Error; err != nil {
		return fmt.Errorf("create post for model %s: %w", model.Name, err)
	}
	return nil
}

func (s *seeder) subscribe(viewerID string, model *models.CreatorProfile) error {
	var count int64
	s.db.Model(&models.Subscription{}).Where("viewer_id = ? AND model_id = ?", viewerID, model.ID).Count(&count)
	if count > 0 {
		return nil
	}

	return s.db.Create(&models.Subscription{
		ViewerID:   viewerID,
		ModelID:    model.ID,
		CreatorID:  model.UserID,
		Tier:       models.TierMonthly,
		PriceCents: model.PriceCents,
		Status:     models.SubscriptionActive,
		StartedAt:  s.now,
		ExpiresAt:  s.now.AddDate(0, 1, 0),
	}).Error
}

func fakeUsername() string {
	return strings.ToLower(gofakeit.Username()) + fmt.Sprintf("%03d", gofakeit.Number(0, 999))
}

func pickTags(n int) []string {
	picked := make([]string, 0, n)
	seen := make(map[string]bool, n)
	for len(picked) < n {
		tag := gofakeit.RandomString(seedTags)
		if seen[tag] {
			continue
		}
		seen[tag] = true
		picked = append(picked, tag)
	}
	return picked
}
