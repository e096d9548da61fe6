package persistent

import (
	"context"
	"errors"
	"time"

	"hookr/pkg/models"
	"hookr/services/auth/internal/entity"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	GetApplication(ctx context.Context, userID string) (*entity.CreatorApplication, error)
	SubmitApplication(ctx context.Context, userID, note string, at time.Time) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	userModel := ToUserModel(user)
	if err := r.db.WithContext(ctx).Create(userModel).Error; err != nil {
		return err
	}
	*user = *ToUserEntity(userModel)
	return nil
}

func (r *userRepository) first(ctx context.Context, query string, arg interface{}) (*entity.User, error) {
	var userModel models.User
	err := r.db.WithContext(ctx).Where(query, arg).First(&userModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, entity.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return ToUserEntity(&userModel), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.first(ctx, "username = ?", username)
}

// Update writes the profile columns only; role and creator state belong to moderation.
func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"username":   user.Username,
		"bio":        user.Bio,
		"gender":     user.Gender,
		"avatar_url": user.AvatarURL,
		"updated_at": time.Now(),
	}).Error
}

func (r *userRepository) GetApplication(ctx context.Context, userID string) (*entity.CreatorApplication, error) {
	var userModel models.User
	err := r.db.WithContext(ctx).Where("id = ?", userID).First(&userModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, entity.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return ToApplicationEntity(&userModel), nil
}

func (r *userRepository) SubmitApplication(ctx context.Context, userID, note string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"creator_status": models.CreatorPending,
		"creator_note":   note,
		"applied_at":     at,
		"reviewed_at":    nil,
		"review_comment": "",
	}).Error
}
