package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"hookr/pkg/jwt"
	"hookr/pkg/logger"
	"hookr/pkg/s3"
	"hookr/services/auth/internal/entity"
	"hookr/services/auth/internal/repo/persistent"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthUseCase interface {
	Register(ctx context.Context, email, username, password string) (*entity.User, string, error)
	Login(ctx context.Context, email, password string) (*entity.User, string, error)
	GetMe(ctx context.Context, userID string) (*entity.User, error)
	GetUser(ctx context.Context, userID string) (*entity.User, error)
	UpdateProfile(ctx context.Context, userID string, update entity.ProfileUpdate) (*entity.User, error)
	UploadAvatar(ctx context.Context, userID, filename, contentType string, file io.Reader) (*entity.User, error)
	ApplyForCreator(ctx context.Context, userID, note string) (*entity.CreatorApplication, error)
	GetApplication(ctx context.Context, userID string) (*entity.CreatorApplication, error)
}

type authUseCase struct {
	userRepo   persistent.UserRepository
	jwtService *jwt.Service
	storage    s3.Storage
	logger     *logger.Logger
	now        func() time.Time
}

func NewAuthUseCase(
	userRepo persistent.UserRepository,
	jwtService *jwt.Service,
	storage s3.Storage,
	logger *logger.Logger,
) AuthUseCase {
	return &authUseCase{
		userRepo:   userRepo,
		jwtService: jwtService,
		storage:    storage,
		logger:     logger,
		now:        time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (uc *authUseCase) Register(ctx context.Context, email, username, password string) (*entity.User, string, error) {
	email = normalizeEmail(email)
	username = strings.TrimSpace(username)

	if _, err := uc.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, "", entity.ErrEmailTaken
	}
	if _, err := uc.userRepo.GetByUsername(ctx, username); err == nil {
		return nil, "", entity.ErrUsernameTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		uc.logger.Error("Failed to hash password: %v", err)
		return nil, "", fmt.Errorf("failed to process registration")
	}

	user := &entity.User{
		Email:         email,
		Username:      username,
		Password:      string(hashedPassword),
		Role:          entity.RoleViewer,
		IsActive:      true,
		CreatorStatus: entity.CreatorNotApplied,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		// Lost a race with a concurrent registration.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if _, lookupErr := uc.userRepo.GetByEmail(ctx, email); lookupErr == nil {
				return nil, "", entity.ErrEmailTaken
			}
			return nil, "", entity.ErrUsernameTaken
		}
		uc.logger.Error("Failed to create user: %v", err)
		return nil, "", fmt.Errorf("failed to create user")
	}

	token, err := uc.jwtService.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		uc.logger.Error("Failed to generate token: %v", err)
		return nil, "", fmt.Errorf("failed to generate token")
	}

	uc.logger.Info("User registered: %s", user.ID)
	user.Password = ""
	return user, token, nil
}

func (uc *authUseCase) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	user, err := uc.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, "", entity.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", entity.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, "", entity.ErrAccountDeactivated
	}

	token, err := uc.jwtService.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		uc.logger.Error("Failed to generate token: %v", err)
		return nil, "", fmt.Errorf("failed to generate token")
	}

	user.Password = ""
	return user, token, nil
}

func (uc *authUseCase) GetMe(ctx context.Context, userID string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return user, nil
}

func (uc *authUseCase) GetUser(ctx context.Context, userID string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Public(), nil
}

func (uc *authUseCase) UpdateProfile(ctx context.Context, userID string, update entity.ProfileUpdate) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Username != nil {
		username := strings.TrimSpace(*update.Username)
		if username != user.Username {
			if _, err := uc.userRepo.GetByUsername(ctx, username); err == nil {
				return nil, entity.ErrUsernameTaken
			}
			user.Username = username
		}
	}
	if update.Bio != nil {
		user.Bio = strings.TrimSpace(*update.Bio)
	}
	if update.Gender != nil {
		user.Gender = strings.TrimSpace(*update.Gender)
	}

	if err := uc.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, entity.ErrUsernameTaken
		}
		uc.logger.Error("Failed to update user %s: %v", userID, err)
		return nil, fmt.Errorf("failed to update user")
	}

	user.Password = ""
	return user, nil
}

func (uc *authUseCase) UploadAvatar(ctx context.Context, userID, filename, contentType string, file io.Reader) (*entity.User, error) {
	if !s3.IsProfileImage(contentType) {
		return nil, entity.ErrInvalidImage
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	avatarURL, err := uc.storage.UploadFile(ctx, s3.ObjectKey("avatars", userID, filename), file, contentType)
	if err != nil {
		uc.logger.Error("Failed to upload avatar: %v", err)
		return nil, fmt.Errorf("failed to upload avatar")
	}

	user.AvatarURL = avatarURL
	if err := uc.userRepo.Update(ctx, user); err != nil {
		uc.logger.Error("Failed to update user: %v", err)
		return nil, fmt.Errorf("failed to update user")
	}

	user.Password = ""
	return user, nil
}

func (uc *authUseCase) ApplyForCreator(ctx context.Context, userID, note string) (*entity.CreatorApplication, error) {
	app, err := uc.userRepo.GetApplication(ctx, userID)
	if err != nil {
		return nil, err
	}

	switch app.Status {
	case entity.CreatorPending:
		return nil, entity.ErrApplicationPending
	case entity.CreatorApproved:
		return nil, entity.ErrAlreadyCreator
	}

	if err := uc.userRepo.SubmitApplication(ctx, userID, strings.TrimSpace(note), uc.now().UTC()); err != nil {
		uc.logger.Error("Failed to submit creator application for %s: %v", userID, err)
		return nil, fmt.Errorf("failed to submit application")
	}

	uc.logger.Info("Creator application submitted by %s", userID)
	return uc.userRepo.GetApplication(ctx, userID)
}

func (uc *authUseCase) GetApplication(ctx context.Context, userID string) (*entity.CreatorApplication, error) {
	return uc.userRepo.GetApplication(ctx, userID)
}
