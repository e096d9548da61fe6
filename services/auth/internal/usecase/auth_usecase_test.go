package usecase

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"hookr/pkg/database/dbtest"
	"hookr/pkg/jwt"
	"hookr/pkg/logger"
	"hookr/pkg/models"
	"hookr/services/auth/internal/entity"
	"hookr/services/auth/internal/repo/persistent"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeStorage struct {
	keys []string
}

func (f *fakeStorage) UploadFile(_ context.Context, key string, body io.Reader, _ string) (string, error) {
	_, _ = io.Copy(io.Discard, body)
	f.keys = append(f.keys, key)
	return "https://cdn.test/" + key, nil
}

func (f *fakeStorage) DeleteFile(context.Context, string) error { return nil }

func newTestUseCase(t *testing.T) (*authUseCase, *fakeStorage, *gorm.DB) {
	db := dbtest.New(t)
	storage := &fakeStorage{}
	uc := NewAuthUseCase(
		persistent.NewUserRepository(db),
		jwt.NewService("test-secret"),
		storage,
		logger.NewWithWriter(io.Discard, "error"),
	).(*authUseCase)
	return uc, storage, db
}

func TestRegisterAndLogin(t *testing.T) {
	uc, _, _ := newTestUseCase(t)
	ctx := context.Background()

	user, token, err := uc.Register(ctx, " Alice@Example.com ", "alice", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, entity.RoleViewer, user.Role)
	assert.Empty(t, user.Password)

	_, _, err = uc.Register(ctx, "alice@example.com", "alice2", "secret123")
	assert.ErrorIs(t, err, entity.ErrEmailTaken)

	_, _, err = uc.Register(ctx, "other@example.com", "alice", "secret123")
	assert.ErrorIs(t, err, entity.ErrUsernameTaken)

	logged, token, err := uc.Login(ctx, "ALICE@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)

	claims, err := uc.jwtService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "viewer", claims.Role)

	_, _, err = uc.Login(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, entity.ErrInvalidCredentials)

	_, _, err = uc.Login(ctx, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, entity.ErrInvalidCredentials)
}

// racingRepo inserts a competing account right before Create, as a concurrent registration would.
type racingRepo struct {
	persistent.UserRepository
	rival *entity.User
}

func (r *racingRepo) Create(ctx context.Context, user *entity.User) error {
	if err := r.UserRepository.Create(ctx, r.rival); err != nil {
		return err
	}
	return r.UserRepository.Create(ctx, user)
}

func TestRegister_LostRaceReportsConflictingField(t *testing.T) {
	cases := map[string]struct {
		rival *entity.User
		want  error
	}{
		"email":    {rival: &entity.User{Email: "gus@example.com", Username: "other", Password: "x", Role: entity.RoleViewer}, want: entity.ErrEmailTaken},
		"username": {rival: &entity.User{Email: "other@example.com", Username: "gus", Password: "x", Role: entity.RoleViewer}, want: entity.ErrUsernameTaken},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			uc, _, db := newTestUseCase(t)
			uc.userRepo = &racingRepo{UserRepository: persistent.NewUserRepository(db), rival: tc.rival}

			_, _, err := uc.Register(context.Background(), "gus@example.com", "gus", "secret123")
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestLogin_Deactivated(t *testing.T) {
	uc, _, db := newTestUseCase(t)
	ctx := context.Background()

	user, _, err := uc.Register(ctx, "bob@example.com", "bob", "secret123")
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).Update("is_active", false).Error)

	_, _, err = uc.Login(ctx, "bob@example.com", "secret123")
	assert.ErrorIs(t, err, entity.ErrAccountDeactivated)
}

func TestGetUser_HidesEmail(t *testing.T) {
	uc, _, _ := newTestUseCase(t)
	ctx := context.Background()

	user, _, err := uc.Register(ctx, "carol@example.com", "carol", "secret123")
	require.NoError(t, err)

	public, err := uc.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, public.Email)
	assert.Equal(t, "carol", public.Username)

	me, err := uc.GetMe(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "carol@example.com", me.Email)

	_, err = uc.GetUser(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, entity.ErrUserNotFound)
}

func TestUpdateProfile(t *testing.T) {
	uc, _, _ := newTestUseCase(t)
	ctx := context.Background()

	dave, _, err := uc.Register(ctx, "dave@example.com", "dave", "secret123")
	require.NoError(t, err)
	_, _, err = uc.Register(ctx, "erin@example.com", "erin", "secret123")
	require.NoError(t, err)

	bio := "  likes hiking "
	updated, err := uc.UpdateProfile(ctx, dave.ID, entity.ProfileUpdate{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "likes hiking", updated.Bio)

	taken := "erin"
	_, err = uc.UpdateProfile(ctx, dave.ID, entity.ProfileUpdate{Username: &taken})
	assert.ErrorIs(t, err, entity.ErrUsernameTaken)

	me, err := uc.GetMe(ctx, dave.ID)
	require.NoError(t, err)
	assert.Equal(t, "dave", me.Username)
	assert.Equal(t, "likes hiking", me.Bio)
}

func TestUploadAvatar(t *testing.T) {
	uc, storage, _ := newTestUseCase(t)
	ctx := context.Background()

	user, _, err := uc.Register(ctx, "fay@example.com", "fay", "secret123")
	require.NoError(t, err)

	_, err = uc.UploadAvatar(ctx, user.ID, "doc.pdf", "application/pdf", strings.NewReader("x"))
	assert.ErrorIs(t, err, entity.ErrInvalidImage)

	_, err = uc.UploadAvatar(ctx, user.ID, "a.gif", "image/gif", strings.NewReader("gif"))
	assert.ErrorIs(t, err, entity.ErrInvalidImage)

	updated, err := uc.UploadAvatar(ctx, user.ID, "me.PNG", "image/png", bytes.NewReader([]byte("png")))
	require.NoError(t, err)
	require.Len(t, storage.keys, 1)
	assert.True(t, strings.HasPrefix(storage.keys[0], "avatars/"+user.ID+"/"))
	assert.True(t, strings.HasSuffix(storage.keys[0], ".png"))
	assert.Equal(t, "https://cdn.test/"+storage.keys[0], updated.AvatarURL)
}

func TestApplyForCreator(t *testing.T) {
	uc, _, db := newTestUseCase(t)
	ctx := context.Background()
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return fixed }

	user, _, err := uc.Register(ctx, "gina@example.com", "gina", "secret123")
	require.NoError(t, err)

	app, err := uc.GetApplication(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.CreatorNotApplied, app.Status)

	app, err = uc.ApplyForCreator(ctx, user.ID, " I post travel photos ")
	require.NoError(t, err)
	assert.Equal(t, entity.CreatorPending, app.Status)
	assert.Equal(t, "I post travel photos", app.Note)
	require.NotNil(t, app.AppliedAt)
	assert.True(t, fixed.Equal(*app.AppliedAt))

	_, err = uc.ApplyForCreator(ctx, user.ID, "again")
	assert.ErrorIs(t, err, entity.ErrApplicationPending)

	// A rejected applicant may re-apply; an approved one may not.
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).Update("creator_status", models.CreatorRejected).Error)
	_, err = uc.ApplyForCreator(ctx, user.ID, "second try")
	assert.NoError(t, err)

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).Update("creator_status", models.CreatorApproved).Error)
	_, err = uc.ApplyForCreator(ctx, user.ID, "third")
	assert.ErrorIs(t, err, entity.ErrAlreadyCreator)
}
