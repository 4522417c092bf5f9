package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/ordforrad/api/internal/model"
)

type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Get(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// Upsert finds the user by (provider, providerID) and refreshes the profile
// fields, creating the user on first login.
func (s *UserStore) Upsert(ctx context.Context, provider, providerID, email, name, avatarURL string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("provider = ? AND provider_id = ?", provider, providerID).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = model.User{
			Provider:   provider,
			ProviderID: providerID,
			Email:      email,
			Name:       name,
			AvatarURL:  avatarURL,
		}
		if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
			return nil, err
		}
		return &user, nil
	case err != nil:
		return nil, err
	}

	err = s.db.WithContext(ctx).Model(&user).Updates(map[string]interface{}{
		"email":      email,
		"name":       name,
		"avatar_url": avatarURL,
	}).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) SaveRefreshToken(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	return s.db.WithContext(ctx).Create(&model.RefreshToken{
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
	}).Error
}

// ValidRefreshToken returns the stored token if it is neither revoked nor
// expired.
func (s *UserStore) ValidRefreshToken(ctx context.Context, token string, now time.Time) (*model.RefreshToken, error) {
	var rt model.RefreshToken
	if err := s.db.WithContext(ctx).Where("token = ?", token).First(&rt).Error; err != nil {
		return nil, notFound(err)
	}
	if !rt.Active(now) {
		return nil, ErrNotFound
	}
	return &rt, nil
}

func (s *UserStore) RevokeRefreshToken(ctx context.Context, token string) error {
	return s.db.WithContext(ctx).Model(&model.RefreshToken{}).Where("token = ?", token).Update("revoked", true).Error
}

// Delete removes the user together with their progress, quizzes, tokens
// and submissions.
func (s *UserStore) Delete(ctx context.Context, userID int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range []interface{}{&model.Progress{}, &model.QuizSession{}, &model.RefreshToken{}, &model.Submission{}} {
			if err := tx.Where("user_id = ?", userID).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&model.User{}, userID).Error
	})
}
