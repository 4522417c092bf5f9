package model

import "time"

// User is an account created on first OAuth login. (provider, provider_id)
// identifies it; email and profile fields are refreshed on every login.
type User struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Provider   string    `gorm:"not null;size:20;uniqueIndex:idx_users_provider,priority:1" json:"provider"`
	ProviderID string    `gorm:"not null;size:255;uniqueIndex:idx_users_provider,priority:2" json:"providerId"`
	Email      string    `gorm:"not null;size:255;index" json:"email"`
	Name       string    `gorm:"size:255" json:"name"`
	AvatarURL  string    `json:"avatarUrl"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}
