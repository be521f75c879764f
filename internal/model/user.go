package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	UserName string `gorm:"column:user_name;not null"`
	Email    string `gorm:"column:email;unique;not null"`
	Password string `gorm:"column:password;not null"`
	BirthDay string `gorm:"column:birth_day"`
	Gender   string `gorm:"column:gender"`
	Mobile   string `gorm:"column:mobile"`
	Address  string `gorm:"column:address"`
	IsAdmin  bool   `gorm:"column:is_admin;default:false;not null"`

	// Single active refresh token, overwritten on login and cleared on logout
	RefreshToken string `gorm:"column:refresh_token;index:idx_users_refresh_token,where:refresh_token <> ''"`

	// Reset-token window: sha256 hex of the raw token plus its expiry.
	// Both empty outside an open window.
	PasswordResetToken   string     `gorm:"column:password_reset_token;index:idx_users_reset_token,where:password_reset_token <> ''"`
	PasswordResetExpires *time.Time `gorm:"column:password_reset_expires"`
	PasswordChangedAt    *time.Time `gorm:"column:password_changed_at"`

	FavoriteMovies datatypes.JSONSlice[uint] `gorm:"column:favorite_movies"`
}

// HasFavorite reports whether movieID is in the user's favorite set.
func (u *User) HasFavorite(movieID uint) bool {
	for _, id := range u.FavoriteMovies {
		if id == movieID {
			return true
		}
	}
	return false
}
