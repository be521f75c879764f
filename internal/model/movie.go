package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Movie struct {
	gorm.Model
	Name         string                      `gorm:"column:name;not null"`
	PremiereDate time.Time                   `gorm:"column:premiere_date;not null"`
	Category     string                      `gorm:"column:category;not null"`
	Director     string                      `gorm:"column:director;not null"`
	Actors       datatypes.JSONSlice[string] `gorm:"column:actors"`
	Description  string                      `gorm:"column:description"`
	Image        string                      `gorm:"column:image"`

	// Set of user ids who like this movie. Kept in sync with
	// User.FavoriteMovies by the like-toggle; the two writes are not
	// transactional, so a crash between them can leave the sides apart.
	Likes datatypes.JSONSlice[uint] `gorm:"column:likes"`
}

// LikedBy reports whether userID is in the movie's like set.
func (m *Movie) LikedBy(userID uint) bool {
	for _, id := range m.Likes {
		if id == userID {
			return true
		}
	}
	return false
}
