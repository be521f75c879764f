package database

import (
	"time"

	"github.com/cineview/movie-api/internal/model"
	"github.com/jaswdr/faker"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DefaultAdmin defines the default admin user credentials
type DefaultAdmin struct {
	UserName string
	Email    string
	Password string
}

// GetDefaultAdmin returns the default admin user
func GetDefaultAdmin() DefaultAdmin {
	return DefaultAdmin{
		UserName: "admin",
		Email:    "admin@cineview.local",
		Password: "Admin@123", // Change this in production!
	}
}

// Seed creates initial data for the database. Sample movies are only
// generated outside production.
func Seed(db *gorm.DB, environment string) error {
	if err := SeedAdmin(db); err != nil {
		return err
	}

	if environment != "production" {
		return SeedSampleMovies(db, 20)
	}

	return nil
}

// SeedAdmin creates the default admin user if not exists
func SeedAdmin(db *gorm.DB) error {
	admin := GetDefaultAdmin()

	var existingUser model.User
	result := db.Where("email = ?", admin.Email).First(&existingUser)

	if result.Error == nil {
		// User already exists, skip seeding
		return nil
	}

	if result.Error != gorm.ErrRecordNotFound {
		return result.Error
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := model.User{
		UserName: admin.UserName,
		Email:    admin.Email,
		Password: string(hashedPassword),
		IsAdmin:  true,
	}

	return db.Create(&user).Error
}

// SeedSampleMovies fills an empty catalog with generated movies so the API
// has browsable data in development.
func SeedSampleMovies(db *gorm.DB, count int) error {
	var existing int64
	if err := db.Model(&model.Movie{}).Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}

	fake := faker.New()
	movies := make([]model.Movie, 0, count)
	for i := 0; i < count; i++ {
		person := fake.Person()
		actors := make([]string, 3)
		for j := range actors {
			actors[j] = person.Name()
		}

		movies = append(movies, model.Movie{
			Name:         fake.Lorem().Sentence(3),
			PremiereDate: fake.Time().TimeBetween(time.Now().AddDate(-30, 0, 0), time.Now()),
			Category:     fake.Lorem().Word(),
			Director:     person.Name(),
			Actors:       datatypes.NewJSONSlice(actors),
			Description:  fake.Lorem().Paragraph(2),
			Image:        fake.Internet().URL(),
		})
	}

	return db.Create(&movies).Error
}
