package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/cineview/movie-api/internal/model"
	"gorm.io/gorm"
)

// fakeUserStore is an in-memory UserStore used by the service tests.
type fakeUserStore struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]*model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{nextID: 1, users: map[uint]*model.User{}}
}

func (s *fakeUserStore) add(user *model.User) *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID == 0 {
		user.ID = s.nextID
		s.nextID++
	}
	cp := *user
	s.users[user.ID] = &cp
	return user
}

func (s *fakeUserStore) GetByID(ctx context.Context, id uint) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *user
	return &cp, nil
}

func (s *fakeUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			cp := *user
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeUserStore) GetAll(ctx context.Context) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.User, 0, len(s.users))
	for _, user := range s.users {
		out = append(out, *user)
	}
	return out, nil
}

func (s *fakeUserStore) Create(ctx context.Context, user *model.User) error {
	s.add(user)
	return nil
}

func (s *fakeUserStore) UpdateFields(ctx context.Context, id uint, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for key, value := range fields {
		switch key {
		case "user_name":
			user.UserName = value.(string)
		case "birth_day":
			user.BirthDay = value.(string)
		case "gender":
			user.Gender = value.(string)
		case "mobile":
			user.Mobile = value.(string)
		case "address":
			user.Address = value.(string)
		}
	}
	return nil
}

func (s *fakeUserStore) Save(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *fakeUserStore) Delete(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
	return nil
}

func (s *fakeUserStore) UpdateRefreshToken(ctx context.Context, id uint, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.RefreshToken = token
	return nil
}

func (s *fakeUserStore) FindByRefreshToken(ctx context.Context, token string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token == "" {
		return nil, gorm.ErrRecordNotFound
	}
	for _, user := range s.users {
		if user.RefreshToken == token {
			cp := *user
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeUserStore) ClearRefreshTokenByValue(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if token != "" && user.RefreshToken == token {
			user.RefreshToken = ""
		}
	}
	return nil
}

func (s *fakeUserStore) SetPasswordReset(ctx context.Context, id uint, tokenHash string, expires time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.PasswordResetToken = tokenHash
	user.PasswordResetExpires = &expires
	return nil
}

func (s *fakeUserStore) FindByResetTokenHash(ctx context.Context, tokenHash string, now time.Time) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tokenHash == "" {
		return nil, gorm.ErrRecordNotFound
	}
	for _, user := range s.users {
		if user.PasswordResetToken == tokenHash &&
			user.PasswordResetExpires != nil &&
			user.PasswordResetExpires.After(now) {
			cp := *user
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeUserStore) CompletePasswordReset(ctx context.Context, id uint, hashedPassword string, changedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.Password = hashedPassword
	user.PasswordResetToken = ""
	user.PasswordResetExpires = nil
	user.PasswordChangedAt = &changedAt
	return nil
}

// fakeMovieStore is an in-memory MovieStore.
type fakeMovieStore struct {
	mu     sync.Mutex
	nextID uint
	movies map[uint]*model.Movie
}

func newFakeMovieStore() *fakeMovieStore {
	return &fakeMovieStore{nextID: 1, movies: map[uint]*model.Movie{}}
}

func (s *fakeMovieStore) add(movie *model.Movie) *model.Movie {
	s.mu.Lock()
	defer s.mu.Unlock()
	if movie.ID == 0 {
		movie.ID = s.nextID
		s.nextID++
	}
	cp := *movie
	s.movies[movie.ID] = &cp
	return movie
}

func (s *fakeMovieStore) GetByID(ctx context.Context, id uint) (*model.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	movie, ok := s.movies[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *movie
	return &cp, nil
}

func (s *fakeMovieStore) GetAll(ctx context.Context) ([]model.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Movie, 0, len(s.movies))
	for _, movie := range s.movies {
		out = append(out, *movie)
	}
	return out, nil
}

func (s *fakeMovieStore) Create(ctx context.Context, movie *model.Movie) error {
	s.add(movie)
	return nil
}

func (s *fakeMovieStore) UpdateFields(ctx context.Context, id uint, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	movie, ok := s.movies[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for key, value := range fields {
		switch key {
		case "name":
			movie.Name = value.(string)
		case "category":
			movie.Category = value.(string)
		case "director":
			movie.Director = value.(string)
		case "description":
			movie.Description = value.(string)
		case "image":
			movie.Image = value.(string)
		case "premiere_date":
			movie.PremiereDate = value.(time.Time)
		}
	}
	return nil
}

func (s *fakeMovieStore) Save(ctx context.Context, movie *model.Movie) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *movie
	s.movies[movie.ID] = &cp
	return nil
}

func (s *fakeMovieStore) Delete(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.movies, id)
	return nil
}

// fakeMailer records sent mail and can be told to fail.
type fakeMailer struct {
	mu      sync.Mutex
	sent    []sentMail
	sendErr error
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

func (m *fakeMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: htmlBody})
	return nil
}
