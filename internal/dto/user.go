package dto

import "time"

type RegisterRequest struct {
	UserName string `json:"userName" binding:"required,min=2,max=50"`
	Email    string `json:"email" binding:"required,email,min=6,max=50"`
	Password string `json:"password" binding:"required,min=4,max=50"`
	BirthDay string `json:"birthDay" binding:"omitempty"`
	Gender   string `json:"gender" binding:"omitempty"`
	Mobile   string `json:"mobile" binding:"omitempty,min=10,max=15"`
	Address  string `json:"address" binding:"omitempty,max=200"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateUserRequest carries optional profile fields; the handler rejects a
// body where nothing is set.
type UpdateUserRequest struct {
	UserName string `json:"userName" binding:"omitempty,min=2,max=50"`
	BirthDay string `json:"birthDay" binding:"omitempty"`
	Gender   string `json:"gender" binding:"omitempty"`
	Mobile   string `json:"mobile" binding:"omitempty,min=10,max=15"`
	Address  string `json:"address" binding:"omitempty,max=200"`
}

func (r *UpdateUserRequest) IsEmpty() bool {
	return r.UserName == "" && r.BirthDay == "" && r.Gender == "" &&
		r.Mobile == "" && r.Address == ""
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=4,max=50"`
	Token    string `json:"token" binding:"required"`
}

// UserResponse is the public view of a user: password, admin flag and all
// token fields are stripped.
type UserResponse struct {
	ID             uint      `json:"id"`
	UserName       string    `json:"userName"`
	Email          string    `json:"email"`
	BirthDay       string    `json:"birthDay,omitempty"`
	Gender         string    `json:"gender,omitempty"`
	Mobile         string    `json:"mobile,omitempty"`
	Address        string    `json:"address,omitempty"`
	FavoriteMovies []uint    `json:"favoriteMovies"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type RegisterResponse struct {
	UserResponse
	Token string `json:"token"`
}

type LoginResponse struct {
	UserData    UserResponse `json:"userData"`
	AccessToken string       `json:"accessToken"`
}

type RefreshTokenResponse struct {
	Success        bool   `json:"success"`
	NewAccessToken string `json:"newAccessToken"`
}
