package dto

import "time"

type CreateMovieRequest struct {
	Name         string    `json:"movieName" binding:"required,min=1,max=200"`
	PremiereDate time.Time `json:"premiereDate" binding:"required"`
	Category     string    `json:"category" binding:"required"`
	Director     string    `json:"director" binding:"required"`
	Actors       []string  `json:"actors" binding:"required,min=1"`
	Description  string    `json:"description" binding:"required"`
	Image        string    `json:"imageMovie" binding:"required"`
}

type UpdateMovieRequest struct {
	Name         string     `json:"movieName" binding:"omitempty,min=1,max=200"`
	PremiereDate *time.Time `json:"premiereDate" binding:"omitempty"`
	Category     string     `json:"category" binding:"omitempty"`
	Director     string     `json:"director" binding:"omitempty"`
	Actors       []string   `json:"actors" binding:"omitempty,min=1"`
	Description  string     `json:"description" binding:"omitempty"`
	Image        string     `json:"imageMovie" binding:"omitempty"`
}

type MovieResponse struct {
	ID           uint      `json:"id"`
	Name         string    `json:"movieName"`
	PremiereDate time.Time `json:"premiereDate"`
	Category     string    `json:"category"`
	Director     string    `json:"director"`
	Actors       []string  `json:"actors"`
	Description  string    `json:"description"`
	Image        string    `json:"imageMovie"`
	Likes        []uint    `json:"likes"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
