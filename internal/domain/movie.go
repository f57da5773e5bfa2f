package domain

import (
	"context"
	"time"
)

type Movie struct {
	ID          int
	Title       string
	Genre       string
	Duration    int
	Rating      string
	Director    string
	Cast        string
	Synopsis    string
	ReleaseDate time.Time
	CreatedAt   time.Time
}

type MovieRepository interface {
	GetAll(ctx context.Context, pagination Pagination) ([]Movie, *Metadata, error)
	GetById(ctx context.Context, id int) (*Movie, error)
	Create(ctx context.Context, movie *Movie) error
}
