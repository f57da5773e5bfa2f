package domain

import "context"

type Hall struct {
	ID       int
	Name     string
	Capacity int
}

type HallRepository interface {
	GetAll(ctx context.Context) ([]Hall, error)
	GetById(ctx context.Context, id int) (*Hall, error)
}
