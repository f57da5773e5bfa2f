package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/selimyuksel/cinema-booking-system/internal/domain"
)

type PostgresMovieRepository struct {
	db *pgxpool.Pool
}

func NewPostgresMovieRepository(db *pgxpool.Pool) *PostgresMovieRepository {
	return &PostgresMovieRepository{
		db: db,
	}
}

func (p *PostgresMovieRepository) GetAll(
	ctx context.Context,
	pagination domain.Pagination) ([]domain.Movie, *domain.Metadata, error) {

	query := `
		SELECT
			COUNT(*) OVER(),
			m.id,
			m.title,
			m.genre,
			m.duration_minutes,
			m.rating,
			md.director,
			md.movie_cast,
			md.synopsis,
			md.release_date,
			m.created_at
		FROM movies m
		JOIN movie_details md ON md.movie_id = m.id
		ORDER BY m.title ASC
		LIMIT $1 OFFSET $2
	`

	rows, err := p.db.Query(ctx, query, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	movies := make([]domain.Movie, 0)
	totalRecords := 0

	for rows.Next() {
		var movie domain.Movie

		err := rows.Scan(
			&totalRecords,
			&movie.ID,
			&movie.Title,
			&movie.Genre,
			&movie.Duration,
			&movie.Rating,
			&movie.Director,
			&movie.Cast,
			&movie.Synopsis,
			&movie.ReleaseDate,
			&movie.CreatedAt,
		)
		if err != nil {
			return nil, nil, err
		}

		movies = append(movies, movie)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	metadata := pagination.Metadata(totalRecords)

	return movies, metadata, nil
}

func (p *PostgresMovieRepository) GetById(ctx context.Context, id int) (*domain.Movie, error) {
	query := `
		SELECT
			m.id,
			m.title,
			m.genre,
			m.duration_minutes,
			m.rating,
			md.director,
			md.movie_cast,
			md.synopsis,
			md.release_date,
			m.created_at
		FROM movies m
		JOIN movie_details md ON md.movie_id = m.id
		WHERE m.id = $1
	`

	var movie domain.Movie

	err := p.db.QueryRow(ctx, query, id).Scan(
		&movie.ID,
		&movie.Title,
		&movie.Genre,
		&movie.Duration,
		&movie.Rating,
		&movie.Director,
		&movie.Cast,
		&movie.Synopsis,
		&movie.ReleaseDate,
		&movie.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &movie, nil
}

func (p *PostgresMovieRepository) Create(ctx context.Context, movie *domain.Movie) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO movies (title, genre, duration_minutes, rating)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at
		`

		err := tx.QueryRow(
			ctx,
			query,
			movie.Title,
			movie.Genre,
			movie.Duration,
			movie.Rating,
		).Scan(&movie.ID, &movie.CreatedAt)

		if err != nil {
			return err
		}

		query = `
			INSERT INTO movie_details (movie_id, director, movie_cast, synopsis, release_date)
			VALUES ($1, $2, $3, $4, $5)
		`

		_, err = tx.Exec(
			ctx,
			query,
			movie.ID,
			movie.Director,
			movie.Cast,
			movie.Synopsis,
			movie.ReleaseDate,
		)

		return err
	})
}
