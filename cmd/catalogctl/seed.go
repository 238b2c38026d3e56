package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the development fixture",
	Long: `Insert a small set of directors, genres, movies, and ratings for
local development. Rows carry fixed ids and are inserted with ON
CONFLICT DO NOTHING, so the command is idempotent.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSeed(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

var seedStatements = []string{
	`INSERT INTO directors (id, name, birth_year, description) VALUES
        (1, 'Akira Kurosawa', 1910, 'Japanese director of Rashomon and Seven Samurai'),
        (2, 'Billy Wilder', 1906, 'Austrian-American writer-director'),
        (3, 'Agnes Varda', 1928, 'French New Wave pioneer')
     ON CONFLICT (id) DO NOTHING`,

	`INSERT INTO genres (id, name, description) VALUES
        (1, 'Drama', NULL),
        (2, 'Noir', 'Crime dramas with cynical attitudes and low-key lighting'),
        (3, 'Comedy', NULL),
        (4, 'Documentary', NULL)
     ON CONFLICT (id) DO NOTHING`,

	`INSERT INTO movies (id, title, director_id, release_year, "cast") VALUES
        (1, 'Seven Samurai', 1, 1954, 'Toshiro Mifune, Takashi Shimura'),
        (2, 'Double Indemnity', 2, 1944, 'Fred MacMurray, Barbara Stanwyck'),
        (3, 'Some Like It Hot', 2, 1959, 'Marilyn Monroe, Tony Curtis, Jack Lemmon'),
        (4, 'Cleo from 5 to 7', 3, 1962, 'Corinne Marchand')
     ON CONFLICT (id) DO NOTHING`,

	`INSERT INTO genres_movies (movie_id, genre_id) VALUES
        (1, 1), (2, 1), (2, 2), (3, 3), (4, 1)
     ON CONFLICT DO NOTHING`,

	`INSERT INTO ratings (movie_id, score)
     SELECT m.id, s.score
     FROM (VALUES (1, 9), (1, 10), (2, 8), (3, 9)) AS s(movie_id, score)
     JOIN movies m ON m.id = s.movie_id
     WHERE NOT EXISTS (SELECT 1 FROM ratings r WHERE r.movie_id = s.movie_id)`,

	// Explicit-id inserts bypass the sequences; realign them.
	`SELECT setval('directors_id_seq', (SELECT MAX(id) FROM directors))`,
	`SELECT setval('genres_id_seq', (SELECT MAX(id) FROM genres))`,
	`SELECT setval('movies_id_seq', (SELECT MAX(id) FROM movies))`,
}

func runSeed(ctx context.Context) error {
	logger := newLogger()

	pool, err := connect(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := applySeed(ctx, pool); err != nil {
		return err
	}

	var movies, ratings int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM movies`).Scan(&movies); err != nil {
		return fmt.Errorf("verify seed: %w", err)
	}
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM ratings`).Scan(&ratings); err != nil {
		return fmt.Errorf("verify seed: %w", err)
	}

	logger.Info().Int("movies", movies).Int("ratings", ratings).Msg("fixture seeded")
	return nil
}

func applySeed(ctx context.Context, pool *pgxpool.Pool) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, stmt := range seedStatements {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("seed statement failed: %w", err)
		}
	}
	return tx.Commit(ctx)
}
