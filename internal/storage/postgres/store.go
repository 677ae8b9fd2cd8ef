package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/hongminglow/auth-smoke/internal/models"
	"github.com/hongminglow/auth-smoke/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Ensure Store satisfies the storage.PlayerStore interface at compile time.
var _ storage.PlayerStore = (*Store)(nil)

const playerColumns = `id, name, nick, email, gang, is_anonymous, two_fa_enabled, password_hash, created_at`

// Store provides Postgres-backed persistence for players.
type Store struct {
	pool *pgxpool.Pool
}

// NewPlayerStore creates a new Store and runs migrations.
func NewPlayerStore(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS players (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			nick TEXT UNIQUE NOT NULL,
			email TEXT UNIQUE NOT NULL,
			gang TEXT NOT NULL,
			is_anonymous BOOLEAN NOT NULL DEFAULT FALSE,
			two_fa_enabled BOOLEAN NOT NULL DEFAULT FALSE,
			password_hash TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`ALTER TABLE players ADD COLUMN IF NOT EXISTS two_fa_enabled BOOLEAN NOT NULL DEFAULT FALSE;`,
		`CREATE UNIQUE INDEX IF NOT EXISTS players_email_unique_idx ON players (email);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS players_nick_unique_idx ON players (nick);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

// CreatePlayer inserts a new player row.
func (s *Store) CreatePlayer(ctx context.Context, user models.User) (models.User, error) {
	const query = `
		INSERT INTO players (name, nick, email, gang, is_anonymous, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + playerColumns + `;`
	row := s.pool.QueryRow(ctx, query, user.Name, user.Nick, user.Email, user.Gang, user.IsAnonymous, user.PasswordHash)
	created, err := scanPlayer(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, err
	}
	return created, nil
}

// FindByID fetches a player by primary key.
func (s *Store) FindByID(ctx context.Context, id int64) (models.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+playerColumns+` FROM players WHERE id = $1;`, id)
	return scanPlayer(row)
}

// FindByNick fetches a player by nick.
func (s *Store) FindByNick(ctx context.Context, nick string) (models.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+playerColumns+` FROM players WHERE nick = $1;`, nick)
	return scanPlayer(row)
}

// FindByEmail fetches a player by email address.
func (s *Store) FindByEmail(ctx context.Context, email string) (models.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+playerColumns+` FROM players WHERE email = $1;`, email)
	return scanPlayer(row)
}

// FindByIdentifier fetches the first player matching the identifier as nick or email.
func (s *Store) FindByIdentifier(ctx context.Context, identifier string) (models.User, error) {
	const query = `SELECT ` + playerColumns + ` FROM players WHERE nick = $1 OR email = $1 ORDER BY id LIMIT 1;`
	row := s.pool.QueryRow(ctx, query, identifier)
	return scanPlayer(row)
}

func scanPlayer(row pgx.Row) (models.User, error) {
	var user models.User
	if err := row.Scan(&user.ID, &user.Name, &user.Nick, &user.Email, &user.Gang, &user.IsAnonymous, &user.Has2FA, &user.PasswordHash, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}
