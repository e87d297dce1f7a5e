package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/vntrieu/mafia/internal/games"
)

// ErrNoPassphrase is returned when a game was created without a moderator passphrase.
var ErrNoPassphrase = errors.New("game has no passphrase")

// SetPassphrase stores a bcrypt hash of the moderator passphrase.
func (s *GameStore) SetPassphrase(ctx context.Context, gameID, passphrase string) error {
	id, err := uuid.Parse(gameID)
	if err != nil {
		return games.ErrGameNotFound
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(passphrase), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash passphrase: %w", err)
	}
	tag, err := s.pool.Exec(ctx, `UPDATE games SET passphrase_hash = $2 WHERE id = $1`, id, string(hash))
	if err != nil {
		return fmt.Errorf("update passphrase: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return games.ErrGameNotFound
	}
	return nil
}

// VerifyPassphrase reports whether passphrase matches the stored hash.
func (s *GameStore) VerifyPassphrase(ctx context.Context, gameID, passphrase string) (bool, error) {
	id, err := uuid.Parse(gameID)
	if err != nil {
		return false, games.ErrGameNotFound
	}
	var hash *string
	if err := s.pool.QueryRow(ctx, `SELECT passphrase_hash FROM games WHERE id = $1`, id).Scan(&hash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, games.ErrGameNotFound
		}
		return false, fmt.Errorf("get passphrase: %w", err)
	}
	if hash == nil {
		return false, ErrNoPassphrase
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*hash), []byte(passphrase)); err != nil {
		return false, nil
	}
	return true, nil
}
