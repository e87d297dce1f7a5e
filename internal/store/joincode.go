package store

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vntrieu/mafia/internal/games"
)

// JoinCodeLength is the length of a spectator join code.
const JoinCodeLength = 6

// joinCodeCharset excludes look-alike characters (0/O, 1/I).
const joinCodeCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// generateJoinCode returns a random, human-readable join code.
func generateJoinCode() string {
	b := make([]byte, JoinCodeLength)
	for i := range b {
		b[i] = joinCodeCharset[rand.Intn(len(joinCodeCharset))]
	}
	return string(b)
}

// NormalizeJoinCode upper-cases and trims a code typed by a spectator.
func NormalizeJoinCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func uniqueJoinCode(ctx context.Context, tx pgx.Tx) (string, error) {
	for attempt := 0; attempt < 10; attempt++ {
		code := generateJoinCode()
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM games WHERE join_code = $1)`, code).Scan(&exists); err != nil {
			return "", fmt.Errorf("check join code exists: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", errors.New("could not allocate a join code")
}

// JoinCode returns the spectator join code of a game.
func (s *GameStore) JoinCode(ctx context.Context, gameID string) (string, error) {
	id, err := uuid.Parse(gameID)
	if err != nil {
		return "", games.ErrGameNotFound
	}
	var code string
	if err := s.pool.QueryRow(ctx, `SELECT join_code FROM games WHERE id = $1`, id).Scan(&code); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", games.ErrGameNotFound
		}
		return "", fmt.Errorf("get join code: %w", err)
	}
	return code, nil
}

// GameIDByJoinCode resolves a join code to its game id.
func (s *GameStore) GameIDByJoinCode(ctx context.Context, code string) (string, error) {
	code = NormalizeJoinCode(code)
	if len(code) != JoinCodeLength {
		return "", games.ErrGameNotFound
	}
	var id uuid.UUID
	if err := s.pool.QueryRow(ctx, `SELECT id FROM games WHERE join_code = $1`, code).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", games.ErrGameNotFound
		}
		return "", fmt.Errorf("get game by join code: %w", err)
	}
	return id.String(), nil
}
