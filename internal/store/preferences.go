package store

import (
	"context"
	"errors"
	"fmt"

	"quarters/internal/domain"

	"github.com/jackc/pgx/v5"
)

func (s *Store) GetPreference(ctx context.Context, visitorID string) (domain.Preference, error) {
	var pref domain.Preference
	row := s.DB.QueryRow(ctx, `
		SELECT visitor_id, timezone, created_at, updated_at
		FROM timezone_preferences
		WHERE visitor_id=$1`, visitorID)
	if err := row.Scan(&pref.VisitorID, &pref.Timezone, &pref.CreatedAt, &pref.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Preference{}, ErrNotFound
		}
		return domain.Preference{}, fmt.Errorf("get preference: %w", err)
	}
	return pref, nil
}

func (s *Store) SavePreference(ctx context.Context, input PreferenceInput) error {
	_, err := s.DB.Exec(ctx, `
		INSERT INTO timezone_preferences (visitor_id, timezone)
		VALUES ($1, $2)
		ON CONFLICT (visitor_id) DO UPDATE
		SET timezone=EXCLUDED.timezone, updated_at=NOW()`, input.VisitorID, input.Timezone)
	if err != nil {
		return fmt.Errorf("save preference: %w", err)
	}
	return nil
}

func (s *Store) DeletePreference(ctx context.Context, visitorID string) error {
	tag, err := s.DB.Exec(ctx, `DELETE FROM timezone_preferences WHERE visitor_id=$1`, visitorID)
	if err != nil {
		return fmt.Errorf("delete preference: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
