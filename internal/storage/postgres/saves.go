package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Save is one persisted player position, keyed by slot name. Writing an
// existing slot replaces it.
type Save struct {
	// Slot is the player-chosen save name ("default" when omitted).
	Slot string
	// SessionUID identifies the session that wrote the save.
	SessionUID string
	// RoomID is the saved player position.
	RoomID int
	// UpdatedAt is the time of the most recent write.
	UpdatedAt time.Time
}

// SaveRepository provides save-game persistence operations.
type SaveRepository struct {
	db *pgxpool.Pool
}

// NewSaveRepository creates a SaveRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewSaveRepository(db *pgxpool.Pool) *SaveRepository {
	return &SaveRepository{db: db}
}

// Put upserts the save for a slot.
//
// Precondition: slot and sessionUID must be non-empty.
// Postcondition: The slot holds the given position, or a non-nil error is returned.
func (r *SaveRepository) Put(ctx context.Context, slot, sessionUID string, roomID int) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO saves (slot, session_uid, room_id, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (slot) DO UPDATE
		SET session_uid = EXCLUDED.session_uid,
		    room_id     = EXCLUDED.room_id,
		    updated_at  = NOW()`,
		slot, sessionUID, roomID,
	)
	if err != nil {
		return fmt.Errorf("upserting save %q: %w", slot, err)
	}
	return nil
}

// Get returns the saved room for a slot.
//
// Postcondition: Returns (roomID, true, nil) if the slot exists,
// (0, false, nil) if it has never been written, or a non-nil error.
func (r *SaveRepository) Get(ctx context.Context, slot string) (int, bool, error) {
	var roomID int
	err := r.db.QueryRow(ctx,
		`SELECT room_id FROM saves WHERE slot = $1`, slot,
	).Scan(&roomID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("querying save %q: %w", slot, err)
	}
	return roomID, true, nil
}

// List returns all saves ordered by most recent write.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *SaveRepository) List(ctx context.Context) ([]*Save, error) {
	rows, err := r.db.Query(ctx, `
		SELECT slot, session_uid, room_id, updated_at
		FROM saves ORDER BY updated_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing saves: %w", err)
	}
	defer rows.Close()

	saves := make([]*Save, 0)
	for rows.Next() {
		var s Save
		if err := rows.Scan(&s.Slot, &s.SessionUID, &s.RoomID, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning save row: %w", err)
		}
		saves = append(saves, &s)
	}
	return saves, rows.Err()
}

// Delete removes a slot.
//
// Postcondition: Returns true if a save was deleted, false if the slot
// did not exist.
func (r *SaveRepository) Delete(ctx context.Context, slot string) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM saves WHERE slot = $1`, slot)
	if err != nil {
		return false, fmt.Errorf("deleting save %q: %w", slot, err)
	}
	return tag.RowsAffected() > 0, nil
}
