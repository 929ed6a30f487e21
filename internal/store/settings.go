package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ayusman/mudra/internal/detector"
)

// ErrNotFound is returned when a requested setting does not exist.
var ErrNotFound = errors.New("not found")

// TrackerKey is the settings key holding the hand tracker options.
const TrackerKey = "tracker"

// SettingsRepository provides access to the settings table.
type SettingsRepository struct {
	db *sql.DB
}

// Settings returns the settings repository for this store.
func (s *Store) Settings() *SettingsRepository {
	return &SettingsRepository{db: s.db}
}

// Get returns the raw value stored under key.
func (r *SettingsRepository) Get(key string) (string, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

// Set inserts or replaces the value stored under key.
func (r *SettingsRepository) Set(key, value string) error {
	_, err := r.db.Exec(
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now(),
	)
	return err
}

// Delete removes key. Deleting a missing key returns ErrNotFound.
func (r *SettingsRepository) Delete(key string) error {
	result, err := r.db.Exec(`DELETE FROM settings WHERE key = ?`, key)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// GetJSON decodes the value under key into v.
func (r *SettingsRepository) GetJSON(key string, v any) error {
	raw, err := r.Get(key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("decode setting %q: %w", key, err)
	}
	return nil
}

// SetJSON encodes v and stores it under key.
func (r *SettingsRepository) SetJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode setting %q: %w", key, err)
	}
	return r.Set(key, string(data))
}

// Tracker returns the stored tracker options, or detector.DefaultConfig
// when none have been saved. Fields missing from an older record keep
// their default values.
func (r *SettingsRepository) Tracker() (detector.Config, error) {
	cfg := detector.DefaultConfig()
	err := r.GetJSON(TrackerKey, &cfg)
	if errors.Is(err, ErrNotFound) {
		return detector.DefaultConfig(), nil
	}
	if err != nil {
		return detector.DefaultConfig(), err
	}
	if err := cfg.Validate(); err != nil {
		return detector.DefaultConfig(), fmt.Errorf("stored tracker options: %w", err)
	}
	return cfg, nil
}

// SetTracker validates and stores the tracker options.
func (r *SettingsRepository) SetTracker(cfg detector.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	return r.SetJSON(TrackerKey, cfg)
}
