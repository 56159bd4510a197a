// Package store persists the wizard answers on the local machine.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ashureev/ikigai/internal/domain"
)

// AnswersKey is the storage key holding the serialized answer record.
const AnswersKey = "ikigaiData"

var (
	// ErrNotFound is returned by Get when the key has no value.
	ErrNotFound = errors.New("key not found")
	// ErrParse is returned when a stored value cannot be decoded.
	ErrParse = errors.New("stored value is not valid")
)

// KV is a minimal string key/value store.
type KV interface {
	// Get returns the value for key or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Put creates or replaces the value for key.
	Put(ctx context.Context, key, value string) error

	// Close releases the underlying resources.
	Close() error
}

// DecodeAnswers parses a stored answer record.
func DecodeAnswers(raw string) (domain.AnswerRecord, error) {
	var rec domain.AnswerRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return domain.AnswerRecord{}, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return rec, nil
}

// LoadAnswers reads the saved answers. A missing or unreadable value
// yields an empty record; the wizard always starts.
func LoadAnswers(ctx context.Context, kv KV) domain.AnswerRecord {
	raw, err := kv.Get(ctx, AnswersKey)
	if errors.Is(err, ErrNotFound) {
		return domain.AnswerRecord{}
	}
	if err != nil {
		slog.Warn("Failed to read saved answers", "error", err)
		return domain.AnswerRecord{}
	}

	rec, err := DecodeAnswers(raw)
	if err != nil {
		slog.Warn("Ignoring corrupt saved answers", "error", err)
		return domain.AnswerRecord{}
	}
	return rec
}

// SaveAnswers replaces the stored record with rec.
func SaveAnswers(ctx context.Context, kv KV, rec domain.AnswerRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}
	if err := kv.Put(ctx, AnswersKey, string(raw)); err != nil {
		return fmt.Errorf("save answers: %w", err)
	}
	return nil
}
