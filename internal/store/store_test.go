package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ashureev/ikigai/internal/domain"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "nested", "ikigai.db"))
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteGetMissingKey(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestSQLitePutReplaces(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, "k", "one"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := s.Put(ctx, "k", "two"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	got, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != "two" {
		t.Errorf("Expected two, got %q", got)
	}
}

func TestAnswersRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	rec := domain.AnswerRecord{Passion: "música", Vocation: "código", Mission: "", Profession: "consultoría"}

	if err := SaveAnswers(ctx, s, rec); err != nil {
		t.Fatalf("SaveAnswers failed: %v", err)
	}
	if diff := cmp.Diff(rec, LoadAnswers(ctx, s)); diff != "" {
		t.Errorf("Answers mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadAnswersWithoutData(t *testing.T) {
	s := newTestStore(t)
	if got := LoadAnswers(context.Background(), s); got != (domain.AnswerRecord{}) {
		t.Errorf("Expected empty record, got %+v", got)
	}
}

func TestLoadAnswersIgnoresCorruptData(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if err := s.Put(ctx, AnswersKey, "{not json"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if got := LoadAnswers(ctx, s); got != (domain.AnswerRecord{}) {
		t.Errorf("Expected empty record, got %+v", got)
	}
}

func TestDecodeAnswersReportsParseError(t *testing.T) {
	if _, err := DecodeAnswers("[1,2]"); !errors.Is(err, ErrParse) {
		t.Errorf("Expected ErrParse, got %v", err)
	}
}

func TestPersistedAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ikigai.db")
	ctx := context.Background()

	s, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	if err := SaveAnswers(ctx, s, domain.AnswerRecord{Passion: "x"}); err != nil {
		t.Fatalf("SaveAnswers failed: %v", err)
	}
	s.Close()

	s, err = NewSQLite(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s.Close()
	if got := LoadAnswers(ctx, s); got.Passion != "x" {
		t.Errorf("Expected persisted passion, got %+v", got)
	}
}

func TestIsConflictError(t *testing.T) {
	if !isConflictError(errors.New("SQLITE_BUSY: database busy")) {
		t.Error("Expected SQLITE_BUSY to be a conflict")
	}
	if !isConflictError(errors.New("database is locked")) {
		t.Error("Expected locked to be a conflict")
	}
	if isConflictError(nil) || isConflictError(errors.New("disk full")) {
		t.Error("Unexpected conflict classification")
	}
}
