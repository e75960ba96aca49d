// Package metrics persists per-call LLM usage records. Tracking is
// observability, not correctness: every failure here is logged and swallowed.
package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Record is one normalized usage row for a single provider call.
type Record struct {
	ID           string `gorm:"primaryKey;size:36"`
	CaseID       string `gorm:"index;size:64"`
	Provider     string `gorm:"size:16"`
	Model        string `gorm:"size:128"`
	RequestType  string `gorm:"size:32"`
	CacheHit     bool
	InputTokens  int
	CachedTokens int
	OutputTokens int
	CostUSD      float64
	CreatedAt    time.Time
}

// TableName sets the table used for usage rows.
func (Record) TableName() string { return "llm_usage_metrics" }

// Sink persists usage records.
type Sink interface {
	Track(ctx context.Context, rec Record) error
}

// DBSink writes usage records to Postgres through GORM.
type DBSink struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewDBSink opens the metrics database and ensures the usage table exists.
func NewDBSink(dsn string, log *zap.Logger) (*DBSink, error) {
	if log == nil {
		log = zap.NewNop()
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, err
	}
	return &DBSink{db: db, log: log}, nil
}

// Track inserts one usage row.
func (s *DBSink) Track(ctx context.Context, rec Record) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	return s.db.WithContext(ctx).Create(&rec).Error
}

// MemorySink stores records in memory. Test fixture; also the fallback
// when no database DSN is configured.
type MemorySink struct {
	mu      sync.Mutex
	records []Record

	// FailWith, when set, makes every Track call fail with this error.
	FailWith error
}

// NewMemorySink creates an empty in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Track appends a record, or fails when FailWith is set.
func (s *MemorySink) Track(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return s.FailWith
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	s.records = append(s.records, rec)
	return nil
}

// Records returns a copy of everything tracked so far.
func (s *MemorySink) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}
