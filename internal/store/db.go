package store

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNotFound is returned when a submission id is unknown.
var ErrNotFound = errors.New("submission not found")

// Database wraps the GORM DB handle and exposes repository helpers.
type Database struct {
	gorm *gorm.DB
	mu   sync.Mutex
}

// Open initializes the SQLite-backed database at the provided path.
func Open(path string, silent bool) (*Database, error) {
	cfg := &gorm.Config{}
	if silent {
		cfg.Logger = logger.Default.LogMode(logger.Silent)
	}
	db, err := gorm.Open(sqlite.Open(path), cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(&Submission{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	if err := db.Exec("PRAGMA journal_mode=WAL").Error; err != nil {
		logrus.WithError(err).Warn("enable WAL mode")
	}
	if err := db.Exec("PRAGMA synchronous=NORMAL").Error; err != nil {
		logrus.WithError(err).Warn("set synchronous pragma")
	}
	return &Database{gorm: db}, nil
}

// GORM exposes the raw gorm.DB handle.
func (d *Database) GORM() *gorm.DB {
	return d.gorm
}

// Close closes the underlying database connection.
func (d *Database) Close() error {
	if d == nil {
		return nil
	}
	sqlDB, err := d.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveSubmission inserts a submission, assigning an id when none is set.
func (d *Database) SaveSubmission(s *Submission) error {
	if s == nil {
		return errors.New("submission is nil")
	}
	if strings.TrimSpace(s.ID) == "" {
		s.ID = uuid.NewString()
	}
	if s.Status == "" {
		s.Status = StatusSucceeded
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gorm.Create(s).Error
}

// GetSubmission loads a submission by id.
func (d *Database) GetSubmission(id string) (*Submission, error) {
	var s Submission
	err := d.gorm.Where("id = ?", strings.TrimSpace(id)).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// LatestSucceeded returns the most recent submission that produced a plan.
func (d *Database) LatestSucceeded() (*Submission, error) {
	var s Submission
	err := d.gorm.Where("status = ?", StatusSucceeded).Order("created_at DESC").First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// SubmissionQuery filters and pages the submission history.
type SubmissionQuery struct {
	Brand  string
	Status string
	Offset int
	Limit  int
}

// ListSubmissions returns submissions newest first along with the filtered total.
func (d *Database) ListSubmissions(opts SubmissionQuery) ([]Submission, int64, error) {
	base := d.gorm.Model(&Submission{})
	if brand := strings.TrimSpace(opts.Brand); brand != "" {
		base = base.Where("LOWER(brand) = ?", strings.ToLower(brand))
	}
	if status := strings.TrimSpace(opts.Status); status != "" {
		base = base.Where("status = ?", strings.ToLower(status))
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := base.Session(&gorm.Session{}).Order("created_at DESC").Order("id DESC").Offset(opts.Offset)
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	var rows []Submission
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// CountSubmissions returns the number of stored submissions.
func (d *Database) CountSubmissions() (int64, error) {
	var count int64
	if err := d.gorm.Model(&Submission{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
