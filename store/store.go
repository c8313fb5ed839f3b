package store

import (
	"context"
	"time"

	"github.com/lithammer/shortuuid/v4"

	"github.com/hrygo/cadsense/internal/profile"
)

// Driver is the persistence backend for planning runs.
type Driver interface {
	Migrate(ctx context.Context) error
	Close() error

	CreateDrawingRun(ctx context.Context, create *DrawingRun) (*DrawingRun, error)
	ListDrawingRuns(ctx context.Context, find *FindDrawingRun) ([]*DrawingRun, error)
}

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		driver:  driver,
		profile: profile,
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Migrate(ctx context.Context) error {
	return s.driver.Migrate(ctx)
}

func (s *Store) Close() error {
	return s.driver.Close()
}

// CreateDrawingRun assigns a UID and creation time when missing and persists the run.
func (s *Store) CreateDrawingRun(ctx context.Context, create *DrawingRun) (*DrawingRun, error) {
	if create.UID == "" {
		create.UID = shortuuid.New()
	}
	if create.CreatedTs == 0 {
		create.CreatedTs = time.Now().Unix()
	}
	return s.driver.CreateDrawingRun(ctx, create)
}

func (s *Store) ListDrawingRuns(ctx context.Context, find *FindDrawingRun) ([]*DrawingRun, error) {
	if find == nil {
		find = &FindDrawingRun{}
	}
	return s.driver.ListDrawingRuns(ctx, find)
}
