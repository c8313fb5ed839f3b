package db

import (
	"github.com/pkg/errors"

	"github.com/hrygo/cadsense/internal/profile"
	"github.com/hrygo/cadsense/store"
	"github.com/hrygo/cadsense/store/db/postgres"
	"github.com/hrygo/cadsense/store/db/sqlite"
)

// NewDBDriver creates a store driver for the profile's configured database.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	var driver store.Driver
	var err error

	switch profile.Driver {
	case "sqlite":
		driver, err = sqlite.NewDB(profile)
	case "postgres":
		driver, err = postgres.NewDB(profile)
	default:
		return nil, errors.Errorf("unknown db driver %q", profile.Driver)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to create db driver")
	}
	return driver, nil
}
