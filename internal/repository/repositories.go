package repository

import (
	"fmt"

	"github.com/deppfellow/phonebook/internal/config"
	"github.com/deppfellow/phonebook/internal/server"
)

// Repositories is a container for all repository instances.
//
// Services receive the container rather than individual stores so that
// the dependency injection shape stays the same as stores are added.
type Repositories struct {
	Persons PersonRepository
}

// NewRepositories constructs the repository container for the store
// driver selected in the config.
//
// Parameter:
//   - s: application container; the postgres store uses s.DB.Pool, the
//     redis store s.Redis. Both are opened by server.New for their driver.
func NewRepositories(s *server.Server) (*Repositories, error) {
	switch driver := s.Config.Store.Driver; driver {
	case config.DriverMemory, "":
		return &Repositories{Persons: NewMemoryPersonRepository()}, nil

	case config.DriverPostgres:
		if s.DB == nil {
			return nil, fmt.Errorf("%s store selected but no database pool is open", driver)
		}
		return &Repositories{Persons: NewPostgresPersonRepository(s.DB.Pool)}, nil

	case config.DriverRedis:
		if s.Redis == nil {
			return nil, fmt.Errorf("%s store selected but no redis client is open", driver)
		}
		return &Repositories{Persons: NewRedisPersonRepository(s.Redis, s.Config.Redis.KeyPrefix)}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}
