package factory

import (
	"fmt"

	"github.com/kaiwa-coach/memory-service/internal/config"
	"github.com/kaiwa-coach/memory-service/internal/store"
	"github.com/kaiwa-coach/memory-service/internal/store/jsonl"
	"github.com/kaiwa-coach/memory-service/internal/store/sqlite"
)

// NewStore selects the storage backend based on cfg.StoreDriver.
func NewStore(cfg *config.Config) (store.Store, error) {
	switch cfg.StoreDriver {
	case "jsonl":
		return jsonl.New(cfg.DataDir)
	case "sqlite":
		return sqlite.New(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER: %s", cfg.StoreDriver)
	}
}
