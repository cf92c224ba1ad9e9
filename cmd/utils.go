package cmd

import (
	"fmt"

	"github.com/maniraj0007/task-management-app-sub004/pkg/config"
	"github.com/maniraj0007/task-management-app-sub004/pkg/core"
	"github.com/maniraj0007/task-management-app-sub004/pkg/history"
	"github.com/maniraj0007/task-management-app-sub004/pkg/search"
	"github.com/maniraj0007/task-management-app-sub004/pkg/storage"
)

// searchStack bundles everything a command needs to run searches: the
// loaded config, the storage manager, the source registry and the
// coordinator wired over them.
type searchStack struct {
	cfg      *config.Config
	manager  *storage.Manager
	registry *core.Registry
	history  *history.Store
	service  *search.Service
}

// openSearchStack loads the config and wires a source for every
// configured domain over its record collection.
func openSearchStack(configPath string) (*searchStack, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	manager := storage.NewManager(cfg.StorageDir)
	registry := core.GetGlobalRegistry()

	for _, domain := range cfg.DomainTypes() {
		coll, err := manager.Collection(domain)
		if err != nil {
			closeQuietly(manager, registry)
			return nil, fmt.Errorf("opening collection for %s: %w", domain, err)
		}
		if err := registry.CreateSource(domain, coll); err != nil {
			closeQuietly(manager, registry)
			return nil, fmt.Errorf("creating source for %s: %w", domain, err)
		}
	}

	hs, err := manager.History()
	if err != nil {
		closeQuietly(manager, registry)
		return nil, fmt.Errorf("opening history: %w", err)
	}

	historyStore := history.NewStore(hs)
	service := search.NewService(registry, historyStore)

	return &searchStack{
		cfg:      cfg,
		manager:  manager,
		registry: registry,
		history:  historyStore,
		service:  service,
	}, nil
}

func (s *searchStack) Close() {
	closeQuietly(s.manager, s.registry)
}

func closeQuietly(manager *storage.Manager, registry *core.Registry) {
	if err := registry.Close(); err != nil {
		fmt.Printf("Warning: failed to close registry: %v\n", err)
	}
	if err := manager.Close(); err != nil {
		fmt.Printf("Warning: failed to close storage manager: %v\n", err)
	}
}
