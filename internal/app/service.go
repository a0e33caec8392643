package app

import (
	"fmt"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/olympiad/internal/budget"
	"github.com/shrimpsizemoose/olympiad/internal/grading"
	"github.com/shrimpsizemoose/olympiad/internal/membership"
	"github.com/shrimpsizemoose/olympiad/internal/roster"
	"github.com/shrimpsizemoose/olympiad/internal/store"
)

// Service wires the domain services to one store and one auth backend.
type Service struct {
	Config  *Config
	Store   store.Store
	Auth    *Auth
	Members *membership.Service
	Roster  *roster.Service
	Budget  *budget.Service
	Grading *grading.Service
}

func NewService(configPath string) (*Service, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	store, err := NewStore(config.Database.DSN, config.Database.MigrationsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to init store: %w", err)
	}
	logger.Info.Printf("Connected to %s database, migrations from %s", DatabaseType(config.Database.DSN), config.Database.MigrationsDir)

	auth, err := NewAuth(config)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to init auth: %w", err)
	}

	return NewServiceWith(config, store, auth), nil
}

// NewServiceWith builds the service graph from already opened dependencies.
func NewServiceWith(config *Config, s store.Store, auth *Auth) *Service {
	return &Service{
		Config:  config,
		Store:   s,
		Auth:    auth,
		Members: membership.NewService(s, config.Roster.MaxTeamSize),
		Roster:  roster.NewService(s, config.Roster.MaxTeamSize),
		Budget:  budget.NewService(s),
		Grading: grading.NewService(s, grading.NewGrader(config.Grading.DefaultNumericTolerance)),
	}
}

func (s *Service) Close() error {
	var errs []error

	if err := s.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("store: %w", err))
	}
	if err := s.Auth.Close(); err != nil {
		errs = append(errs, fmt.Errorf("auth: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors while closing: %v", errs)
	}
	return nil
}
