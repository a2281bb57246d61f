package seeder

import (
	"context"
	"fmt"

	"interest-match/internal/database"
	"interest-match/internal/pkg/logger"
)

type Runner struct {
	Seeders []Seeder
	Log     *logger.Logger
}

func (r Runner) Run(ctx context.Context, db database.DB) error {
	if db == nil {
		return fmt.Errorf("nil db")
	}
	log := r.Log
	if log == nil {
		log = logger.Nop()
	}
	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		if err := s.Run(ctx, db); err != nil {
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
		log.Info("seeder finished", "seeder", s.Name())
	}
	return nil
}
