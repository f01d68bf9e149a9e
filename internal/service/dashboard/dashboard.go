// Package dashboard assembles the admin overview across every module.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mamadbah2/hannan/internal/domain/models"
	"github.com/mamadbah2/hannan/internal/domain/modules"
	"github.com/mamadbah2/hannan/internal/service/records"
)

// Lister loads every record of a module.
type Lister interface {
	List(ctx context.Context, module string) ([]models.Record, error)
}

// Service builds dashboard snapshots.
type Service struct {
	records Lister
	logger  *zap.Logger
	now     func() time.Time
}

// NewService wires a dashboard service.
func NewService(records Lister, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{records: records, logger: logger, now: time.Now}
}

// Overview loads every module concurrently and aggregates it. The first
// failing module cancels the remaining loads.
func (s *Service) Overview(ctx context.Context) (models.Overview, error) {
	schemas := modules.All()
	lists := make([][]models.Record, len(schemas))

	g, gctx := errgroup.WithContext(ctx)
	for i, schema := range schemas {
		i, schema := i, schema
		g.Go(func() error {
			list, err := s.records.List(gctx, schema.Module)
			if err != nil {
				return fmt.Errorf("load %s: %w", schema.Module, err)
			}
			lists[i] = list
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return models.Overview{}, err
	}

	now := s.now()
	overview := models.Overview{
		Modules:     make(map[string]models.Stats, len(schemas)),
		GeneratedAt: now,
	}
	for i, schema := range schemas {
		overview.Modules[schema.Module] = records.Aggregate(schema, lists[i], now)

		for _, rec := range lists[i] {
			switch schema.Module {
			case modules.Goats:
				if rec.String("status") == modules.StatusActive {
					overview.ActiveGoats++
				}
			case modules.Reminders:
				if rec.String("status") == modules.ReminderPending {
					overview.PendingReminders++
				}
			case modules.Notifications:
				if !rec.Bool("is_read") {
					overview.UnreadNotifications++
				}
			}
		}
	}

	s.logger.Debug("dashboard overview built",
		zap.Int("modules", len(schemas)),
		zap.Int("active_goats", overview.ActiveGoats),
		zap.Int("pending_reminders", overview.PendingReminders),
	)
	return overview, nil
}
