// Package records implements the resource-per-module CRUD semantics behind the REST API.
package records

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/hannan/internal/domain/models"
	"github.com/mamadbah2/hannan/internal/domain/modules"
	"github.com/mamadbah2/hannan/internal/repository"
)

const unspecifiedGroup = "Unspecified"

// Mirror receives a copy of every created record.
type Mirror interface {
	AppendRecord(ctx context.Context, schema models.Schema, rec models.Record) error
}

// Service validates and persists records for every registered module.
type Service struct {
	store    repository.RecordStore
	mirror   Mirror
	validate *validator.Validate
	logger   *zap.Logger
	now      func() time.Time
	newID    func(prefix string) string
}

// NewService wires a records service. mirror may be nil.
func NewService(store repository.RecordStore, mirror Mirror, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:    store,
		mirror:   mirror,
		validate: validator.New(),
		logger:   logger,
		now:      time.Now,
		newID:    generateID,
	}
}

func generateID(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, strings.ToUpper(uuid.NewString()[:8]))
}

// Schema resolves a module name.
func (s *Service) Schema(module string) (models.Schema, error) {
	schema, ok := modules.Lookup(module)
	if !ok {
		return models.Schema{}, fmt.Errorf("%w: %s", ErrUnknownModule, module)
	}
	return schema, nil
}

// List returns every record of a module.
func (s *Service) List(ctx context.Context, module string) ([]models.Record, error) {
	schema, err := s.Schema(module)
	if err != nil {
		return nil, err
	}
	list, err := s.store.List(ctx, schema)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", module, err)
	}
	return list, nil
}

// Get returns one record.
func (s *Service) Get(ctx context.Context, module, id string) (models.Record, error) {
	schema, err := s.Schema(module)
	if err != nil {
		return nil, err
	}
	rec, err := s.store.Get(ctx, schema, s.canonicalID(schema, id))
	if err != nil {
		return nil, fmt.Errorf("get %s %s: %w", module, id, err)
	}
	return rec, nil
}

// Create normalizes, validates and stores a new record. An empty identifying
// field is assigned a generated id. A reminder requested alongside the record
// is created after the record itself and never fails the create.
func (s *Service) Create(ctx context.Context, module string, fields models.Record) (models.Record, error) {
	schema, err := s.Schema(module)
	if err != nil {
		return nil, err
	}

	values, verr := normalizeFields(s.validate, schema, fields)
	if verr != nil {
		return nil, verr
	}

	rec := make(models.Record, len(values))
	for name, n := range values {
		if !n.empty {
			rec[name] = n.value
		}
	}
	s.applyDefaults(schema, rec)

	if verr := checkRequired(s.validate, schema, rec); verr != nil {
		return nil, verr
	}

	if id := schema.ID(rec); id == "" {
		rec[schema.IDField] = s.newID(schema.IDPrefix)
	} else {
		rec[schema.IDField] = s.canonicalID(schema, id)
	}

	if err := s.store.Insert(ctx, schema, rec); err != nil {
		return nil, fmt.Errorf("create %s: %w", module, err)
	}

	s.logger.Info("record created", zap.String("module", module), zap.String("id", schema.ID(rec)))

	if schema.Reminders {
		if req := models.ExtractReminder(fields); req.SetReminder {
			s.createReminder(ctx, schema, rec, req)
		}
	}

	if s.mirror != nil {
		if err := s.mirror.AppendRecord(ctx, schema, rec); err != nil {
			s.logger.Warn("sheet mirror append failed", zap.String("module", module), zap.Error(err))
		}
	}

	return rec, nil
}

// Update merges the payload into the stored record. Fields sent empty are
// cleared; fields not sent are kept. The identifying field may be echoed but
// never changed.
func (s *Service) Update(ctx context.Context, module, id string, fields models.Record) (models.Record, error) {
	schema, err := s.Schema(module)
	if err != nil {
		return nil, err
	}
	id = s.canonicalID(schema, id)

	existing, err := s.store.Get(ctx, schema, id)
	if err != nil {
		return nil, fmt.Errorf("update %s %s: %w", module, id, err)
	}

	values, verr := normalizeFields(s.validate, schema, fields)
	if verr != nil {
		return nil, verr
	}

	if n, ok := values[schema.IDField]; ok && !n.empty {
		if s.canonicalID(schema, models.FormatValue(n.value)) != id {
			return nil, ErrImmutableID
		}
	}

	merged := existing.Clone()
	for name, n := range values {
		if n.empty {
			delete(merged, name)
			continue
		}
		merged[name] = n.value
	}
	merged[schema.IDField] = id

	if verr := checkRequired(s.validate, schema, merged); verr != nil {
		return nil, verr
	}

	if err := s.store.Replace(ctx, schema, id, merged); err != nil {
		return nil, fmt.Errorf("update %s %s: %w", module, id, err)
	}

	s.logger.Info("record updated", zap.String("module", module), zap.String("id", id))
	return merged, nil
}

// Delete removes a record permanently.
func (s *Service) Delete(ctx context.Context, module, id string) error {
	schema, err := s.Schema(module)
	if err != nil {
		return err
	}
	id = s.canonicalID(schema, id)
	if err := s.store.Delete(ctx, schema, id); err != nil {
		return fmt.Errorf("delete %s %s: %w", module, id, err)
	}
	s.logger.Info("record deleted", zap.String("module", module), zap.String("id", id))
	return nil
}

// Search matches term inside the module's search fields.
func (s *Service) Search(ctx context.Context, module, term string) ([]models.Record, error) {
	schema, err := s.Schema(module)
	if err != nil {
		return nil, err
	}
	list, err := s.store.Search(ctx, schema, strings.TrimSpace(term))
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", module, err)
	}
	return list, nil
}

// Stats counts records by the module's group field and sums its amount fields.
// Sums over derived fields are recomputed from each record.
func (s *Service) Stats(ctx context.Context, module string) (models.Stats, error) {
	schema, err := s.Schema(module)
	if err != nil {
		return models.Stats{}, err
	}
	list, err := s.store.List(ctx, schema)
	if err != nil {
		return models.Stats{}, fmt.Errorf("stats %s: %w", module, err)
	}
	return Aggregate(schema, list, s.now()), nil
}

// Aggregate computes Stats over an already loaded list.
func Aggregate(schema models.Schema, list []models.Record, now time.Time) models.Stats {
	stats := models.Stats{Module: schema.Module, Total: len(list)}

	if schema.GroupBy != "" {
		stats.ByGroup = make(map[string]int)
		for _, rec := range list {
			group := rec.String(schema.GroupBy)
			if group == "" {
				group = unspecifiedGroup
			}
			stats.ByGroup[group]++
		}
	}

	if len(schema.SumFields) > 0 {
		stats.Sums = make(map[string]decimal.Decimal, len(schema.SumFields))
		for _, field := range schema.SumFields {
			value := fieldValue(schema, field)
			total := decimal.Zero
			for _, rec := range list {
				if d, ok := value(rec, now); ok {
					total = total.Add(d)
				}
			}
			stats.Sums[field] = total
		}
	}

	return stats
}

func fieldValue(schema models.Schema, field string) func(models.Record, time.Time) (decimal.Decimal, bool) {
	for _, c := range schema.FormComputed {
		if c.Name == field {
			compute := c.Compute
			return func(rec models.Record, now time.Time) (decimal.Decimal, bool) {
				d, err := decimal.NewFromString(compute(rec, now))
				return d, err == nil
			}
		}
	}
	return func(rec models.Record, _ time.Time) (decimal.Decimal, bool) {
		f, ok := rec.Float(field)
		if !ok {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(f), true
	}
}

func (s *Service) canonicalID(schema models.Schema, id string) string {
	id = strings.TrimSpace(id)
	if schema.Module == modules.Goats {
		return strings.ToUpper(id)
	}
	return id
}

func (s *Service) applyDefaults(schema models.Schema, rec models.Record) {
	switch schema.Module {
	case modules.Notifications:
		if _, ok := rec["is_read"]; !ok {
			rec["is_read"] = false
		}
		if _, ok := rec["created_at"]; !ok {
			rec["created_at"] = s.now().Format(models.DateTimeLayout)
		}
	case modules.Reminders:
		if _, ok := rec["status"]; !ok {
			rec["status"] = modules.ReminderPending
		}
	}
}

func (s *Service) createReminder(ctx context.Context, schema models.Schema, rec models.Record, req models.ReminderRequest) {
	id := schema.ID(rec)
	reminder := models.Record{
		"title":          fmt.Sprintf("%s follow-up for %s", schema.Title, id),
		"description":    req.ReminderDescription,
		"reminder_date":  req.ReminderDate,
		"related_module": schema.Module,
		"related_id":     id,
	}
	if _, err := s.Create(ctx, modules.Reminders, reminder); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			s.logger.Warn("reminder rejected", zap.String("module", schema.Module), zap.String("id", id), zap.Error(err))
			return
		}
		s.logger.Error("failed to create reminder", zap.String("module", schema.Module), zap.String("id", id), zap.Error(err))
	}
}
