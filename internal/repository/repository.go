// Package repository declares the record persistence contract shared by the storage drivers.
package repository

import (
	"context"
	"errors"

	"github.com/mamadbah2/hannan/internal/domain/models"
)

// ErrNotFound is returned when no record carries the requested id.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when an insert reuses an existing id.
var ErrDuplicate = errors.New("duplicate record id")

// RecordStore persists flat records, one collection per module.
type RecordStore interface {
	List(ctx context.Context, schema models.Schema) ([]models.Record, error)
	Get(ctx context.Context, schema models.Schema, id string) (models.Record, error)
	Insert(ctx context.Context, schema models.Schema, rec models.Record) error
	// Replace overwrites the stored record whose id matches.
	Replace(ctx context.Context, schema models.Schema, id string, rec models.Record) error
	Delete(ctx context.Context, schema models.Schema, id string) error
	// Search matches term case-insensitively inside any of the schema's SearchFields.
	Search(ctx context.Context, schema models.Schema, term string) ([]models.Record, error)
}
