// Package crud is the generic module scaffolding shared by every record type:
// a presenter that talks to the REST data service, a form, a list, a details
// view and the container that switches between them.
package crud

import (
	"context"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/mamadbah2/hannan/internal/domain/models"
)

// RecordView receives the presenter's results.
type RecordView interface {
	DisplayRecords(records []models.Record)
	ShowError(message string)
	ShowSuccess(message string)
	DisplayStats(stats models.Stats)
}

// DataService is the per-module remote data service.
type DataService interface {
	GetAllRecords(ctx context.Context) models.Envelope[[]models.Record]
	CreateRecord(ctx context.Context, fields models.Record) models.Envelope[models.Record]
	UpdateRecord(ctx context.Context, id string, fields models.Record) models.Envelope[models.Record]
	DeleteRecord(ctx context.Context, id string) models.Envelope[any]
	SearchRecords(ctx context.Context, term string) models.Envelope[[]models.Record]
	GetStats(ctx context.Context) models.Envelope[models.Stats]
}

// PhotoUploader performs the secondary photo write.
type PhotoUploader interface {
	UploadPhoto(ctx context.Context, id, filename string, photo io.Reader) models.Envelope[models.Record]
}

// Photo is an image attached to a record write.
type Photo struct {
	Filename string
	Data     io.Reader
}

// State is the presenter's load state.
type State int

const (
	Idle State = iota
	Loading
)

// Default messages used when the service does not supply one.
const (
	msgCreated = "Record created successfully"
	msgUpdated = "Record updated successfully"
	msgDeleted = "Record deleted successfully"
	msgFailed  = "Operation failed"
)

// Presenter orchestrates one module: it calls the data service and reports
// outcomes to its view. It holds no records; every write is followed by a
// full reload of the module list.
type Presenter struct {
	schema  models.Schema
	view    RecordView
	service DataService
	photos  PhotoUploader
	logger  *zap.Logger

	mu    sync.Mutex
	state State
}

// NewPresenter wires a presenter. photos may be nil for modules without images.
func NewPresenter(schema models.Schema, view RecordView, service DataService, photos PhotoUploader, logger *zap.Logger) *Presenter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Presenter{schema: schema, view: view, service: service, photos: photos, logger: logger}
}

// Schema returns the module the presenter serves.
func (p *Presenter) Schema() models.Schema {
	return p.schema
}

// Loading reports whether a list load is in flight.
func (p *Presenter) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state == Loading
}

func (p *Presenter) setState(s State) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}

// LoadAllRecords fetches the module list and hands it to the view.
func (p *Presenter) LoadAllRecords(ctx context.Context) {
	p.setState(Loading)
	defer p.setState(Idle)

	env := p.service.GetAllRecords(ctx)
	if !env.Success {
		p.logger.Debug("load failed", zap.String("module", p.schema.Module), zap.String("message", env.Message))
		p.view.ShowError(messageOr(env.Message, msgFailed))
		return
	}
	p.view.DisplayRecords(env.Data)
}

// CreateRecord creates a record, reports the outcome and reloads the list.
func (p *Presenter) CreateRecord(ctx context.Context, fields models.Record) models.Outcome {
	out := outcomeOf(p.service.CreateRecord(ctx, fields), msgCreated)
	p.report(out)
	p.LoadAllRecords(ctx)
	return out
}

// UpdateRecord updates a record, reports the outcome and reloads the list.
func (p *Presenter) UpdateRecord(ctx context.Context, id string, fields models.Record) models.Outcome {
	out := outcomeOf(p.service.UpdateRecord(ctx, id, fields), msgUpdated)
	p.report(out)
	p.LoadAllRecords(ctx)
	return out
}

// DeleteRecord deletes a record, reports the outcome and reloads the list.
func (p *Presenter) DeleteRecord(ctx context.Context, id string) models.Outcome {
	out := outcomeOf(p.service.DeleteRecord(ctx, id), msgDeleted)
	p.report(out)
	p.LoadAllRecords(ctx)
	return out
}

// SearchRecords shows the records matching term.
func (p *Presenter) SearchRecords(ctx context.Context, term string) {
	env := p.service.SearchRecords(ctx, term)
	if !env.Success {
		p.view.ShowError(messageOr(env.Message, msgFailed))
		return
	}
	p.view.DisplayRecords(env.Data)
}

// LoadStats shows the module aggregates.
func (p *Presenter) LoadStats(ctx context.Context) {
	env := p.service.GetStats(ctx)
	if !env.Success {
		p.view.ShowError(messageOr(env.Message, msgFailed))
		return
	}
	p.view.DisplayStats(env.Data)
}

// CreateRecordWithPhoto creates the record and then uploads photo for it.
// A failed upload leaves the record in place and is reported as a partial
// success.
func (p *Presenter) CreateRecordWithPhoto(ctx context.Context, fields models.Record, photo *Photo) models.WriteOutcome {
	env := p.service.CreateRecord(ctx, fields)
	out := models.WriteOutcome{Primary: outcomeOf(env, msgCreated)}
	if out.Primary.Success {
		id := p.schema.ID(env.Data)
		if id == "" {
			id = p.schema.ID(fields)
		}
		out.Secondary = p.upload(ctx, id, photo)
	}
	p.reportWrite(out)
	p.LoadAllRecords(ctx)
	return out
}

// UpdateRecordWithPhoto updates the record and then uploads photo for it.
func (p *Presenter) UpdateRecordWithPhoto(ctx context.Context, id string, fields models.Record, photo *Photo) models.WriteOutcome {
	out := models.WriteOutcome{Primary: outcomeOf(p.service.UpdateRecord(ctx, id, fields), msgUpdated)}
	if out.Primary.Success {
		out.Secondary = p.upload(ctx, id, photo)
	}
	p.reportWrite(out)
	p.LoadAllRecords(ctx)
	return out
}

func (p *Presenter) upload(ctx context.Context, id string, photo *Photo) *models.Outcome {
	if photo == nil || photo.Data == nil {
		return nil
	}
	if p.photos == nil || p.schema.Photo == "" {
		return &models.Outcome{Success: false, Message: p.schema.Title + " records do not take photos"}
	}
	env := p.photos.UploadPhoto(ctx, id, photo.Filename, photo.Data)
	if !env.Success {
		p.logger.Warn("photo upload failed", zap.String("module", p.schema.Module), zap.String("id", id), zap.String("message", env.Message))
	}
	out := outcomeOf(env, "Photo uploaded")
	return &out
}

func (p *Presenter) report(out models.Outcome) {
	if out.Success {
		p.view.ShowSuccess(out.Message)
		return
	}
	p.view.ShowError(out.Message)
}

func (p *Presenter) reportWrite(out models.WriteOutcome) {
	if out.Primary.Success {
		p.view.ShowSuccess(out.Message())
		return
	}
	p.view.ShowError(out.Primary.Message)
}

func outcomeOf[T any](env models.Envelope[T], success string) models.Outcome {
	if env.Success {
		return models.Outcome{Success: true, Message: messageOr(env.Message, success)}
	}
	return models.Outcome{Success: false, Message: messageOr(env.Message, msgFailed)}
}

func messageOr(message, fallback string) string {
	if message != "" {
		return message
	}
	return fallback
}
