package crud

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/mamadbah2/hannan/internal/domain/models"
)

// fakeService is an in-memory DataService and PhotoUploader.
type fakeService struct {
	mu       sync.Mutex
	idField  string
	records  []models.Record
	calls    map[string]int
	nextID   int
	failNext string
	failPut  bool
	photoErr string
	onList   func()
}

func newFakeService(idField string, seed ...models.Record) *fakeService {
	return &fakeService{idField: idField, records: seed, calls: map[string]int{}}
}

func (f *fakeService) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeService) GetAllRecords(context.Context) models.Envelope[[]models.Record] {
	if f.onList != nil {
		f.onList()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["list"]++
	out := make([]models.Record, 0, len(f.records))
	for _, r := range f.records {
		out = append(out, r.Clone())
	}
	return models.Ok(out, "")
}

func (f *fakeService) CreateRecord(_ context.Context, fields models.Record) models.Envelope[models.Record] {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["create"]++
	if f.failNext != "" {
		msg := f.failNext
		f.failNext = ""
		return models.Fail[models.Record](msg)
	}
	rec := fields.Clone()
	delete(rec, models.KeySetReminder)
	delete(rec, models.KeyReminderDate)
	delete(rec, models.KeyReminderDescription)
	if rec.String(f.idField) == "" {
		f.nextID++
		rec[f.idField] = fmt.Sprintf("ID-%d", f.nextID)
	}
	f.records = append(f.records, rec)
	return models.Ok(rec, "Record created successfully")
}

func (f *fakeService) UpdateRecord(_ context.Context, id string, fields models.Record) models.Envelope[models.Record] {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["update"]++
	if f.failPut {
		return models.Fail[models.Record]("update rejected")
	}
	for i, r := range f.records {
		if r.String(f.idField) == id {
			for k, v := range fields {
				r[k] = v
			}
			f.records[i] = r
			return models.Ok(r.Clone(), "Record updated successfully")
		}
	}
	return models.Fail[models.Record]("record not found")
}

func (f *fakeService) DeleteRecord(_ context.Context, id string) models.Envelope[any] {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["delete"]++
	for i, r := range f.records {
		if r.String(f.idField) == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return models.Ok[any](nil, "Record deleted successfully")
		}
	}
	return models.Fail[any]("record not found")
}

func (f *fakeService) SearchRecords(context.Context, string) models.Envelope[[]models.Record] {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["search"]++
	return models.Ok(f.records, "")
}

func (f *fakeService) GetStats(context.Context) models.Envelope[models.Stats] {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["stats"]++
	return models.Ok(models.Stats{Total: len(f.records)}, "")
}

func (f *fakeService) UploadPhoto(_ context.Context, id, _ string, photo io.Reader) models.Envelope[models.Record] {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["photo"]++
	if f.photoErr != "" {
		return models.Fail[models.Record](f.photoErr)
	}
	raw, _ := io.ReadAll(photo)
	for _, r := range f.records {
		if r.String(f.idField) == id {
			r["photo"] = string(raw)
			return models.Ok(r.Clone(), "Photo uploaded successfully")
		}
	}
	return models.Fail[models.Record]("record not found")
}

// recordingView captures what a presenter reports.
type recordingView struct {
	records   []models.Record
	stats     *models.Stats
	errors    []string
	successes []string
}

func (v *recordingView) DisplayRecords(records []models.Record) { v.records = records }
func (v *recordingView) ShowError(message string) { v.errors = append(v.errors, message) }
func (v *recordingView) ShowSuccess(message string) { v.successes = append(v.successes, message) }
func (v *recordingView) DisplayStats(stats models.Stats) { v.stats = &stats }
