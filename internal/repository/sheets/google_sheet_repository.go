package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/hannan/internal/config"
	"github.com/mamadbah2/hannan/internal/domain/models"
)

// RowWriter appends rows to a spreadsheet range.
type RowWriter interface {
	WriteRow(ctx context.Context, sheetRange string, values []interface{}) error
}

// GoogleSheetRepository implements RowWriter using the official Google Sheets API.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetRepository builds a Google Sheets backed repository instance.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// WriteRow appends the provided values to the supplied sheet range.
func (r *GoogleSheetRepository) WriteRow(ctx context.Context, sheetRange string, values []interface{}) error {
	if sheetRange == "" {
		return fmt.Errorf("sheetRange must not be empty")
	}

	payload := &sheetsapi.ValueRange{Values: [][]interface{}{values}}

	call := r.service.Spreadsheets.Values.Append(r.spreadsheetID, sheetRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append row into range %s: %w", sheetRange, err)
	}

	r.logger.Debug("row appended to sheet", zap.String("range", sheetRange))
	return nil
}

// RecordMirror copies newly created records into one sheet tab per module.
type RecordMirror struct {
	writer RowWriter
}

// NewRecordMirror wraps a row writer.
func NewRecordMirror(writer RowWriter) *RecordMirror {
	return &RecordMirror{writer: writer}
}

// AppendRecord writes the record's stored fields in schema order.
func (m *RecordMirror) AppendRecord(ctx context.Context, schema models.Schema, rec models.Record) error {
	values := make([]interface{}, 0, len(schema.Fields))
	for _, f := range schema.Fields {
		if f.Kind == models.KindImage {
			// data URIs exceed the sheet cell limit
			values = append(values, "")
			continue
		}
		values = append(values, rec.String(f.Name))
	}
	return m.writer.WriteRow(ctx, SheetRange(schema), values)
}

// SheetRange is the append range for a module's tab.
func SheetRange(schema models.Schema) string {
	return fmt.Sprintf("%s!A:%s", schema.Module, columnName(len(schema.Fields)))
}

func columnName(n int) string {
	name := ""
	for n > 0 {
		n--
		name = string(rune('A'+n%26)) + name
		n /= 26
	}
	return name
}
