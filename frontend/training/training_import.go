package training

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"labdesk/infrastructure/audit"
	"labdesk/infrastructure/labapi"
)

// ImportCSV creates one training module per valid row. Rows that fail
// validation or are rejected by the backend are counted and described in
// the summary; the import carries on.
func ImportCSV(ctx context.Context, api *labapi.Client, auditSvc *audit.Service, userID int64, reader io.Reader) (ImportSummary, error) {
	summary := ImportSummary{}
	r := csv.NewReader(reader)
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return summary, fmt.Errorf("read header: %w", err)
	}
	if !headerMatches(header) {
		return summary, fmt.Errorf("invalid CSV header; expected %s", strings.Join(ImportHeader, ","))
	}

	line := 1
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			summary.fail(line, err)
			continue
		}
		if len(record) < len(ImportHeader) {
			summary.fail(line, fmt.Errorf("expected %d columns, got %d", len(ImportHeader), len(record)))
			continue
		}
		in, err := ValidateModule(labapi.TrainingModuleInput{
			Name:       record[0],
			Department: record[1],
			Duration:   record[2],
			ValidFrom:  record[3],
			Trainer:    record[4],
		})
		if err != nil {
			summary.fail(line, err)
			continue
		}
		if err := api.SaveTrainingModule(ctx, in); err != nil {
			slog.Error("import training module failed", slog.Int("line", line), slog.Any("err", err))
			summary.fail(line, errors.New(labapi.UserMessage(err)))
			continue
		}
		if err := auditSvc.Record(ctx, userID, "training.import", "training_module", in.Name, nil, in); err != nil {
			slog.Error("audit training import failed", slog.Any("err", err))
		}
		summary.Created++
	}
	return summary, nil
}

func (s *ImportSummary) fail(line int, err error) {
	s.Errors++
	s.Lines = append(s.Lines, fmt.Sprintf("line %d: %v", line, err))
}

func headerMatches(header []string) bool {
	if len(header) < len(ImportHeader) {
		return false
	}
	for i, want := range ImportHeader {
		got := strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
		if !strings.EqualFold(got, want) {
			return false
		}
	}
	return true
}
