package grading

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/Servicios-KDV-2025/SisEscolar-25-sub003/internal/storage"
)

// BatchFailure reports one enrollment the batch could not persist.
type BatchFailure struct {
	EnrollmentID string `json:"enrollment_id"`
	Error        string `json:"error"`
}

// BatchResult is the structured partial outcome of one batch run. A run with
// failures still completes the rest of the roster; callers decide how to
// present the split.
type BatchResult struct {
	RunID         string         `json:"run_id"`
	ClassID       string         `json:"class_id"`
	TermID        string         `json:"term_id"`
	Succeeded     []string       `json:"succeeded"`
	Skipped       []string       `json:"skipped"`
	Failed        []BatchFailure `json:"failed"`
	WeightWarning string         `json:"weight_warning,omitempty"`
}

// BatchPersister computes and persists a TermAverage for every enrollment in
// a class+term. Each student is an independent unit of work: there is no
// transaction across the roster and no rollback of earlier writes.
type BatchPersister struct {
	Store   Store
	Audit   Auditor           // optional
	Reports storage.BlobStore // optional: CSV run report per batch
	Now     Clock
}

func NewBatchPersister(store Store, opts ...BatchOption) *BatchPersister {
	b := &BatchPersister{Store: store, Now: time.Now}
	for _, o := range opts {
		o(b)
	}
	return b
}

type BatchOption func(*BatchPersister)

func WithBatchAudit(a Auditor) BatchOption { return func(b *BatchPersister) { b.Audit = a } }

func WithReports(bs storage.BlobStore) BatchOption {
	return func(b *BatchPersister) { b.Reports = bs }
}

func WithBatchClock(c Clock) BatchOption { return func(b *BatchPersister) { b.Now = c } }

// Run walks the roster sequentially: compute, then persist, per enrollment.
// A per-student persistence failure is logged, recorded in the result, and
// the loop continues. Enrollments with no computable average are skipped
// silently. Cancelling ctx stops the run between students; writes already
// issued stay.
func (b *BatchPersister) Run(ctx context.Context, classID, termID, registeredBy string, opts ListOpts) (BatchResult, error) {
	res := BatchResult{RunID: uuid.NewString(), ClassID: classID, TermID: termID}

	cats, err := b.Store.ListRubricCategories(ctx, classID, termID)
	if err != nil {
		return res, fmt.Errorf("rubric categories: %w", err)
	}
	asgs, err := b.Store.ListAssignments(ctx, classID, termID)
	if err != nil {
		return res, fmt.Errorf("assignments: %w", err)
	}
	roster, err := b.Store.ListEnrollments(ctx, classID, termID, opts)
	if err != nil {
		return res, fmt.Errorf("roster: %w", err)
	}

	model := NewWeightModel(cats, asgs)
	if err := model.ValidateWeights(); err != nil {
		res.WeightWarning = err.Error()
		log.Printf("batch %s: rubric weights for class=%s term=%s: %v", res.RunID, classID, termID, err)
	}

	averages := map[string]float64{}
	for _, enr := range roster {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		grades, err := b.Store.ListGrades(ctx, enr.ID)
		if err != nil {
			log.Printf("batch %s: grades for enrollment %s: %v", res.RunID, enr.ID, err)
			res.Failed = append(res.Failed, BatchFailure{EnrollmentID: enr.ID, Error: err.Error()})
			continue
		}
		avg, ok := ComputeTermAverage(grades, model)
		if !ok {
			res.Skipped = append(res.Skipped, enr.ID)
			continue
		}
		_, err = b.Store.UpsertTermAverage(ctx, TermAverage{
			EnrollmentID: enr.ID,
			TermID:       termID,
			Average:      avg,
			RegisteredBy: registeredBy,
			UpdatedAt:    b.Now().Unix(),
		})
		if err != nil {
			log.Printf("batch %s: persist average for enrollment %s: %v", res.RunID, enr.ID, err)
			res.Failed = append(res.Failed, BatchFailure{EnrollmentID: enr.ID, Error: err.Error()})
			continue
		}
		averages[enr.ID] = avg
		res.Succeeded = append(res.Succeeded, enr.ID)
	}

	if b.Reports != nil {
		if err := b.writeReport(roster, averages, res); err != nil {
			log.Printf("batch %s: run report: %v", res.RunID, err)
		}
	}
	if b.Audit != nil {
		_ = b.Audit.Append(ctx, "term_average.batch", res.RunID, registeredBy, res)
	}
	return res, nil
}

// writeReport exports one CSV row per roster entry and refreshes the
// latest.csv pointer for the class+term.
func (b *BatchPersister) writeReport(roster []StudentEnrollment, averages map[string]float64, res BatchResult) error {
	failed := map[string]string{}
	for _, f := range res.Failed {
		failed[f.EnrollmentID] = f.Error
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"enrollment_id", "student", "status", "average"})
	for _, enr := range roster {
		switch {
		case failed[enr.ID] != "":
			_ = w.Write([]string{enr.ID, enr.StudentName, "failed", ""})
		default:
			if avg, ok := averages[enr.ID]; ok {
				_ = w.Write([]string{enr.ID, enr.StudentName, "persisted", strconv.FormatFloat(avg, 'f', -1, 64)})
			} else {
				_ = w.Write([]string{enr.ID, enr.StudentName, "skipped", ""})
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	prefix := storage.ReportKey(res.ClassID, res.TermID, res.RunID)
	if _, err := b.Reports.Put(prefix, bytes.NewReader(buf.Bytes())); err != nil {
		return err
	}
	_, err := b.Reports.Put(storage.ReportKey(res.ClassID, res.TermID, "latest"), bytes.NewReader(buf.Bytes()))
	return err
}
