package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	authmw "github.com/Servicios-KDV-2025/SisEscolar-25-sub003/internal/auth/middleware"
	"github.com/Servicios-KDV-2025/SisEscolar-25-sub003/internal/grading"
	"github.com/Servicios-KDV-2025/SisEscolar-25-sub003/internal/rbac"
)

var validate = validator.New()

// POST /grades
func RecordGradeHandler(svc *grading.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in grading.RecordGradeInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		if err := validate.Struct(in); err != nil {
			http.Error(w, "invalid request: "+err.Error(), http.StatusUnprocessableEntity)
			return
		}
		in.RecordedBy = authmw.SubjectFromContext(r.Context())
		g, err := svc.RecordGrade(r.Context(), in)
		if err != nil {
			writeGradingErr(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(g)
	}
}

// GET /enrollments/{enrollmentID}/average
// Computes on demand; nothing is persisted. Students may only view their own.
func ComputeAverageHandler(svc *grading.Service, store grading.Store) http.HandlerFunc {
	type out struct {
		EnrollmentID string   `json:"enrollment_id"`
		Average      *float64 `json:"average"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		enrollmentID := strings.TrimSpace(chi.URLParam(r, "enrollmentID"))
		if enrollmentID == "" {
			http.Error(w, "enrollmentID required", http.StatusBadRequest)
			return
		}
		if rbac.RoleFromContext(r.Context()) == "student" {
			enr, err := store.GetEnrollment(r.Context(), enrollmentID)
			if err != nil {
				writeGradingErr(w, err)
				return
			}
			if enr.StudentID != authmw.SubjectFromContext(r.Context()) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
		}
		avg, err := svc.ComputeAverage(r.Context(), enrollmentID)
		if err != nil {
			writeGradingErr(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(out{EnrollmentID: enrollmentID, Average: avg})
	}
}

// POST /classes/{classID}/terms/{termID}/averages
// Runs the batch and returns the structured partial outcome; a run with
// failures is still a 200, the split is in the body.
func PersistAveragesHandler(batch *grading.BatchPersister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		classID := strings.TrimSpace(chi.URLParam(r, "classID"))
		termID := strings.TrimSpace(chi.URLParam(r, "termID"))
		if classID == "" || termID == "" {
			http.Error(w, "classID and termID required", http.StatusBadRequest)
			return
		}
		sub := authmw.SubjectFromContext(r.Context())
		opts := grading.ListOpts{ViewerID: sub, ViewerRole: rbac.RoleFromContext(r.Context())}
		res, err := batch.Run(r.Context(), classID, termID, sub, opts)
		if err != nil {
			http.Error(w, "batch: "+err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(res)
	}
}

func writeGradingErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, grading.ErrValidation):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, grading.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
