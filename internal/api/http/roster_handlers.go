package http

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	authmw "github.com/Servicios-KDV-2025/SisEscolar-25-sub003/internal/auth/middleware"
	"github.com/Servicios-KDV-2025/SisEscolar-25-sub003/internal/grading"
	"github.com/Servicios-KDV-2025/SisEscolar-25-sub003/internal/rbac"
	"github.com/Servicios-KDV-2025/SisEscolar-25-sub003/internal/storage"
)

// GET /classes/{classID}/terms/{termID}/enrollments
// The returned roster is already scoped to the viewer (tutors see their own
// students).
func ListEnrollmentsHandler(store grading.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		classID := strings.TrimSpace(chi.URLParam(r, "classID"))
		termID := strings.TrimSpace(chi.URLParam(r, "termID"))
		opts := grading.ListOpts{
			ViewerID:   authmw.SubjectFromContext(r.Context()),
			ViewerRole: rbac.RoleFromContext(r.Context()),
		}
		out, err := store.ListEnrollments(r.Context(), classID, termID, opts)
		if err != nil {
			http.Error(w, "enrollments: "+err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(out)
	}
}

// GET /classes/{classID}/terms/{termID}/assignments
func ListAssignmentsHandler(store grading.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		classID := strings.TrimSpace(chi.URLParam(r, "classID"))
		termID := strings.TrimSpace(chi.URLParam(r, "termID"))
		out, err := store.ListAssignments(r.Context(), classID, termID)
		if err != nil {
			http.Error(w, "assignments: "+err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(out)
	}
}

// GET /classes/{classID}/terms/{termID}/averages/report
// Serves the latest batch run report as CSV.
func ReportHandler(bs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		classID := strings.TrimSpace(chi.URLParam(r, "classID"))
		termID := strings.TrimSpace(chi.URLParam(r, "termID"))
		rc, err := bs.Get(storage.ReportKey(classID, termID, "latest"))
		if err != nil {
			http.Error(w, "no report for class+term", http.StatusNotFound)
			return
		}
		defer rc.Close()
		w.Header().Set("Content-Type", "text/csv")
		_, _ = io.Copy(w, rc)
	}
}
