package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	api "github.com/Servicios-KDV-2025/SisEscolar-25-sub003/internal/api/http"
	"github.com/Servicios-KDV-2025/SisEscolar-25-sub003/internal/audit"
	auth "github.com/Servicios-KDV-2025/SisEscolar-25-sub003/internal/auth/middleware"
	"github.com/Servicios-KDV-2025/SisEscolar-25-sub003/internal/config"
	"github.com/Servicios-KDV-2025/SisEscolar-25-sub003/internal/db"
	"github.com/Servicios-KDV-2025/SisEscolar-25-sub003/internal/grading"
	"github.com/Servicios-KDV-2025/SisEscolar-25-sub003/internal/rbac"
	"github.com/Servicios-KDV-2025/SisEscolar-25-sub003/internal/storage"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	store := grading.NewSQLStore(dbh)
	auditLog := audit.NewLog(dbh)

	svc := grading.NewService(store, grading.WithAudit(auditLog))

	batchOpts := []grading.BatchOption{grading.WithBatchAudit(auditLog)}
	var reports storage.BlobStore
	if cfg.EnableReports {
		fs, err := storage.NewFSStore(cfg.ReportBasePath)
		if err != nil {
			log.Fatalf("report store: %v", err)
		}
		reports = fs
		batchOpts = append(batchOpts, grading.WithReports(reports))
	}
	batch := grading.NewBatchPersister(store, batchOpts...)

	authSvc := auth.NewAuthService(cfg.AuthSecret, cfg.AdminUser, cfg.AdminPassHash)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc, dbh))

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		pr.With(rbac.Require("grade:record")).
			Post("/grades", api.RecordGradeHandler(svc))

		pr.With(rbac.RequireAny("average:view", "average:view-own")).
			Get("/enrollments/{enrollmentID}/average", api.ComputeAverageHandler(svc, store))

		pr.With(rbac.Require("average:persist")).
			Post("/classes/{classID}/terms/{termID}/averages", api.PersistAveragesHandler(batch))

		pr.With(rbac.Require("enrollment:list")).
			Get("/classes/{classID}/terms/{termID}/enrollments", api.ListEnrollmentsHandler(store))

		pr.With(rbac.Require("assignment:list")).
			Get("/classes/{classID}/terms/{termID}/assignments", api.ListAssignmentsHandler(store))

		if reports != nil {
			pr.With(rbac.Require("report:view")).
				Get("/classes/{classID}/terms/{termID}/averages/report", api.ReportHandler(reports))
		}
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (db=%s)", cfg.HTTPAddr, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
