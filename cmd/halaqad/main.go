package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/Jawad18750/halaqa/internal/api/http"
	"github.com/Jawad18750/halaqa/internal/auth"
	"github.com/Jawad18750/halaqa/internal/catalog"
	"github.com/Jawad18750/halaqa/internal/config"
	"github.com/Jawad18750/halaqa/internal/db"
	"github.com/Jawad18750/halaqa/internal/session"
	"github.com/Jawad18750/halaqa/internal/student"
)

func main() {
	cfg := config.FromEnv()

	// --- Catalog (fatal if unreadable or empty) ---
	ix, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Fatalf("catalog load failed: %v", err)
	}

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}

	students := student.NewSQLStore(dbh, cfg.DBDriver)
	sessions := session.NewSQLStore(dbh, cfg.DBDriver)
	svc := session.NewService(sessions, students, ix)

	authSvc := auth.NewAuthService(cfg.AuthSecret, cfg.TokenTTL)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	origins := cfg.CORSOriginsOffline
	if cfg.Mode == config.ModeOnline {
		origins = cfg.CORSOriginsOnline
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	r.Post("/auth/register", api.RegisterHandler(dbh, authSvc))
	r.Post("/auth/login", api.LoginHandler(dbh, authSvc))

	// Protected API: everything below is scoped to the authenticated
	// instructor.
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		pr.Route("/students", func(sr chi.Router) {
			sr.Get("/", api.ListStudentsHandler(students))
			sr.Post("/", api.CreateStudentHandler(students))
			sr.Patch("/{studentID}", api.UpdateStudentHandler(students))
			sr.Delete("/{studentID}", api.DeleteStudentHandler(students))
		})

		pr.Route("/catalog", func(cr chi.Router) {
			cr.Get("/", api.CatalogHandler(ix))
			cr.Get("/draw", api.DrawHandler(ix))
		})

		pr.Route("/sessions", func(sr chi.Router) {
			sr.Post("/", api.CreateSessionHandler(svc))
			sr.Get("/student/{studentID}", api.ListStudentSessionsHandler(svc))
			sr.Get("/weekly", api.WeeklyReportHandler(svc))
			sr.Get("/overview", api.OverviewReportHandler(svc))
			sr.Patch("/{sessionID}/time", api.UpdateSessionTimeHandler(svc))
			sr.Delete("/{sessionID}", api.DeleteSessionHandler(svc))
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := dbh.PingContext(r.Context()); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	log.Printf("listening on %s (mode=%s, db=%s, catalog=%d units)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver, ix.Len())
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
