package main

import (
	"context"
	"log"
	"net/http"
	"time"

	api "github.com/openlearn/lms-backend/internal/api/http"
	auth "github.com/openlearn/lms-backend/internal/auth/middleware"
	"github.com/openlearn/lms-backend/internal/config"
	"github.com/openlearn/lms-backend/internal/course"
	"github.com/openlearn/lms-backend/internal/db"
	"github.com/openlearn/lms-backend/internal/enroll"
	"github.com/openlearn/lms-backend/internal/rbac"
	syncx "github.com/openlearn/lms-backend/internal/sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/joho/godotenv"
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
	catalog := course.NewSQLStore(dbh)
	enrollments := enroll.NewSQLStore(dbh)
	events := syncx.NewEventRepo(dbh)

	authSvc := auth.NewAuthService(cfg.AuthHMACSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(httprate.LimitByIP(cfg.RateLimitPerMin, time.Minute))

	origins := cfg.CORSOriginsOffline
	if cfg.Mode == config.ModeOnline {
		origins = cfg.CORSOriginsOnline
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Public surface
	r.Post("/auth/register", auth.RegisterHandler(dbh))
	r.Post("/auth/login", auth.LoginHandler(dbh, authSvc))
	r.Get("/courses", api.ListCoursesHandler(catalog))

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		pr.With(rbac.Require("course:view")).
			Get("/courses/{courseID}", api.GetCourseHandler(catalog, enrollments))
		pr.With(rbac.Require("course:create")).
			Post("/courses", api.CreateCourseHandler(catalog))
		pr.With(rbac.Require("course:enroll")).
			Post("/courses/{courseID}/enroll", api.EnrollHandler(catalog, enrollments, events))
		pr.With(rbac.RequireAny("course:enroll", "course:create")).
			Get("/me/courses", api.MyCoursesHandler(catalog, enrollments))

		pr.With(rbac.Require("lesson:create")).
			Post("/courses/{courseID}/lessons", api.CreateLessonHandler(catalog))
		pr.With(rbac.Require("lesson:view")).
			Get("/courses/{courseID}/lessons", api.ListLessonsHandler(catalog, enrollments))
		pr.With(rbac.Require("lesson:complete")).
			Post("/lessons/{lessonID}/complete", api.CompleteLessonHandler(catalog, enrollments, events))

		pr.With(rbac.Require("quiz:create")).
			Post("/courses/{courseID}/quizzes", api.CreateQuizHandler(catalog))
		pr.With(rbac.Require("quiz:view")).
			Get("/courses/{courseID}/quizzes", api.ListQuizzesHandler(catalog, enrollments))
		pr.With(rbac.Require("quiz:view")).
			Get("/quizzes/{quizID}", api.GetQuizHandler(catalog, enrollments))
		pr.With(rbac.Require("quiz:attempt")).
			Post("/quizzes/{quizID}/attempts", api.AttemptQuizHandler(catalog, enrollments, events))

		pr.With(rbac.RequireAny("progress:view-own", "progress:view-all")).
			Get("/courses/{courseID}/progress", api.CourseProgressHandler(catalog, enrollments))
		pr.With(rbac.RequireAny("progress:view-own", "progress:view-all")).
			Get("/me/progress", api.OverviewHandler(catalog, enrollments))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
