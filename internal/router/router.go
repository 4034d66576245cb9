package router

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "pet-adoption-hub/docs"
	"pet-adoption-hub/internal/adapters/notify/logsink"
	mem "pet-adoption-hub/internal/adapters/storage/memory"
	pg "pet-adoption-hub/internal/adapters/storage/postgres"
	"pet-adoption-hub/internal/domain/activities"
	"pet-adoption-hub/internal/domain/adoptions"
	"pet-adoption-hub/internal/domain/pets"
	"pet-adoption-hub/internal/domain/shelters"
	"pet-adoption-hub/internal/middleware"
	"pet-adoption-hub/internal/platform/logger"
	"pet-adoption-hub/internal/platform/metrics"
	"pet-adoption-hub/internal/ports/auth"
	"pet-adoption-hub/internal/ports/notify"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	Logger   logger.Logger
	Notifier notify.Notifier // nil => logsink

	HoldPetOnSubmit   bool
	CompletionRetries int
}

func NewRouter(opts Options) http.Handler {
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Notifier == nil {
		opts.Notifier = logsink.New(opts.Logger)
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", metrics.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	var (
		petRepo      pets.Repository
		shelterRepo  shelters.Repository
		adoptionRepo adoptions.Repository
		activityRepo activities.Repository
	)

	if opts.DB != nil {
		petRepo = pg.NewPetsRepo(opts.DB)
		shelterRepo = pg.NewSheltersRepo(opts.DB)
		adoptionRepo = pg.NewAdoptionsRepo(opts.DB)
		activityRepo = pg.NewActivitiesRepo(opts.DB)
	} else {
		petRepo = mem.NewPetRepo()
		shelterRepo = mem.NewShelterRepo()
		adoptionRepo = mem.NewAdoptionRepo()
		activityRepo = mem.NewActivityRepo()
	}

	// Services por módulo
	petsSvc := pets.NewService(petRepo)
	sheltersSvc := shelters.NewService(shelterRepo)
	adoptionsSvc := adoptions.NewService(adoptionRepo, petsSvc, sheltersSvc, adoptions.Options{
		HoldPetOnSubmit:   opts.HoldPetOnSubmit,
		CompletionRetries: opts.CompletionRetries,
		Logger:            opts.Logger,
		Notifier:          opts.Notifier,
	})
	activitiesSvc := activities.NewService(activityRepo, opts.Logger, opts.Notifier)

	// Rutas por módulo
	pets.RegisterRoutes(r, petsSvc)
	shelters.RegisterRoutes(r, sheltersSvc)
	adoptions.RegisterRoutes(r, adoptionsSvc)
	activities.RegisterRoutes(r, activitiesSvc)

	return r
}
