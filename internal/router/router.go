package router

import (
	"database/sql"
	"net/http"
	"os"

	"peds-medsafety/internal/adapters/alertfeed/redis"
	mem "peds-medsafety/internal/adapters/storage/memory"
	pg "peds-medsafety/internal/adapters/storage/postgres"
	"peds-medsafety/internal/domain/alerts"
	"peds-medsafety/internal/domain/dosage"
	"peds-medsafety/internal/domain/drugs"
	"peds-medsafety/internal/domain/patients"
	"peds-medsafety/internal/domain/prescriptions"
	"peds-medsafety/internal/middleware"
	"peds-medsafety/internal/platform/logger"
	"peds-medsafety/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "peds-medsafety/docs" // swagger generado
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Opcional: si es nil se construye desde env.
	Logger *zerolog.Logger
}

func NewRouter(opts Options) http.Handler {
	log := logger.NewFromEnv()
	if opts.Logger != nil {
		log = *opts.Logger
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(log))

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	var (
		patientRepo      patients.Repository
		drugRepo         drugs.Repository
		prescriptionRepo prescriptions.Repository
		alertRepo        alerts.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			} else {
				log.Warn().Err(err).Msg("postgres no disponible, usando in-memory")
			}
		}
	}

	if db != nil {
		patientRepo = pg.NewPatientsRepo(db)
		drugRepo = pg.NewDrugsRepo(db)
		prescriptionRepo = pg.NewPrescriptionsRepo(db)
	} else {
		patientRepo = mem.NewPatientsRepo()
		drugRepo = mem.NewDrugsRepo()
		prescriptionRepo = mem.NewPrescriptionsRepo()
	}

	// Feed de alertas en Redis si está configurado; si no, in-memory.
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		feed, err := redis.Open(addr)
		if err == nil {
			alertRepo = feed
		} else {
			log.Warn().Err(err).Msg("redis no disponible, feed de alertas in-memory")
		}
	}
	if alertRepo == nil {
		alertRepo = mem.NewAlertsRepo()
	}

	// Services por módulo
	patientsSvc := patients.NewService(patientRepo)
	drugsSvc := drugs.NewService(drugRepo)
	prescriptionsSvc := prescriptions.NewService(prescriptionRepo)
	alertsSvc := alerts.NewService(alertRepo)

	// Rutas por módulo
	patients.RegisterRoutes(r, patientsSvc)
	drugs.RegisterRoutes(r, drugsSvc)
	dosage.RegisterRoutes(r, patientsSvc, drugsSvc, alertsSvc)
	prescriptions.RegisterRoutes(r, prescriptionsSvc, patientsSvc, drugsSvc, alertsSvc)
	alerts.RegisterRoutes(r, alertsSvc)

	return r
}
