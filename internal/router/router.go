package router

import (
	"database/sql"
	"net/http"

	mem "smartmilk/internal/adapters/storage/memory"
	pg "smartmilk/internal/adapters/storage/postgres"
	"smartmilk/internal/domain/cows"
	"smartmilk/internal/domain/herd"
	"smartmilk/internal/domain/users"
	"smartmilk/internal/middleware"
	"smartmilk/internal/platform/logger"
	"smartmilk/internal/ports/auth"

	_ "smartmilk/internal/docs"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	Logger logger.Logger // nil => Nop

	// AuthVerifier puede ser nil (modo dev con X-Debug-User-ID).
	AuthVerifier auth.AuthVerifier

	// Tokens emite el JWT de sesión; nil => tokens opacos de dev.
	Tokens users.TokenIssuer

	// Identity habilita /auth/google; nil => 501.
	Identity users.IdentityVerifier

	// Publisher recibe las alertas de altas/ediciones; nil => no-op.
	Publisher herd.Publisher

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	Farm        herd.FarmInfo
	Rules       []herd.Rule
	CORSOrigins []string
}

// App expone los services para que cmd (seed/evaluate) reuse el mismo wiring.
type App struct {
	Handler http.Handler
	Cows    *cows.Service
	Herd    *herd.Service
	Users   *users.Service
}

func NewRouter(opts Options) http.Handler {
	return New(opts).Handler
}

func New(opts Options) *App {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(middleware.Recovery(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins(opts.CORSOrigins),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.DebugUserHeader},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	var (
		cowRepo  cows.Repository
		userRepo users.Repository
	)
	if opts.DB != nil {
		cowRepo = pg.NewCowsRepo(opts.DB)
		userRepo = pg.NewUsersRepo(opts.DB)
	} else {
		cowRepo = mem.NewCowRepo()
		userRepo = mem.NewUserRepo()
	}

	tokens := opts.Tokens
	if tokens == nil {
		tokens = devTokens{}
	}

	// Services por módulo
	cowsSvc := cows.NewService(cowRepo)
	herdSvc := herd.NewService(cowsSvc, herd.Options{
		Farm:      opts.Farm,
		Rules:     opts.Rules,
		Publisher: opts.Publisher,
		Logger:    log,
	})
	usersSvc := users.NewService(userRepo, tokens, opts.Identity)

	// Rutas por módulo
	r.Route("/api", func(api chi.Router) {
		users.RegisterRoutes(api, usersSvc)
		cows.RegisterRoutes(api, cowsSvc, herdSvc)
		herd.RegisterRoutes(api, herdSvc)
	})

	return &App{Handler: r, Cows: cowsSvc, Herd: herdSvc, Users: usersSvc}
}

func corsOrigins(in []string) []string {
	if len(in) == 0 {
		return []string{"*"}
	}
	return in
}

// devTokens: sin JWT_SECRET el "token" es el user id, que el front
// reenvía como X-Debug-User-ID.
type devTokens struct{}

func (devTokens) Issue(userID, _ string) (string, error) { return userID, nil }
