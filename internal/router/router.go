package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"case-portal/internal/adapters/auth/localjwt"
	"case-portal/internal/adapters/gateway"
	mem "case-portal/internal/adapters/storage/memory"
	"case-portal/internal/domain/account"
	"case-portal/internal/domain/admin"
	"case-portal/internal/domain/cases"
	"case-portal/internal/domain/claimant"
	"case-portal/internal/domain/discussion"
	"case-portal/internal/domain/documents"
	"case-portal/internal/domain/gp"
	"case-portal/internal/domain/qa"
	"case-portal/internal/domain/session"
	"case-portal/internal/middleware"
	"case-portal/internal/platform/logger"
	"case-portal/internal/ports/auth"
	"case-portal/internal/ports/backend"
)

type Options struct {
	Gateway *gateway.Client
	Log     logger.Logger
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics())
	if opts.Log != nil {
		r.Use(middleware.Logging(opts.Log))
	}

	sess := session.NewResolver(localjwt.NewResolver())
	sessions := backend.SessionFunc(func(token string) backend.API {
		return opts.Gateway.ForToken(token)
	})

	// Services compartidos
	casesSvc := cases.NewService()
	docsSvc := documents.NewService()
	discSvc := discussion.NewService()

	// Un store de flujo por rol
	claimantSvc := claimant.NewService(mem.NewFlowStore[claimant.State](), casesSvc, docsSvc, discSvc)
	adminSvc := admin.NewService(mem.NewFlowStore[admin.State](), casesSvc, docsSvc)
	gpSvc := gp.NewService(mem.NewFlowStore[gp.State](), casesSvc, docsSvc, discSvc)
	qaSvc := qa.NewService(mem.NewFlowStore[qa.State](), casesSvc, docsSvc)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	account.RegisterPublicRoutes(r, opts.Gateway)

	// Cualquier rol autenticado
	r.Group(func(g chi.Router) {
		g.Use(middleware.Admission(sess, auth.RoleClaimant, auth.RoleGP, auth.RoleQA, auth.RoleAdmin))
		account.RegisterSessionRoutes(g, sessions)
	})

	// Rutas por rol
	r.Group(func(g chi.Router) {
		g.Use(middleware.Admission(sess, auth.RoleClaimant))
		claimant.RegisterRoutes(g, claimantSvc, sessions)
	})
	r.Group(func(g chi.Router) {
		g.Use(middleware.Admission(sess, auth.RoleAdmin))
		admin.RegisterRoutes(g, adminSvc, sessions)
	})
	r.Group(func(g chi.Router) {
		g.Use(middleware.Admission(sess, auth.RoleGP))
		gp.RegisterRoutes(g, gpSvc, sessions)
	})
	r.Group(func(g chi.Router) {
		g.Use(middleware.Admission(sess, auth.RoleQA))
		qa.RegisterRoutes(g, qaSvc, sessions)
	})

	return r
}
