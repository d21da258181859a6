package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"coinscious/internal/platform/metrics"
	"coinscious/internal/platform/middleware"
)

// RouterConfig carries the cross-cutting pieces the router wires around the
// handlers.
type RouterConfig struct {
	TokenValidator middleware.TokenValidator
	// ExportTokenHash is the bcrypt hash gating GET /audit/events. Empty
	// means the export endpoint refuses every call.
	ExportTokenHash string
	HTTPMetrics     *metrics.HTTP
}

// NewRouter assembles the full route tree. Reads that feed operator
// consoles are open; every mutating route requires a wallet bearer token,
// and the audit export rides its own shared-secret gate.
func NewRouter(h *Handler, cfg RouterConfig) chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestTime)
	r.Use(middleware.RequestID)
	if cfg.HTTPMetrics != nil {
		r.Use(cfg.HTTPMetrics.Middleware)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", metrics.Handler())

	r.Get("/wallets/{address}", h.walletStatus)
	r.Post("/compliance/check", h.check)
	r.Get("/compliance/reasons", h.reasons)
	r.Get("/control/state", h.controlState)

	r.Route("/ledger", func(r chi.Router) {
		r.Get("/supply", h.totalSupply)
		r.Get("/snapshot", h.snapshot)
		r.Route("/{partition}", func(r chi.Router) {
			r.Get("/supply", h.partitionSupply)
			r.Get("/balances/{address}", h.balance)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth(cfg.TokenValidator, h.logger))
				r.Post("/issue", h.issue)
				r.Post("/redeem", h.redeem)
				r.Post("/transfer", h.transfer)
				r.Post("/force-transfer", h.forceTransfer)
			})
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(cfg.TokenValidator, h.logger))

		r.Route("/oracle", func(r chi.Router) {
			r.Post("/claims", h.setClaims)
			r.Post("/revoke", h.revoke)
			r.Post("/whitelist", h.whitelist)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/pause", h.pause)
			r.Post("/unpause", h.unpause)
			r.Post("/freeze", h.freeze)
			r.Post("/unfreeze", h.unfreeze)
			r.Post("/oracle", h.setOracle)
			r.Post("/controller", h.replaceController)
		})

		r.Route("/controller", func(r chi.Router) {
			r.Post("/propose", h.proposeController)
			r.Post("/accept", h.acceptController)
		})
	})

	r.With(middleware.RequireExportToken(cfg.ExportTokenHash, h.logger)).
		Get("/audit/events", h.auditEvents)

	return r
}
