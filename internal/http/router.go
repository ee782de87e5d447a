package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"admithub/internal/domain/user"
	"admithub/internal/http/handlers"
	"admithub/internal/http/metrics"
	httpmw "admithub/internal/http/middleware"
)

type RouterDependencies struct {
	CFAHandler       *handlers.CFAHandler
	ApplicantHandler *handlers.ApplicantHandler
	AuthMiddleware   *httpmw.AuthMiddleware
	Metrics          *metrics.Collector
	RequestTimeout   time.Duration
}

type Router struct {
	deps RouterDependencies
}

const maxBodyBytes = 1 << 20

func NewRouter(deps RouterDependencies) http.Handler {
	return &Router{deps: deps}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	handler := httpmw.Chain(r.baseHandler(), httpmw.RequestID, httpmw.Logging, httpmw.BodyLimit(maxBodyBytes), httpmw.Recover, httpmw.Metrics(r.deps.Metrics), httpmw.Timeout(r.deps.RequestTimeout))
	handler.ServeHTTP(w, req)
}

func (r *Router) baseHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		path := req.URL.Path

		switch {
		case req.Method == http.MethodGet && path == "/health":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		case req.Method == http.MethodGet && path == "/metrics":
			promhttp.HandlerFor(r.deps.Metrics.Registry, promhttp.HandlerOpts{}).ServeHTTP(w, req)
			return
		}

		if strings.HasPrefix(path, "/cfas") || strings.HasPrefix(path, "/applicants") || strings.HasPrefix(path, "/programmes") {
			protected := r.deps.AuthMiddleware.Authenticate(httpmw.RequireRole(user.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				r.handleProtected(w, req)
			})))
			protected.ServeHTTP(w, req)
			return
		}

		http.NotFound(w, req)
	})
}

func (r *Router) handleProtected(w http.ResponseWriter, req *http.Request) {
	path := req.URL.Path

	switch {
	case req.Method == http.MethodPost && path == "/cfas":
		r.deps.CFAHandler.Create(w, req)
		return
	case req.Method == http.MethodGet && strings.HasSuffix(path, "/cfas") && strings.HasPrefix(path, "/programmes/"):
		r.deps.CFAHandler.ListByProgramme(w, req)
		return
	case req.Method == http.MethodPost && strings.HasPrefix(path, "/cfas/") && strings.HasSuffix(path, "/activate"):
		r.deps.CFAHandler.Activate(w, req)
		return
	case req.Method == http.MethodPost && strings.HasPrefix(path, "/cfas/") && strings.HasSuffix(path, "/suspend"):
		r.deps.CFAHandler.Suspend(w, req)
		return
	case req.Method == http.MethodPost && strings.HasPrefix(path, "/cfas/") && strings.HasSuffix(path, "/close"):
		r.deps.CFAHandler.Close(w, req)
		return
	case req.Method == http.MethodPost && strings.HasPrefix(path, "/cfas/") && strings.HasSuffix(path, "/extend"):
		r.deps.CFAHandler.Extend(w, req)
		return
	case req.Method == http.MethodGet && strings.HasPrefix(path, "/cfas/") && strings.HasSuffix(path, "/stages/stats"):
		r.deps.CFAHandler.StageStats(w, req)
		return
	case req.Method == http.MethodGet && strings.HasPrefix(path, "/cfas/") && strings.HasSuffix(path, "/stages"):
		r.deps.CFAHandler.Stages(w, req)
		return
	case req.Method == http.MethodGet && strings.HasPrefix(path, "/cfas/") && strings.HasSuffix(path, "/applicants"):
		r.deps.ApplicantHandler.ListByActivity(w, req)
		return
	case req.Method == http.MethodPatch && strings.HasPrefix(path, "/cfas/"):
		r.deps.CFAHandler.Update(w, req)
		return
	case req.Method == http.MethodGet && strings.HasPrefix(path, "/cfas/"):
		r.deps.CFAHandler.Get(w, req)
		return
	case req.Method == http.MethodPost && path == "/applicants/bulk/stage":
		r.deps.ApplicantHandler.BulkMove(w, req)
		return
	case req.Method == http.MethodPost && path == "/applicants/bulk/decision":
		r.deps.ApplicantHandler.BulkDecide(w, req)
		return
	case req.Method == http.MethodPatch && strings.HasPrefix(path, "/applicants/") && strings.HasSuffix(path, "/stage"):
		r.deps.ApplicantHandler.Move(w, req)
		return
	case req.Method == http.MethodPatch && strings.HasPrefix(path, "/applicants/") && strings.HasSuffix(path, "/decision"):
		r.deps.ApplicantHandler.Decide(w, req)
		return
	case req.Method == http.MethodGet && strings.HasPrefix(path, "/applicants/") && strings.HasSuffix(path, "/progress"):
		r.deps.ApplicantHandler.Progress(w, req)
		return
	}

	http.NotFound(w, req)
}
