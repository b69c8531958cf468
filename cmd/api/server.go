package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	"news-site/internal/common/pagination"
	"news-site/internal/config"
	hhttp "news-site/internal/handler/http"
	harticle "news-site/internal/handler/http/article"
	"news-site/internal/handler/http/middleware"
	"news-site/internal/handler/http/pathutil"
	"news-site/internal/handler/http/requestid"
	"news-site/internal/handler/http/site"
	"news-site/internal/infra/storage"
	"news-site/internal/observability/tracing"
	"news-site/internal/resilience/circuitbreaker"
	artUC "news-site/internal/usecase/article"
	pkgconfig "news-site/pkg/config"
	"news-site/pkg/security/csp"
)

// maxAdminBody allows a full image upload plus form fields.
const maxAdminBody = harticle.MaxUploadSize + 1<<20

// setupPublicServer builds the public site handler with its middleware chain.
func setupPublicServer(logger *slog.Logger, cfg appConfig, svc *artUC.Service, images *storage.LocalStorage, siteCfg *config.SiteConfig, breaker *circuitbreaker.DBCircuitBreaker) (http.Handler, error) {
	pages, err := site.New(svc, images, siteCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("init site handler: %w", err)
	}

	mux := http.NewServeMux()
	pages.Register(mux)
	// MEDIA_URL が外部 URL の場合は配信しない
	if prefix := cfg.MediaURL; strings.HasPrefix(prefix, "/") {
		if !strings.HasSuffix(prefix, "/") {
			prefix += "/"
		}
		mux.Handle("GET "+prefix, site.MediaHandler(images.Root(), prefix))
	}
	registerProbes(mux, cfg, breaker, nil)

	cspCfg := pkgconfig.LoadCSPConfig()
	if !cspCfg.Enabled {
		logger.Warn("CSP is disabled")
	}

	// 外側から順に適用される
	return hhttp.Chain(mux,
		requestid.Middleware,
		hhttp.Recover(logger),
		tracing.Middleware(pathutil.NormalizePath),
		hhttp.Logging(logger),
		hhttp.MetricsMiddleware,
		hhttp.InputValidation(),
		hhttp.LimitRequestBody(1<<20),
		middleware.SecurityHeaders(cspCfg, csp.SitePolicy(), nil),
		hhttp.Timeout(cfg.RequestTimeout),
	), nil
}

// adminServer is the admin handler and the limiter whose cleanup must run alongside it.
type adminServer struct {
	Handler http.Handler
	Limiter *middleware.IPRateLimiter
}

// setupAdminServer builds the admin API, metrics and swagger handler.
func setupAdminServer(logger *slog.Logger, cfg appConfig, svc *artUC.Service, images *storage.LocalStorage, paginationCfg pagination.Config, breaker *circuitbreaker.DBCircuitBreaker) (*adminServer, error) {
	rateCfg, err := pkgconfig.LoadRateLimitConfig()
	if err != nil {
		return nil, fmt.Errorf("load rate limit config: %w", err)
	}
	proxies, err := middleware.NewTrustedProxyConfig(rateCfg)
	if err != nil {
		return nil, fmt.Errorf("load trusted proxies: %w", err)
	}
	limiter := middleware.NewIPRateLimiter(rateCfg, middleware.NewIPExtractor(proxies))
	logger.Info("admin rate limit configured",
		slog.Bool("enabled", rateCfg.Enabled),
		slog.Int("requests_per_second", rateCfg.RequestsPerSecond),
		slog.Int("burst", rateCfg.Burst),
		slog.Bool("trust_proxy", rateCfg.TrustProxy))

	mux := http.NewServeMux()
	harticle.Register(mux, harticle.NewHandler(svc, images, paginationCfg, logger))
	mux.Handle("GET /metrics", hhttp.MetricsHandler())
	mux.Handle("GET /swagger/", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	registerProbes(mux, cfg, breaker, limiter)

	cspCfg := pkgconfig.LoadCSPConfig()
	handler := hhttp.Chain(mux,
		requestid.Middleware,
		hhttp.Recover(logger),
		tracing.Middleware(pathutil.NormalizePath),
		hhttp.Logging(logger),
		hhttp.MetricsMiddleware,
		hhttp.InputValidation(),
		limiter.Middleware(),
		hhttp.LimitRequestBody(maxAdminBody),
		middleware.SecurityHeaders(cspCfg, csp.StrictPolicy(), map[string]*csp.CSPBuilder{
			"/swagger/": csp.SwaggerUIPolicy(),
		}),
		hhttp.Timeout(cfg.RequestTimeout),
	)
	return &adminServer{Handler: handler, Limiter: limiter}, nil
}

func registerProbes(mux *http.ServeMux, cfg appConfig, breaker *circuitbreaker.DBCircuitBreaker, limiter *middleware.IPRateLimiter) {
	health := &hhttp.HealthHandler{DB: breaker, Version: cfg.Version, Breaker: breaker}
	if limiter != nil {
		health.RateLimiter = limiter
	}
	mux.Handle("GET /health", health)
	mux.Handle("GET /ready", &hhttp.ReadyHandler{DB: breaker})
	mux.Handle("GET /live", &hhttp.LiveHandler{})
}
