package router

import (
	"net/http"

	"badgehub/internal/config"
	"badgehub/internal/handlers/api/v1/badges"
	"badgehub/internal/handlers/api/v1/media"
	"badgehub/internal/handlers/api/v1/wallet"
	"badgehub/internal/middleware"
	"badgehub/internal/monitoring"
	"badgehub/internal/response"
	"badgehub/internal/services"

	_ "badgehub/internal/docs" // registers swagger docs

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Dependencies are the collaborators the HTTP surface is built from.
type Dependencies struct {
	Services        *services.ServiceCollection
	Notifications   http.Handler
	Dashboard       *monitoring.Dashboard
	ResponseBuilder *response.Builder
	Security        config.SecurityConfig
	Logger          *zap.Logger
}

// SetupRouter configures every route and wraps them in the middleware chain.
func SetupRouter(deps Dependencies) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	builder := deps.ResponseBuilder
	if builder == nil {
		builder = response.NewBuilder(response.DefaultConfig(), logger)
	}
	sc := deps.Services

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		builder.WriteError(w, req, services.NewNotFoundError("route not found"))
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		builder.WriteJSON(w, req, builder.Error(req.Context(), &services.ServiceError{
			Type:    services.ErrTypeValidation,
			Message: "method not allowed",
		}), http.StatusMethodNotAllowed)
	})

	r.HandleFunc("/health", healthHandler(sc, builder)).Methods(http.MethodGet)
	r.PathPrefix("/swagger/").Handler(middleware.SwaggerHandler(nil))
	if deps.Notifications != nil {
		r.Handle("/ws", deps.Notifications).Methods(http.MethodGet)
	}
	if deps.Dashboard != nil {
		r.HandleFunc("/internal/dashboard", deps.Dashboard.Handler(builder)).Methods(http.MethodGet)
	}

	addAPIv1Routes(r.PathPrefix("/api/v1").Subrouter(), sc, builder, logger)

	var handler http.Handler = r
	handler = response.Middleware(builder)(handler)
	handler = middleware.CORS(corsConfig(deps.Security), logger)(handler)
	handler = middleware.SecureHeaders(handler)
	handler = middleware.StructuredLogging(logger)(handler)
	handler = middleware.Recovery(logger)(handler)
	handler = middleware.RequestID(logger)(handler)

	logger.Info("Router setup completed",
		zap.Bool("notifications", deps.Notifications != nil),
		zap.Bool("dashboard", deps.Dashboard != nil),
		zap.String("swagger_ui", "/swagger/index.html"),
	)
	return handler
}

func addAPIv1Routes(api *mux.Router, sc *services.ServiceCollection, builder *response.Builder, logger *zap.Logger) {
	badgeController := badges.NewBadgeController(sc.BadgeService, sc.WalletService, sc.MediaService, logger, builder)
	walletController := wallet.NewWalletController(sc.WalletService, logger, builder)
	mediaController := media.NewMediaController(sc.MediaService, logger, builder)

	// Badges
	api.HandleFunc("/badges", badgeController.ListBadges).Methods(http.MethodGet)
	api.HandleFunc("/badges", badgeController.CreateBadge).Methods(http.MethodPost)
	api.HandleFunc("/badges/{id}", badgeController.GetBadge).Methods(http.MethodGet)
	api.HandleFunc("/badges/{id}/award", badgeController.AwardBadge).Methods(http.MethodPost)
	api.HandleFunc("/creators/{address}/badges", badgeController.GetCreatorBadges).Methods(http.MethodGet)
	api.HandleFunc("/registry", badgeController.GetRegistry).Methods(http.MethodGet)
	api.HandleFunc("/dashboard", badgeController.GetDashboard).Methods(http.MethodGet)

	// Wallet
	api.HandleFunc("/wallet", walletController.GetSession).Methods(http.MethodGet)
	api.HandleFunc("/wallet/connect", walletController.Connect).Methods(http.MethodPost)
	api.HandleFunc("/wallet/disconnect", walletController.Disconnect).Methods(http.MethodPost)

	// Media
	api.HandleFunc("/media/images", mediaController.UploadImage).Methods(http.MethodPost)

	// Meta
	api.HandleFunc("/meta/categories", badgeController.GetCategories).Methods(http.MethodGet)
	api.HandleFunc("/meta/rarities", badgeController.GetRarities).Methods(http.MethodGet)
	api.HandleFunc("/meta/network", walletController.GetNetwork).Methods(http.MethodGet)
}

func healthHandler(sc *services.ServiceCollection, builder *response.Builder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		health := sc.HealthCheck(r.Context())

		status := http.StatusOK
		if health.Status != "healthy" {
			status = http.StatusServiceUnavailable
		}
		builder.WriteJSON(w, r, builder.Success(r.Context(), health), status)
	}
}

func corsConfig(sec config.SecurityConfig) *middleware.CORSConfig {
	cfg := middleware.DefaultCORSConfig()
	if len(sec.CORSAllowedOrigins) > 0 {
		cfg.AllowedOrigins = sec.CORSAllowedOrigins
	}
	if len(sec.CORSAllowedMethods) > 0 {
		cfg.AllowedMethods = sec.CORSAllowedMethods
	}
	if len(sec.CORSAllowedHeaders) > 0 {
		cfg.AllowedHeaders = sec.CORSAllowedHeaders
	}
	if sec.CORSMaxAge > 0 {
		cfg.MaxAge = sec.CORSMaxAge
	}
	return cfg
}
