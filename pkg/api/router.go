package routing

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

type Options struct {
	// Host is the public server URL listed in the OpenAPI document.
	Host        string
	Description string
	// JWTSecret enables bearer authentication on comment submission.
	JWTSecret string
}

// NewRouter builds the chi router serving the comment API and its docs.
func NewRouter(h *Handlers, opts Options) chi.Router {
	router := chi.NewRouter()

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "HEAD", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Server"},
		AllowCredentials: false,
	}))

	// Unsupported methods are answered as bad requests
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unsupported method", http.StatusBadRequest)
	})

	config := huma.DefaultConfig("Gallery API", "1.0.0")
	config.OpenAPI.Info.Description = opts.Description
	config.OpenAPI.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearerAuth": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "JWT",
		},
	}
	config.DocsPath = "/"
	if opts.Host != "" {
		config.Servers = []*huma.Server{
			{URL: opts.Host},
		}
	}
	api := humachi.New(router, config)
	api.UseMiddleware(authMiddleware(api, opts.JWTSecret))

	Setup(api, h)
	return router
}
