package router

import (
	"net/http"

	"product-api/internal/handler"
	"product-api/internal/middleware"
	"product-api/internal/validator"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Options holds the settings the router needs beyond its handlers.
type Options struct {
	APIKey         string
	JWTSecret      string
	AllowedOrigins []string
}

// New creates a new HTTP router with all routes and middleware configured.
func New(
	productHandler *handler.ProductHandler,
	healthHandler *handler.HealthHandler,
	translator *handler.ErrorTranslator,
	opts Options,
	logger zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Applied in order: request id -> real ip -> recovery -> logging -> cors
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery(translator.Translate, logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(opts.AllowedOrigins))

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	r.Get("/", handler.Welcome)
	r.Get("/health", healthHandler.Check)

	auth := middleware.Authenticate(opts.APIKey, opts.JWTSecret, translator.Translate, logger)
	validateProduct := middleware.ValidateBody(validator.ProductRules, translator.Translate)
	validatePrice := middleware.ValidateBody(validator.PriceRules, translator.Translate)

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", translator.Catch(productHandler.List))
		r.Get("/stats", translator.Catch(productHandler.Stats))
		r.With(auth, validateProduct).Post("/", translator.Catch(productHandler.Create))

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", translator.Catch(productHandler.GetByID))
			r.With(auth, validateProduct).Put("/", translator.Catch(productHandler.Replace))
			r.With(auth, validatePrice).Patch("/", translator.Catch(productHandler.UpdatePrice))
			r.With(auth).Delete("/", translator.Catch(productHandler.Delete))
		})
	})

	return r
}
