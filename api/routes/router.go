package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shopmartlabs/shopmart-backend/api/controllers"
	"github.com/shopmartlabs/shopmart-backend/api/middleware"
	"github.com/shopmartlabs/shopmart-backend/internal/accounts"
	cartsvc "github.com/shopmartlabs/shopmart-backend/internal/cart"
	"github.com/shopmartlabs/shopmart-backend/internal/catalog"
	"github.com/shopmartlabs/shopmart-backend/pkg/config"
	"github.com/shopmartlabs/shopmart-backend/pkg/logger"
	"github.com/shopmartlabs/shopmart-backend/pkg/mongodb"
	"github.com/shopmartlabs/shopmart-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	mongoPinger mongodb.Pinger,
	redisClient *redis.Client,
	accountsService accounts.Service,
	catalogService catalog.Service,
	cartService cartsvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.ExtraOrigins),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	signupPolicy := middleware.NewAuthRateLimitPolicy(
		"signup",
		cfg.AuthRateLimit.SignupWindow,
		cfg.AuthRateLimit.SignupIPLimit,
		cfg.AuthRateLimit.SignupEmailLimit,
	)

	readiness := map[string]controllers.Pinger{}
	if mongoPinger != nil {
		readiness["mongodb"] = mongoPinger
	}
	if redisClient != nil {
		readiness["redis"] = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})

	r.Route("/api", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(signupPolicy, redisClient, logg)).
			Post("/UserSignup", controllers.Signup(accountsService, accounts.KindUser, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).
			Post("/UserLogin", controllers.Login(accountsService, accounts.KindUser, logg))
		r.With(middleware.AuthRateLimit(signupPolicy, redisClient, logg)).
			Post("/AdminSignup", controllers.Signup(accountsService, accounts.KindAdmin, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).
			Post("/AdminLogin", controllers.Login(accountsService, accounts.KindAdmin, logg))

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.CreateProduct(catalogService, logg))
			r.Get("/", controllers.ListProducts(catalogService, logg))
			r.Get("/{id}", controllers.GetProduct(catalogService, logg))
			r.Put("/{id}", controllers.UpdateProduct(catalogService, logg))
			r.Delete("/{id}", controllers.DeleteProduct(catalogService, logg))
			r.Post("/{id}/reviews", controllers.AddProductReview(catalogService, logg))
			r.Post("/{id}/stock", controllers.AdjustProductStock(catalogService, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Post("/", controllers.AddToCart(cartService, logg))
			r.Get("/{userId}", controllers.GetCart(cartService, logg))
			r.Put("/update", controllers.UpdateCartItem(cartService, logg))
			// Some storefront clients cannot send DELETE bodies, so
			// remove answers POST as well.
			r.Delete("/remove", controllers.RemoveFromCart(cartService, logg))
			r.Post("/remove", controllers.RemoveFromCart(cartService, logg))
			r.Delete("/clear", controllers.ClearCart(cartService, logg))
		})
	})

	return r
}
