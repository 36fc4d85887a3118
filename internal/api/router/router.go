package router

import (
	"net/http"

	m "github.com/RoyceAzure/lab/storefront/internal/api/middleware"
	"github.com/RoyceAzure/lab/storefront/internal/api/handler"
	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/ratelimit"
	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Server 路由需要的 handler 與 middleware 依賴
type Server struct {
	CatalogHandler *handler.CatalogHandler
	CartHandler    *handler.CartHandler
	OrderHandler   *handler.OrderHandler
	AuthHandler    *handler.AuthHandler
	AdminHandler   *handler.AdminHandler
	// 使用雲端圖片儲存時為 nil, 不掛 /uploads
	UploadHandler *handler.UploadHandler

	SessionService service.ISessionService
	UserService    service.IUserService
	Limiter        ratelimit.ILimiter
	Cookie         m.SessionCookieConfig
}

func SetupRouter(server *Server, logger *zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// 全局中間件
	r.Use(m.RequestIdMiddleware)
	r.Use(middleware.RealIP)
	r.Use(m.LoggerMiddleware(logger))
	r.Use(m.SessionMiddleware(server.SessionService, server.Cookie))
	r.Use(m.CurrentUserMiddleware(server.UserService))

	// 商品瀏覽
	r.Get("/", server.CatalogHandler.Home)
	r.Get("/products/{id}", server.CatalogHandler.ProductDetail)

	// 購物車, 匿名可用
	r.Route("/cart", func(r chi.Router) {
		r.Get("/", server.CartHandler.ViewCart)
		r.Post("/add/{id}", server.CartHandler.AddToCart)
		r.Post("/update", server.CartHandler.UpdateCart)
	})

	// 帳號
	r.Get("/login", server.AuthHandler.LoginPage)
	r.Get("/register", server.AuthHandler.RegisterPage)
	r.Group(func(r chi.Router) {
		if server.Limiter != nil {
			r.Use(m.RateLimitMiddleware(server.Limiter))
		}
		r.Post("/login", server.AuthHandler.Login)
		r.Post("/register", server.AuthHandler.Register)
	})

	// 需登入
	r.Group(func(r chi.Router) {
		r.Use(m.AuthMiddleware)
		r.Post("/logout", server.AuthHandler.Logout)
		r.Post("/checkout", server.OrderHandler.Checkout)
		r.Get("/orders", server.OrderHandler.Orders)
		r.Get("/orders/{id}", server.OrderHandler.OrderDetail)
	})

	// 後台
	r.Route("/admin", func(r chi.Router) {
		r.Use(m.AdminMiddleware(server.SessionService))
		r.Get("/products", server.AdminHandler.Products)
		r.Post("/products", server.AdminHandler.CreateProduct)
		r.Get("/products/{id}", server.AdminHandler.EditProduct)
		r.Post("/products/{id}", server.AdminHandler.UpdateProduct)
		r.Get("/orders/export", server.AdminHandler.ExportOrders)
	})

	if server.UploadHandler != nil {
		r.Get(constants.UploadRoute+"{name}", server.UploadHandler.Serve)
	}

	// 在設置完所有路由後打印路由樹
	err := chi.Walk(r, func(method string, route string, handler http.Handler, middlewares ...func(http.Handler) http.Handler) error {
		logger.Debug().Str("method", method).Str("route", route).Msg("route registered")
		return nil
	})
	if err != nil {
		logger.Warn().Err(err).Msg("failed to walk routes")
	}
	return r
}
