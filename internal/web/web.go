package web

import (
	"net/http"

	catalogusecase "nft-drop/internal/catalog/usecase"
	dropusecase "nft-drop/internal/drop/usecase"
	"nft-drop/internal/shared/logger"
	webhttp "nft-drop/internal/web/adapter/http"
	"nft-drop/internal/web/assets"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/template/html/v2"
)

// WebModule serves the server-rendered pages and their static assets
type WebModule struct {
	handler *webhttp.PageHandler
	engine  *html.Engine
	log     logger.Logger
}

// NewWebModule creates the web module. health may be nil.
func NewWebModule(
	catalog catalogusecase.CatalogUsecaseInterface,
	drops dropusecase.DropUsecaseInterface,
	health webhttp.HealthChecker,
	log logger.Logger,
) *WebModule {
	return &WebModule{
		handler: webhttp.NewPageHandler(catalog, drops, health, log),
		engine:  NewEngine(),
		log:     log,
	}
}

// NewEngine returns the template engine over the embedded views
func NewEngine() *html.Engine {
	return html.NewFileSystem(http.FS(assets.Views()), ".html")
}

// Views returns the engine for fiber.Config.Views
func (m *WebModule) Views() fiber.Views {
	return m.engine
}

// ErrorHandler returns the application error handler for fiber.Config.ErrorHandler
func (m *WebModule) ErrorHandler() fiber.ErrorHandler {
	return webhttp.NewErrorHandler(m.log)
}

// RegisterRoutes mounts the static assets and the pages
func (m *WebModule) RegisterRoutes(router fiber.Router, identify fiber.Handler) {
	router.Use("/static", filesystem.New(filesystem.Config{
		Root:   http.FS(assets.Static()),
		MaxAge: 3600,
	}))
	m.handler.SetupPageRoutes(router, identify)
}
