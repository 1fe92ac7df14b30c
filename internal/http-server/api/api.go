package api

import (
	"VoiceCart/internal/config"
	"VoiceCart/internal/http-server/handlers/cart"
	"VoiceCart/internal/http-server/handlers/errors"
	"VoiceCart/internal/http-server/handlers/mcp"
	"VoiceCart/internal/http-server/handlers/tools"
	"VoiceCart/internal/http-server/middleware/authenticate"
	"VoiceCart/internal/http-server/middleware/timeout"
	"VoiceCart/internal/lib/sl"
	"VoiceCart/internal/ws"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	log        *slog.Logger
}

type Handler interface {
	authenticate.Authenticate
	cart.Core
	tools.Core
	mcp.Core
}

// NewRouter builds the routes; the live feed authenticates by query token and stays
// outside the bearer middleware.
func NewRouter(log *slog.Logger, handler Handler, hub *ws.Hub) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	router.NotFound(errors.NotFound(log))
	router.MethodNotAllowed(errors.NotAllowed(log))

	if hub != nil {
		router.Get("/ws", ws.ServeWs(hub, handler, log))
	}

	router.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(timeout.Timeout(5))
		v1.Use(render.SetContentType(render.ContentTypeJSON))
		v1.Use(authenticate.New(log, handler))

		v1.Route("/cart", func(r chi.Router) {
			r.Post("/items", cart.AddItem(log, handler))
			r.Post("/items/remove", cart.RemoveItem(log, handler))
			r.Post("/modifiers", cart.AddModifiers(log, handler))
			r.Post("/modifiers/remove", cart.RemoveModifiers(log, handler))
			r.Post("/summary", cart.Summary(log, handler))
			r.Post("/upsell", cart.Upsell(log, handler))
			r.Post("/clear", cart.Clear(log, handler))
		})
		v1.Route("/tools", func(r chi.Router) {
			r.Get("/", tools.List(log, handler))
			r.Post("/call", tools.Call(log, handler))
		})
		v1.Post("/mcp", mcp.Handler(log, handler))
	})

	return router
}

func New(conf *config.Config, log *slog.Logger, handler Handler, hub *ws.Hub) error {

	server := Server{
		conf: conf,
		log:  log.With(sl.Module("api.server")),
	}

	httpLog := slog.NewLogLogger(log.Handler(), slog.LevelError)
	server.httpServer = &http.Server{
		Handler:  NewRouter(log, handler, hub),
		ErrorLog: httpLog,
	}

	serverAddress := fmt.Sprintf("%s:%s", conf.Listen.BindIP, conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	server.log.Info("starting api server", slog.String("address", serverAddress))

	return server.httpServer.Serve(listener)
}
