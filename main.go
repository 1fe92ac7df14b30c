package main

import (
	"VoiceCart/bot"
	"VoiceCart/impl/cart"
	"VoiceCart/impl/core"
	"VoiceCart/internal/config"
	"VoiceCart/internal/database"
	"VoiceCart/internal/http-server/api"
	"VoiceCart/internal/lib/logger"
	"VoiceCart/internal/lib/sl"
	"VoiceCart/internal/service/catalog"
	"VoiceCart/internal/ws"
	"context"
	"flag"
	"log/slog"
	"time"
)

func main() {

	configPath := flag.String("conf", "config.yml", "path to config file")
	logPath := flag.String("log", "/var/log/", "path to log file directory")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	lg := logger.SetupLogger(conf.Env, *logPath)

	// admin alerts
	if conf.Telegram.Enabled {
		tgBot, err := bot.NewTgBot(conf.Telegram.BotName, conf.Telegram.ApiKey, conf.Telegram.AdminId, lg)
		if err != nil {
			lg.Error("failed to initialize telegram bot", sl.Err(err))
		} else {
			lg = logger.SetupTelegramHandler(lg, tgBot, slog.LevelError)
			lg.With(
				slog.String("bot_name", conf.Telegram.BotName),
			).Info("telegram bot initialized")
		}
	}

	lg.Info("starting voicecart", slog.String("config", *configPath), slog.String("env", conf.Env))
	lg.Debug("debug messages enabled")

	handler := core.New(lg)
	handler.SetAuthKey(conf.Listen.ApiKey)

	catalogService := catalog.NewCatalogService(conf, lg)

	var store cart.Store
	db, err := repository.NewMongoClient(conf, lg)
	if err != nil {
		lg.With(
			sl.Err(err),
		).Error("mongo client")
	}
	if db != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err = db.EnsureIndexes(ctx); err != nil {
			lg.With(
				sl.Err(err),
			).Error("mongo indexes")
		}
		cancel()
		store = db
		catalogService.SetRepository(db)
		lg.With(
			slog.String("host", conf.Mongo.Host),
			slog.String("port", conf.Mongo.Port),
			slog.String("user", conf.Mongo.User),
			slog.String("database", conf.Mongo.Database),
		).Info("mongo client initialized")
	} else {
		store = repository.NewMemoryCartStore()
		lg.Warn("mongo disabled, carts are kept in memory")
	}
	if conf.Catalog.BaseURL != "" {
		lg.With(
			slog.String("url", conf.Catalog.BaseURL),
			sl.Secret("client_id", conf.Catalog.ClientID),
		).Info("remote catalog enabled")
	}

	engine := cart.New(store, catalogService, lg)
	engine.SetTTL(conf.CartTTL())
	engine.SetMaxRetries(conf.Cart.MaxRetries)
	handler.SetCartEngine(engine)

	hub := ws.NewHub(lg)
	go hub.Run()
	handler.SetEventPublisher(hub)

	// *** blocking start with http server ***
	err = api.New(conf, lg, handler, hub)
	if err != nil {
		lg.Error("server start", sl.Err(err))
		return
	}
	lg.Error("service stopped")
}
