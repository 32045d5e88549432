package main

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/codenames-live/go-server/internal/httpserver"
	"github.com/codenames-live/go-server/internal/hub"
	"github.com/codenames-live/go-server/internal/session"
	"github.com/codenames-live/go-server/internal/store"
	"github.com/codenames-live/go-server/internal/words"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	if err := words.Init(); err != nil {
		log.Fatal().Err(err).Msg("failed to load word lists")
	}
	log.Info().Strs("languages", words.Languages()).Msg("word lists loaded")

	// DB_PATH="" runs fully in memory (useful for local hacking).
	var games store.GameStore
	if dsn := dbPath(); dsn != "" {
		db, err := openDB(dsn)
		if err != nil {
			log.Fatal().Err(err).Msg("open database")
		}
		defer db.Close()
		if err := migrate(db); err != nil {
			log.Fatal().Err(err).Msg("migrate database")
		}
		games = store.NewSQLiteStore(db)
	} else {
		games = store.NewMemoryStore()
	}

	h := hub.New(log.With().Str("component", "hub").Logger())
	svc := session.New(session.Config{
		Games:       games,
		Words:       words.NewCatalog(),
		Broadcaster: h,
		Registry:    h,
		Logger:      log.With().Str("component", "session").Logger(),
		BoardWidth:  getEnvInt("BOARD_WIDTH", 5),
		BoardHeight: getEnvInt("BOARD_HEIGHT", 5),
	})
	h.SetHandler(svc.HandleMessage)

	srv := httpserver.New(svc, h)
	port := getEnv("PORT", "5175")
	log.Info().Str("port", port).Msg("starting go-server")
	if err := srv.Start(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// dbPath resolves the database location. Unset falls back to the default
// file; explicitly setting DB_PATH="" selects the in-memory store.
func dbPath() string {
	if v, ok := os.LookupEnv("DB_PATH"); ok {
		return v
	}
	return "./data/games.db"
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getEnvInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
