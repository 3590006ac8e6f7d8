// Package main provides the adventure binary: it loads a world map file,
// anchors a player session at the starting room, and drives the game loop
// over stdin/stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/adventure/internal/config"
	"github.com/cory-johannsen/adventure/internal/frontend/stream"
	"github.com/cory-johannsen/adventure/internal/game/command"
	"github.com/cory-johannsen/adventure/internal/game/session"
	"github.com/cory-johannsen/adventure/internal/game/world"
	"github.com/cory-johannsen/adventure/internal/observability"
	"github.com/cory-johannsen/adventure/internal/scripting"
	"github.com/cory-johannsen/adventure/internal/server"
	"github.com/cory-johannsen/adventure/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file (optional)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <world_map_file>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	mapPath := flag.Arg(0)

	var cfg config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	// Load world
	w, err := world.LoadFile(mapPath)
	if err != nil {
		logger.Fatal("loading world", zap.Error(err))
	}
	logger.Info("world loaded",
		zap.String("path", mapPath),
		zap.Int("rooms", w.RoomCount()),
		zap.Duration("elapsed", time.Since(start)),
	)

	opts := session.Options{TranscriptCapacity: cfg.Transcript.Capacity}

	// Initialise room scripting
	var scriptMgr *scripting.Manager
	if cfg.Scripts.Dir != "" {
		scriptMgr = scripting.NewManager(logger, cfg.Scripts.InstructionLimit)
		scriptMgr.QueryRoom = func(roomID int) (string, bool) {
			room, ok := w.FindRoom(roomID)
			if !ok {
				return "", false
			}
			return room.Description, true
		}
		if err := scriptMgr.LoadDir(cfg.Scripts.Dir); err != nil {
			logger.Fatal("loading room scripts", zap.Error(err))
		}
		defer scriptMgr.Close()
		logger.Info("room scripts loaded",
			zap.String("dir", cfg.Scripts.Dir),
			zap.Int("rooms", scriptMgr.ScriptedRooms()),
		)
		opts.Hooks = scriptMgr
	}

	// Connect to PostgreSQL for save-game persistence
	var pool *postgres.Pool
	if cfg.Database.Enabled {
		dbStart := time.Now()
		pool, err = postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		logger.Info("database connected",
			zap.String("host", cfg.Database.Host),
			zap.Duration("elapsed", time.Since(dbStart)),
		)
		opts.Saves = postgres.NewSaveRepository(pool.DB())
	}

	presenter := stream.New(os.Stdin, os.Stdout)
	sess, err := session.New(w, command.DefaultRegistry(), presenter, logger, opts)
	if err != nil {
		logger.Fatal("creating session", zap.Error(err))
	}

	// Wire lifecycle
	lifecycle := server.NewLifecycle(logger)

	lifecycle.Add("session", &server.FuncService{
		StartFn: func() error {
			return sess.Run(ctx)
		},
		StopFn: sess.Terminate,
	})

	if pool != nil {
		healthStop := make(chan struct{})
		lifecycle.Add("postgres", &server.FuncService{
			StartFn: func() error {
				ticker := time.NewTicker(30 * time.Second)
				defer ticker.Stop()
				for {
					select {
					case <-ticker.C:
						if err := pool.Health(ctx, 5*time.Second); err != nil {
							logger.Warn("database health check failed", zap.Error(err))
						}
					case <-healthStop:
						return nil
					}
				}
			},
			StopFn: func() {
				close(healthStop)
				pool.Close()
			},
		})
	}

	logger.Info("game initialized",
		zap.String("session", sess.UID()),
		zap.Duration("startup", time.Since(start)),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("session error", zap.Error(err))
	}

	fmt.Println("Thank you for playing!")
}
