package app

import (
	"log"
	"time"

	"github.com/joho/godotenv"

	"vnsentiment/internal/api"
	"vnsentiment/internal/config"
	"vnsentiment/internal/pipeline"
	"vnsentiment/internal/scorer"
	sqlitestore "vnsentiment/internal/storage/sqlite"
	"vnsentiment/internal/textproc"
)

func Main() {
	_ = godotenv.Load()
	cfg := config.LoadConfig()
	log.Printf(
		"Config loaded. Scorer=%s DB=%s Listen=%s PageSize=%d RetentionDays=%d RequestTimeout=%ds",
		cfg.ScorerProvider, cfg.DBPath, cfg.ListenAddr, cfg.PageSize,
		cfg.RetentionDays, cfg.RequestTimeoutSeconds,
	)

	db, err := sqlitestore.InitDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to init database: %v", err)
	}
	log.Printf("Database initialized at %s", cfg.DBPath)
	defer db.Close()

	slang, err := textproc.LoadSlangDict(cfg.SlangDictPath)
	if err != nil {
		log.Fatalf("Failed to load slang dictionary: %v", err)
	}
	seg, err := textproc.NewLexiconSegmenter(cfg.LexiconPath)
	if err != nil {
		log.Fatalf("Failed to load segmentation lexicon: %v", err)
	}
	sc, err := scorer.New(cfg)
	if err != nil {
		log.Fatalf("Failed to init scorer: %v", err)
	}

	pipe := &pipeline.Pipeline{
		Slang:     slang,
		Segmenter: seg,
		Scorer:    sc,
		DB:        db,
	}

	StartRetentionScheduler(cfg, db)

	srv := api.New(db, pipe, cfg.ListenAddr,
		cfg.PageSize, time.Duration(cfg.RequestTimeoutSeconds)*time.Second)

	log.Printf("Starting Vietnamese sentiment service on %s", cfg.ListenAddr)
	if err := srv.Run(); err != nil {
		log.Fatalf("HTTP server error: %v", err)
	}
}
