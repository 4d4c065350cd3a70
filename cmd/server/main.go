package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/bauerDev/oda-server/internal/ai"
	"github.com/bauerDev/oda-server/internal/api"
	"github.com/bauerDev/oda-server/internal/database"
	"github.com/bauerDev/oda-server/internal/session"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	maxUploadSize := os.Getenv("MAX_UPLOAD_SIZE")
	if maxUploadSize == "" {
		maxUploadSize = "10485760"
	}
	maxSize, err := strconv.ParseInt(maxUploadSize, 10, 64)
	if err != nil {
		log.Fatal("Invalid MAX_UPLOAD_SIZE:", err)
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./oda.db"
	}

	db, err := database.NewDB(database.Config{Path: dbPath})
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer db.Close()

	openAIKey := os.Getenv("OPENAI_API_KEY")
	openAIModel := os.Getenv("OPENAI_MODEL")
	if openAIKey == "" {
		slog.Warn("OPENAI_API_KEY not set; recognition endpoints will return 500 until it is configured")
	}

	app := &api.App{
		DB:             db,
		ArtworkRepo:    database.NewArtworkRepository(db),
		UserRepo:       database.NewUserRepository(db),
		CollectionRepo: database.NewCollectionRepository(db),
		Sessions:       session.NewStore(),
		Vision:         ai.NewOpenAIClient(openAIKey, openAIModel),
		OpenAIKey:      openAIKey,
		MaxUploadSize:  maxSize,
	}

	router := api.NewRouter(app)

	slog.Info("server starting", "port", port, "db", dbPath, "max_upload_bytes", maxSize)
	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatal(err)
	}
}
