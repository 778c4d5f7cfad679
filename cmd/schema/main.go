package main

import (
	"encoding/json"
	"log/slog"
	"os"

	"github.com/spacesedan/sentiscope/internal/logging"
	"github.com/spacesedan/sentiscope/internal/sentiment"
)

func main() {
	logging.InitLogger(slog.LevelWarn)

	schema, err := sentiment.Schema()
	if err != nil {
		slog.Error("[Schema] Failed to generate schema", slog.String("error", err.Error()))
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(schema); err != nil {
		slog.Error("[Schema] Failed to write schema", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
