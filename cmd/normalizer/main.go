// Package main provides the normalizer command-line tool for resolving saved API responses.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"bvapi/internal/config"
	"bvapi/internal/formatter"
	"bvapi/internal/logger"
	"bvapi/internal/models"
	"bvapi/internal/normalizer"
	"bvapi/pkg/attrmap"
)

func main() {
	inputPath := flag.String("input", "", "Path to a raw JSON API response")
	outputPath := flag.String("output", "", "Path to output JSON file (default: stdout)")
	entityType := flag.String("type", "", "Entity type of the response results")
	configFile := flag.String("config", "", "Optional YAML configuration for status filtering")
	flag.Parse()

	if *inputPath == "" || *entityType == "" {
		fmt.Println("Usage: normalizer -input <response.json> -type <entity type> [-output <normalized.json>]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	typ, err := models.ParseEntityType(*entityType)
	if err != nil {
		log.Fatalf("❌ %v\n", err)
	}

	var opts normalizer.Options

	level := "info"

	if *configFile != "" {
		cfg, cfgErr := config.LoadConfig(*configFile)
		if cfgErr != nil {
			log.Fatalf("❌ Failed to load config: %v\n", cfgErr)
		}

		opts = cfg.Normalizer
		level = cfg.Logging.Level
	}

	appLogger := logger.NewLogger(level)

	content, err := os.ReadFile(*inputPath)
	if err != nil {
		log.Fatalf("Error reading file: %v\n", err)
	}

	appLogger.Info("Reading response", "path", *inputPath, "bytes", len(content))

	resp, err := attrmap.Unmarshal(content)
	if err != nil {
		log.Fatalf("❌ Error parsing JSON: %v\n", err)
	}

	// Strict mode: a malformed response is a failure here, not an empty envelope.
	processor := normalizer.NewProcessor(opts, appLogger)

	normalized, err := processor.Process(typ, resp)
	if err != nil {
		log.Fatalf("❌ Normalization failed: %v\n", err)
	}

	jsonData, err := formatter.FormatJSON(normalized)
	if err != nil {
		log.Fatalf("Error marshaling JSON: %v\n", err)
	}

	if *outputPath == "" {
		_, _ = os.Stdout.Write(jsonData)

		return
	}

	// Ensure directory exists
	if mkdirErr := os.MkdirAll(filepath.Dir(*outputPath), 0755); mkdirErr != nil {
		log.Fatalf("Error creating directory: %v\n", mkdirErr)
	}

	if err := os.WriteFile(*outputPath, jsonData, 0644); err != nil {
		log.Fatalf("Error writing file: %v\n", err)
	}

	appLogger.Info("Saved normalized response", "path", *outputPath, "results", len(normalized.GetList(models.FieldResults)))
}
