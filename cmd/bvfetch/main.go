// Package main provides the bvfetch command-line tool for querying the content API.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"

	"bvapi/internal/api"
	"bvapi/internal/cache"
	"bvapi/internal/config"
	"bvapi/internal/formatter"
	"bvapi/internal/logger"
	"bvapi/internal/models"

	"github.com/joho/godotenv"
)

// paramFlag collects repeated -param key=value flags.
type paramFlag url.Values

func (p paramFlag) String() string {
	return url.Values(p).Encode()
}

func (p paramFlag) Set(s string) error {
	key, value, ok := strings.Cut(s, "=")
	if !ok || key == "" {
		return fmt.Errorf("expected key=value, got %q", s)
	}

	url.Values(p).Add(key, value)

	return nil
}

func main() {
	_ = godotenv.Load()

	params := paramFlag{}

	configFile := flag.String("config", "configs/bvapi.yaml", "Path to YAML configuration file")
	entityType := flag.String("type", "review", "Entity type to fetch (review, question, answer, story, author, product, category)")
	format := flag.String("format", "json", "Output format: json or table")
	columns := flag.String("columns", "", "Comma separated dotted paths for table output")
	raw := flag.Bool("raw", false, "Print the response without normalizing it")
	help := flag.Bool("help", false, "Show usage information")

	flag.Var(params, "param", "Query parameter key=value (repeatable)")
	flag.Parse()

	if *help {
		printUsage()
		os.Exit(0)
	}

	typ, err := models.ParseEntityType(*entityType)
	if err != nil {
		log.Fatalf("❌ %v\n", err)
	}

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v\n", err)
	}

	appLogger := logger.NewLoggerWithWriter(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)
	appLogger.Debug("Configuration loaded", "config", cfg.String())

	opts := []api.Option{
		api.WithLogger(appLogger),
		api.WithNormalizerOptions(cfg.Normalizer),
	}

	if cfg.Cache.Enabled {
		store := cache.NewRedisStore(cfg.Cache.Addrs, cfg.Cache.PoolSize, cfg.Cache.GetTTL())
		defer store.Close()

		if err := store.HealthCheck(context.Background()); err != nil {
			appLogger.Warn("Redis unavailable, continuing without cache", "addrs", cfg.Cache.Addrs, "error", err)
		} else {
			opts = append(opts, api.WithCache(store))
		}
	}

	client := api.NewClient(cfg.API, opts...)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.API.GetTimeout())
	defer cancel()

	fetch := client.Get
	if *raw {
		fetch = client.GetRaw
	}

	resp, err := fetch(ctx, typ, url.Values(params))
	if err != nil {
		log.Fatalf("❌ Request failed: %v\n", err)
	}

	switch *format {
	case "table":
		var cols []string
		if *columns != "" {
			cols = strings.Split(*columns, ",")
		}

		fmt.Print(formatter.FormatTable(resp, cols))
	case "json":
		data, err := formatter.FormatJSON(resp)
		if err != nil {
			log.Fatalf("❌ %v\n", err)
		}

		_, _ = os.Stdout.Write(data)
	default:
		log.Fatalf("❌ Unknown format: %s\n", *format)
	}
}

func printUsage() {
	fmt.Println("Usage: ./bin/bvfetch [OPTIONS]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  ./bin/bvfetch -type question -param Filter=ProductId:P1 -param Limit=10")
	fmt.Println("  ./bin/bvfetch -type review -format table -columns Id,Rating,Author.UserNickname")
}
