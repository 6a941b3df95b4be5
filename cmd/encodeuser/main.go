// Package main provides the encodeuser command-line tool for signing reviewer ids.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"

	"bvapi/internal/api"
	"bvapi/internal/config"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	configFile := flag.String("config", "configs/bvapi.yaml", "Path to YAML configuration file")
	userID := flag.String("user", "", "External user id to encode")
	extra := flag.String("extra", "", "Additional signed parameters as a query string, e.g. EmailAddress=a@b.c")
	flag.Parse()

	if *userID == "" {
		fmt.Println("Usage: encodeuser -user <id> [-extra k=v&k2=v2]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v\n", err)
	}

	values, err := url.ParseQuery(strings.TrimPrefix(*extra, "?"))
	if err != nil {
		log.Fatalf("❌ Invalid -extra: %v\n", err)
	}

	encoded, err := api.NewClient(cfg.API).EncodeUser(*userID, values)
	if err != nil {
		log.Fatalf("❌ Encoding failed: %v\n", err)
	}

	fmt.Println(encoded)
}
