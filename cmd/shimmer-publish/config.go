package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/smarty/gcs"
)

// Config mirrors the flag-plus-optional-JSON-override shape
// bitbucket.org/smartystreets/satisfy's cmd/upload/config.go uses, adapted
// to publish a .nupkg release instead of an arbitrary compressed archive.
type Config struct {
	SourceDirectory string `json:"source_directory"`
	PackageID       string `json:"package_id"`
	Version         string `json:"version"`
	BaseVersion     string `json:"base_version"`
	RemoteAddress   string `json:"remote_address"`
	RemoteBucket    string `json:"remote_bucket"`
	MaxRetry        int    `json:"max_retry"`
	Delta           bool   `json:"delta"`

	JSONPath          string          `json:"-"`
	GoogleCredentials gcs.Credentials `json:"-"`
}

func parseConfig() Config {
	var config Config
	flag.StringVar(&config.JSONPath, "json", "", "optional JSON file overriding these flags")
	flag.StringVar(&config.SourceDirectory, "source", "", "directory laid out as lib/<framework>/... to package")
	flag.StringVar(&config.PackageID, "package-id", "", "the package id, e.g. MyApp")
	flag.StringVar(&config.Version, "version", "", "the version being published, e.g. 1.2.3")
	flag.StringVar(&config.BaseVersion, "base-version", "", "the previous version to diff against, required with -delta")
	flag.StringVar(&config.RemoteAddress, "remote", "", "local directory the release is published to; not used for uploads with -remote-bucket")
	flag.StringVar(&config.RemoteBucket, "remote-bucket", "", "GCS bucket name; set to upload instead of writing locally")
	flag.IntVar(&config.MaxRetry, "max-retry", 3, "upload retry count")
	flag.BoolVar(&config.Delta, "delta", false, "publish a delta package against -base-version instead of a full package")
	flag.Parse()

	if config.JSONPath != "" {
		raw, err := os.ReadFile(config.JSONPath)
		if err != nil {
			log.Fatal(err)
		}
		if err := json.Unmarshal(raw, &config); err != nil {
			log.Fatal(err)
		}
	}

	if config.RemoteBucket != "" {
		raw, err := os.ReadFile(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
		if err != nil {
			log.Fatal(err)
		}
		config.GoogleCredentials, err = gcs.ParseCredentialsFromJSON(raw)
		if err != nil {
			log.Fatal(err)
		}
	}

	return config
}
