package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/df07/go-scene-raytracer/pkg/output"
)

const (
	// DefaultWidth is the output width when none is given
	DefaultWidth = 500
	// DefaultHeight is the output height when none is given
	DefaultHeight = 500
	// DefaultTileSize is the edge length of a render tile
	DefaultTileSize = 32
	// DefaultEnvFile is read from the working directory when present
	DefaultEnvFile = ".env"
)

// Config captures the render and output tunables
type Config struct {
	Width    int
	Height   int
	Workers  int // 0 uses every CPU
	TileSize int
	S3       output.S3Config
}

// Defaults returns the configuration used when nothing is overridden
func Defaults() *Config {
	return &Config{
		Width:    DefaultWidth,
		Height:   DefaultHeight,
		Workers:  0,
		TileSize: DefaultTileSize,
	}
}

// Load reads envFile (if it exists) into the environment and then applies
// RAYTRACER_* variables on top of the defaults. Variables already set in the
// environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read %s: %w", envFile, err)
		}
	}

	cfg := Defaults()
	cfg.S3 = output.S3Config{
		Endpoint:  strings.TrimSpace(os.Getenv("RAYTRACER_S3_ENDPOINT")),
		Region:    getString("RAYTRACER_S3_REGION", "us-east-1"),
		AccessKey: strings.TrimSpace(os.Getenv("RAYTRACER_S3_ACCESS_KEY")),
		SecretKey: strings.TrimSpace(os.Getenv("RAYTRACER_S3_SECRET_KEY")),
	}

	var problems []string

	if raw := strings.TrimSpace(os.Getenv("RAYTRACER_WIDTH")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 {
			problems = append(problems, fmt.Sprintf("RAYTRACER_WIDTH must be a positive integer, got %q", raw))
		} else {
			cfg.Width = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("RAYTRACER_HEIGHT")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 {
			problems = append(problems, fmt.Sprintf("RAYTRACER_HEIGHT must be a positive integer, got %q", raw))
		} else {
			cfg.Height = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("RAYTRACER_WORKERS")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 0 {
			problems = append(problems, fmt.Sprintf("RAYTRACER_WORKERS must be a non-negative integer, got %q", raw))
		} else {
			cfg.Workers = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("RAYTRACER_TILE_SIZE")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 {
			problems = append(problems, fmt.Sprintf("RAYTRACER_TILE_SIZE must be a positive integer, got %q", raw))
		} else {
			cfg.TileSize = value
		}
	}

	if (cfg.S3.AccessKey == "") != (cfg.S3.SecretKey == "") {
		problems = append(problems, "RAYTRACER_S3_ACCESS_KEY and RAYTRACER_S3_SECRET_KEY must be provided together")
	}

	if len(problems) > 0 {
		return nil, errors.New(strings.Join(problems, "; "))
	}

	return cfg, nil
}

func getString(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
