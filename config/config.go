// Package config loads service configuration from an optional JSON file with
// environment and flag overrides applied by dotted path.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// defaultJSON is the base document every other source overrides.
const defaultJSON = `{
  "listen": "0.0.0.0:3000",
  "logLevel": "info",
  "render": {
    "timeout": "30s",
    "cacheSize": 64
  },
  "server": {
    "maxConns": 256
  }
}`

// envOverrides maps environment variables to config paths.
var envOverrides = map[string]string{
	"QPICKIT_LISTEN":            "listen",
	"QPICKIT_LOG_LEVEL":         "logLevel",
	"QPICKIT_RENDER_TIMEOUT":    "render.timeout",
	"QPICKIT_RENDER_CACHE_SIZE": "render.cacheSize",
	"QPICKIT_SERVER_MAX_CONNS":  "server.maxConns",
}

// Config is the resolved service configuration.
type Config struct {
	Listen    string
	LogLevel  string
	Timeout   time.Duration
	CacheSize int
	MaxConns  int
}

// Load resolves configuration with precedence defaults < file < environment
// < overrides. Overrides use dotted paths, e.g. "render.timeout=10s".
func Load(path string, overrides []string) (*Config, error) {
	doc := defaultJSON

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if !gjson.ValidBytes(data) {
			return nil, fmt.Errorf("config: %s is not valid JSON", path)
		}
		doc, err = merge(doc, string(data))
		if err != nil {
			return nil, err
		}
	}

	for env, key := range envOverrides {
		if val, ok := os.LookupEnv(env); ok {
			var err error
			doc, err = set(doc, key, val)
			if err != nil {
				return nil, err
			}
		}
	}

	for _, ov := range overrides {
		key, val, ok := strings.Cut(ov, "=")
		if !ok {
			return nil, fmt.Errorf("config: override %q must be key=value", ov)
		}
		var err error
		doc, err = set(doc, key, val)
		if err != nil {
			return nil, err
		}
	}

	return parse(doc)
}

// merge recursively overlays the leaves of overlay onto doc.
func merge(doc, overlay string) (string, error) {
	var err error
	var walk func(prefix string, value gjson.Result) bool
	walk = func(prefix string, value gjson.Result) bool {
		value.ForEach(func(key, val gjson.Result) bool {
			path := key.String()
			if prefix != "" {
				path = prefix + "." + path
			}
			if val.IsObject() {
				walk(path, val)
				return err == nil
			}
			doc, err = sjson.SetRaw(doc, path, val.Raw)
			return err == nil
		})
		return err == nil
	}
	walk("", gjson.Parse(overlay))
	if err != nil {
		return "", fmt.Errorf("config: merge: %w", err)
	}
	return doc, nil
}

// set writes a scalar override. Values that look numeric stay numeric so the
// document type matches the defaults.
func set(doc, path, val string) (string, error) {
	existing := gjson.Get(doc, path)
	if !existing.Exists() {
		return "", fmt.Errorf("config: unknown key %q", path)
	}
	var out string
	var err error
	if existing.Type == gjson.Number {
		n, perr := strconv.ParseFloat(val, 64)
		if perr != nil {
			return "", fmt.Errorf("config: %s expects a number, got %q", path, val)
		}
		out, err = sjson.Set(doc, path, n)
	} else {
		out, err = sjson.Set(doc, path, val)
	}
	if err != nil {
		return "", fmt.Errorf("config: set %s: %w", path, err)
	}
	return out, nil
}

func parse(doc string) (*Config, error) {
	timeout, err := time.ParseDuration(gjson.Get(doc, "render.timeout").String())
	if err != nil {
		return nil, fmt.Errorf("config: render.timeout: %w", err)
	}
	cfg := &Config{
		Listen:    gjson.Get(doc, "listen").String(),
		LogLevel:  gjson.Get(doc, "logLevel").String(),
		Timeout:   timeout,
		CacheSize: int(gjson.Get(doc, "render.cacheSize").Int()),
		MaxConns:  int(gjson.Get(doc, "server.maxConns").Int()),
	}
	if cfg.Listen == "" {
		return nil, fmt.Errorf("config: listen must not be empty")
	}
	if cfg.MaxConns <= 0 {
		return nil, fmt.Errorf("config: server.maxConns must be positive")
	}
	return cfg, nil
}
