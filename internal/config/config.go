package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/umututku03/scriptorium-edit/internal/app"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	Flags   map[string]string
	Args    []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

const (
	envServer     = "SCRIPTORIUM_EDIT_SERVER"
	envTokenFile  = "SCRIPTORIUM_EDIT_TOKEN_FILE"
	envWidth      = "SCRIPTORIUM_EDIT_WIDTH"
	envHeight     = "SCRIPTORIUM_EDIT_HEIGHT"
	envShowFooter = "SCRIPTORIUM_EDIT_FOOTER"
	envVerbose    = "SCRIPTORIUM_EDIT_VERBOSE"
	envTrace      = "SCRIPTORIUM_EDIT_TRACE"
	envLogFile    = "SCRIPTORIUM_EDIT_LOG_FILE"

	defaultServer = "http://localhost:3000"
)

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	fs := flag.NewFlagSet("scriptorium-edit", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	server := fs.String("server", envOrDefault(env, envServer, defaultServer), "base URL of the scriptorium server")
	post := fs.Int("post", 0, "id of the blog post to edit (alternatively the first positional argument)")
	tokenFile := fs.String("token-file", envOrDefault(env, envTokenFile, ""), "path to the bearer token file (defaults to the user config dir)")
	width := fs.Int("width", envOrInt(env, envWidth, 0), "desired viewport width in cells (0 uses terminal width)")
	height := fs.Int("height", envOrInt(env, envHeight, 0), "desired viewport height in rows (0 uses terminal height)")
	footer := fs.Bool("footer", envOrBool(env, envShowFooter, false), "enable footer hint row (disabled by default)")
	verbose := fs.Bool("verbose", envOrBool(env, envVerbose, false), "print success messages for actions")
	trace := fs.Bool("trace", envOrBool(env, envTrace, false), "enable verbose JSON trace logging")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, ""), "path to the log file")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	postID := *post
	if postID == 0 && fs.NArg() > 0 {
		parsed, err := strconv.Atoi(fs.Arg(0))
		if err != nil {
			return Config{}, fmt.Errorf("post id must be numeric (got %q)", fs.Arg(0))
		}
		postID = parsed
	}

	if *width < 0 {
		return Config{}, fmt.Errorf("width must be >= 0 (got %d)", *width)
	}
	if *height < 0 {
		return Config{}, fmt.Errorf("height must be >= 0 (got %d)", *height)
	}

	cfg := Config{
		App: app.Config{
			ServerURL:  *server,
			PostID:     postID,
			TokenFile:  *tokenFile,
			Width:      *width,
			Height:     *height,
			ShowFooter: *footer,
			Verbose:    *verbose,
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		Flags: map[string]string{
			"server":    *server,
			"post":      strconv.Itoa(postID),
			"tokenFile": *tokenFile,
			"width":     strconv.Itoa(*width),
			"height":    strconv.Itoa(*height),
			"footer":    strconv.FormatBool(*footer),
			"verbose":   strconv.FormatBool(*verbose),
			"trace":     strconv.FormatBool(*trace),
			"logFile":   *logFile,
		},
		Args: append([]string(nil), args...),
	}

	return cfg, nil
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate ensures required minimum configuration is present.
func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.App.ServerURL) == "" {
		return fmt.Errorf("server URL is required")
	}
	if cfg.App.PostID <= 0 {
		return fmt.Errorf("a positive post id is required (use -post or a positional argument)")
	}
	return nil
}
