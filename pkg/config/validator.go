package config

import (
	"fmt"
	"slices"
	"strings"

	swerrors "github.com/matzehuels/streamwall/pkg/errors"
	"github.com/matzehuels/streamwall/pkg/store"
)

// ValidationError is a single invalid setting.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors collects every invalid setting.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// ValidLogLevels lists the accepted logging levels.
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ValidBackends lists the accepted store backends.
func ValidBackends() []string {
	return []string{store.BackendFile, store.BackendMemory, store.BackendNull, store.BackendRedis, store.BackendMongo}
}

// Validate returns every invalid setting in c.
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError
	add := func(field string, value any, msg string) {
		errs = append(errs, ValidationError{Field: field, Value: value, Message: msg})
	}

	if c.Project.File == "" {
		add("project.file", c.Project.File, "must not be empty")
	}

	if !slices.Contains(ValidBackends(), c.Store.Backend) {
		add("store.backend", c.Store.Backend, "must be one of "+strings.Join(ValidBackends(), ", "))
	}
	if c.Store.Backend == store.BackendFile && c.Store.Dir == "" {
		add("store.dir", c.Store.Dir, "required for the file backend")
	}
	if c.Store.Redis.DB < 0 {
		add("store.redis.db", c.Store.Redis.DB, "must not be negative")
	}

	g := c.Grid
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"grid.breakpoint", g.Breakpoint},
		{"grid.target_row_px", g.TargetRowPx},
		{"grid.aspect_w", g.AspectW},
		{"grid.aspect_h", g.AspectH},
	} {
		if f.v <= 0 {
			add(f.name, f.v, "must be positive")
		}
	}
	if g.ChromePx < 0 {
		add("grid.chrome_px", g.ChromePx, "must not be negative")
	}

	if c.Live.Endpoint != "" {
		if err := swerrors.ValidateURL(c.Live.Endpoint); err != nil {
			add("live.endpoint", c.Live.Endpoint, "must be an http or https URL")
		}
	}
	if c.Live.IntervalSeconds < 1 {
		add("live.interval_seconds", c.Live.IntervalSeconds, "must be at least 1")
	}
	if c.Live.CacheTTLSeconds < 0 {
		add("live.cache_ttl_seconds", c.Live.CacheTTLSeconds, "must not be negative")
	}
	if c.Live.TimeoutSeconds < 1 {
		add("live.timeout_seconds", c.Live.TimeoutSeconds, "must be at least 1")
	}

	if c.Server.Addr == "" {
		add("server.addr", c.Server.Addr, "must not be empty")
	}
	if c.Server.ReadTimeoutSeconds < 0 || c.Server.WriteTimeoutSeconds < 0 {
		add("server.timeouts", []int{c.Server.ReadTimeoutSeconds, c.Server.WriteTimeoutSeconds}, "must not be negative")
	}

	if !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		add("logging.level", c.Logging.Level, "must be one of "+strings.Join(ValidLogLevels(), ", "))
	}
	return errs
}
