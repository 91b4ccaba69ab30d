// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/RandomGenericUsername/color-scheme-generator/internal/issue"
	"github.com/RandomGenericUsername/color-scheme-generator/internal/resolver"
	"github.com/RandomGenericUsername/color-scheme-generator/internal/settings"
)

// ErrInvalidLoadOptions is the sentinel error wrapped by InvalidLoadOptionsError.
var ErrInvalidLoadOptions = errors.New("invalid load options")

type (
	// LoadOptions defines explicit configuration loading inputs.
	LoadOptions struct {
		// ProjectRoot is the directory holding the project settings.toml.
		// Empty means the current working directory.
		ProjectRoot string
		// UserConfigPath forces the user settings file when set.
		UserConfigPath string
		// Overrides maps setting keys to values and takes precedence over
		// every other source. Unknown keys are an error.
		Overrides map[string]any
		// SkipEnv ignores COLORSCHEME_* environment variables.
		SkipEnv bool
		// Environ replaces os.Environ() when non-nil.
		Environ []string
	}

	// InvalidLoadOptionsError is returned when LoadOptions has invalid fields.
	// It wraps ErrInvalidLoadOptions for errors.Is() compatibility.
	InvalidLoadOptionsError struct {
		FieldErrors []error
	}

	// Provider loads configuration from explicit options.
	Provider interface {
		// Load returns the validated configuration with environment and
		// command-line overrides applied.
		Load(ctx context.Context, opts LoadOptions) (*UnifiedConfig, error)
		// Reload discards cached file layers and loads again with the
		// options of the last Load.
		Reload(ctx context.Context) (*UnifiedConfig, error)
		// Resolve reports every setting with the source it came from.
		Resolve(ctx context.Context, opts LoadOptions) (*resolver.ResolvedConfig, []resolver.Warning, error)
		// Registry returns the registry holding the application namespaces.
		Registry() *settings.Registry
	}

	settingsProvider struct {
		mu       sync.Mutex
		registry *settings.Registry
		manager  *settings.Manager[UnifiedConfig]
		last     LoadOptions
		loaded   bool
	}
)

// NewProvider creates a configuration provider with every application
// namespace registered.
func NewProvider() (Provider, error) {
	reg, err := NewRegistry()
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("register settings namespaces").
			WithSuggestion("This is a bug; please report it").
			Wrap(err).
			BuildError()
	}
	return &settingsProvider{
		registry: reg,
		manager:  settings.NewManager[UnifiedConfig](reg),
	}, nil
}

// Validate reports whitespace-only paths and malformed override keys.
func (o LoadOptions) Validate() error {
	var errs []error
	if o.ProjectRoot != "" && strings.TrimSpace(o.ProjectRoot) == "" {
		errs = append(errs, fmt.Errorf("project root %q must not be whitespace-only", o.ProjectRoot))
	}
	if o.UserConfigPath != "" && strings.TrimSpace(o.UserConfigPath) == "" {
		errs = append(errs, fmt.Errorf("user config path %q must not be whitespace-only", o.UserConfigPath))
	}
	for key := range o.Overrides {
		if _, err := settings.ParseKey(key); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return &InvalidLoadOptionsError{FieldErrors: errs}
	}
	return nil
}

// Error implements the error interface for InvalidLoadOptionsError.
func (e *InvalidLoadOptionsError) Error() string {
	if len(e.FieldErrors) == 1 {
		return fmt.Sprintf("invalid load options: %v", e.FieldErrors[0])
	}
	return fmt.Sprintf("invalid load options: %d field errors", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidLoadOptions for errors.Is() compatibility.
func (e *InvalidLoadOptionsError) Unwrap() error { return ErrInvalidLoadOptions }

func (p *settingsProvider) Registry() *settings.Registry { return p.registry }

// Load reads configuration from the requested sources.
func (p *settingsProvider) Load(ctx context.Context, opts LoadOptions) (*UnifiedConfig, error) {
	if err := checkCanceled(ctx, "load config"); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	discover := discoverOptions(opts)
	if !p.loaded || p.manager.Options() != discover {
		p.manager.Configure(discover)
	}
	p.last = opts
	p.loaded = true

	return p.overlay(false, opts)
}

func (p *settingsProvider) Reload(ctx context.Context) (*UnifiedConfig, error) {
	if err := checkCanceled(ctx, "reload config"); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.loaded {
		p.manager.Configure(settings.DiscoverOptions{})
		p.loaded = true
	}
	return p.overlay(true, p.last)
}

func (p *settingsProvider) Resolve(ctx context.Context, opts LoadOptions) (*resolver.ResolvedConfig, []resolver.Warning, error) {
	if err := checkCanceled(ctx, "resolve config"); err != nil {
		return nil, nil, err
	}

	environ := opts.Environ
	if opts.SkipEnv {
		environ = []string{}
	}
	resolved, warnings, err := resolver.New(p.registry, resolver.Options{
		ProjectRoot:    opts.ProjectRoot,
		UserConfigPath: opts.UserConfigPath,
		Environ:        environ,
	}).Resolve(opts.Overrides)
	if err != nil {
		return nil, nil, wrapSettingsError(err)
	}
	return resolved, warnings, nil
}

// overlay loads the file layers, reloading them first when asked, and
// applies environment then command-line overrides on top. Environment
// values for keys also given on the command line are dropped, so an invalid
// variable that a flag replaces is never validated.
func (p *settingsProvider) overlay(reload bool, opts LoadOptions) (*UnifiedConfig, error) {
	if reload {
		if _, err := p.manager.Reload(); err != nil {
			return nil, wrapSettingsError(err)
		}
	}

	var env map[string]any
	if !opts.SkipEnv {
		env = p.envOverrides(opts.Environ)
		for key := range opts.Overrides {
			delete(env, key)
		}
	}

	cfg, err := p.manager.Get(
		settings.OverrideSet{Layer: settings.SourceEnv, Values: env},
		settings.OverrideSet{Layer: settings.SourceOverride, Values: opts.Overrides},
	)
	if err != nil {
		return nil, wrapSettingsError(err)
	}
	if valid, errs := cfg.IsValid(); !valid {
		return nil, errs[0]
	}
	return cfg, nil
}

// envOverrides collects COLORSCHEME_* variables, dropping those that do not
// name a known setting.
func (p *settingsProvider) envOverrides(environ []string) map[string]any {
	if environ == nil {
		environ = os.Environ()
	}
	env := resolver.CollectEnv(environ, resolver.EnvOptions{Namespaces: p.registry.Namespaces()})
	for _, w := range env.Warnings {
		slog.Debug(w.Message, "variable", w.Detail)
	}

	overrides := env.Overrides()
	for key := range overrides {
		if !p.registry.HasKey(settings.Key(key)) {
			name, _ := env.Var(key)
			slog.Warn("ignoring environment variable for unknown setting", "variable", name, "key", key)
			delete(overrides, key)
		}
	}
	return overrides
}

func discoverOptions(opts LoadOptions) settings.DiscoverOptions {
	return settings.DiscoverOptions{
		ProjectRoot:    opts.ProjectRoot,
		UserConfigPath: opts.UserConfigPath,
	}
}

func checkCanceled(ctx context.Context, op string) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s canceled: %w", op, ctx.Err())
	default:
		return nil
	}
}

// wrapSettingsError adds operation context and suggestions to settings
// errors. The typed settings error stays reachable through errors.As.
func wrapSettingsError(err error) error {
	var (
		fileErr       *settings.FileError
		validationErr *settings.ValidationError
		overrideErr   *settings.OverrideError
		registryErr   *settings.RegistryError
	)
	switch {
	case errors.As(err, &fileErr):
		return issue.NewErrorContext().
			WithOperation("load settings").
			WithResource(fileErr.Path).
			WithSuggestion("Check that the file contains valid TOML").
			WithSuggestion("Namespace sections in project and user files look like [core.generation]").
			Wrap(err).
			BuildError()
	case errors.As(err, &validationErr):
		ctx := issue.NewErrorContext().
			WithOperation("validate settings").
			WithResource(validationErr.Namespace)
		switch validationErr.SourceLayer {
		case "":
		case settings.SourceEnv:
			ctx.WithSuggestion("Check the COLORSCHEME_* environment variables")
		case settings.SourceOverride:
			ctx.WithSuggestion("Check the values passed with --set")
		default:
			ctx.WithSuggestion(fmt.Sprintf("Check the value set in the %s layer", validationErr.SourceLayer))
		}
		return ctx.
			WithSuggestion("Run 'colorscheme config resolve' to see where each value comes from").
			Wrap(err).
			BuildError()
	case errors.As(err, &overrideErr):
		return issue.NewErrorContext().
			WithOperation("apply overrides").
			WithResource(overrideErr.Key).
			WithSuggestion("Override keys start with the namespace, e.g. core.generation.default_backend").
			WithSuggestion("Run 'colorscheme config resolve' to list every key").
			Wrap(err).
			BuildError()
	case errors.As(err, &registryErr):
		return issue.NewErrorContext().
			WithOperation("look up settings namespace").
			WithResource(registryErr.Namespace).
			Wrap(err).
			BuildError()
	default:
		return err
	}
}
