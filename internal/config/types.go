// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

const (
	// LogLevelDebug logs everything.
	LogLevelDebug LogLevel = "DEBUG"
	// LogLevelInfo is the default log level.
	LogLevelInfo LogLevel = "INFO"
	// LogLevelWarning logs warnings and errors.
	LogLevelWarning LogLevel = "WARNING"
	// LogLevelError logs errors only.
	LogLevelError LogLevel = "ERROR"
	// LogLevelCritical logs unrecoverable errors only.
	LogLevelCritical LogLevel = "CRITICAL"

	// ContainerEngineDocker uses Docker as the container runtime.
	ContainerEngineDocker ContainerEngine = "docker"
	// ContainerEnginePodman uses Podman as the container runtime.
	ContainerEnginePodman ContainerEngine = "podman"

	// BackendPywal extracts colors with pywal.
	BackendPywal Backend = "pywal"
	// BackendWallust extracts colors with wallust.
	BackendWallust Backend = "wallust"
	// BackendCustom uses the built-in clustering backend.
	BackendCustom Backend = "custom"

	// PywalAlgorithmWal uses ImageMagick, pywal's built-in extractor.
	PywalAlgorithmWal PywalAlgorithm = "wal"
	// PywalAlgorithmColorz uses the colorz package.
	PywalAlgorithmColorz PywalAlgorithm = "colorz"
	// PywalAlgorithmColorthief uses the colorthief package.
	PywalAlgorithmColorthief PywalAlgorithm = "colorthief"
	// PywalAlgorithmHaishoku uses the haishoku package. It is the default.
	PywalAlgorithmHaishoku PywalAlgorithm = "haishoku"
	// PywalAlgorithmSchemer2 uses the schemer2 binary.
	PywalAlgorithmSchemer2 PywalAlgorithm = "schemer2"

	// ColorAlgorithmKMeans clusters pixels with k-means.
	ColorAlgorithmKMeans ColorAlgorithm = "kmeans"
	// ColorAlgorithmDominant picks the most frequent colors.
	ColorAlgorithmDominant ColorAlgorithm = "dominant"

	// slogLevelCritical sits above slog.LevelError.
	slogLevelCritical = slog.LevelError + 4
)

var (
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidContainerEngine is returned when a ContainerEngine value is not recognized.
	ErrInvalidContainerEngine = errors.New("invalid container engine")
	// ErrInvalidBackend is returned when a Backend value is not recognized.
	ErrInvalidBackend = errors.New("invalid backend")
	// ErrInvalidPywalAlgorithm is returned when a PywalAlgorithm value is not recognized.
	ErrInvalidPywalAlgorithm = errors.New("invalid pywal algorithm")
	// ErrInvalidColorAlgorithm is returned when a ColorAlgorithm value is not recognized.
	ErrInvalidColorAlgorithm = errors.New("invalid color algorithm")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// LogLevel is the minimum level the generator logs at.
	LogLevel string

	// InvalidLogLevelError is returned when a LogLevel value is not recognized.
	// It wraps ErrInvalidLogLevel for errors.Is() compatibility.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// ContainerEngine specifies which container runtime to use.
	ContainerEngine string

	// InvalidContainerEngineError is returned when a ContainerEngine value is not recognized.
	// It wraps ErrInvalidContainerEngine for errors.Is() compatibility.
	InvalidContainerEngineError struct {
		Value ContainerEngine
	}

	// Backend names a color extraction backend.
	Backend string

	// InvalidBackendError is returned when a Backend value is not recognized.
	InvalidBackendError struct {
		Value Backend
	}

	// PywalAlgorithm is the extraction algorithm pywal runs.
	PywalAlgorithm string

	// InvalidPywalAlgorithmError is returned when a PywalAlgorithm value is not recognized.
	InvalidPywalAlgorithmError struct {
		Value PywalAlgorithm
	}

	// ColorAlgorithm is the algorithm of the custom backend.
	ColorAlgorithm string

	// InvalidColorAlgorithmError is returned when a ColorAlgorithm value is not recognized.
	InvalidColorAlgorithmError struct {
		Value ColorAlgorithm
	}

	// InvalidConfigError is returned when a UnifiedConfig has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sections.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// UnifiedConfig holds every settings namespace. Values are treated as
	// immutable: overrides always produce a new UnifiedConfig.
	UnifiedConfig struct {
		Core         CoreConfig         `json:"core" mapstructure:"core"`
		Orchestrator OrchestratorConfig `json:"orchestrator" mapstructure:"orchestrator"`
	}

	// CoreConfig is the "core" namespace.
	CoreConfig struct {
		Logging    LoggingConfig    `json:"logging" mapstructure:"logging"`
		Output     OutputConfig     `json:"output" mapstructure:"output"`
		Generation GenerationConfig `json:"generation" mapstructure:"generation"`
		Backends   BackendsConfig   `json:"backends" mapstructure:"backends"`
		Templates  TemplatesConfig  `json:"templates" mapstructure:"templates"`
		Container  ContainerConfig  `json:"container" mapstructure:"container"`
	}

	// LoggingConfig configures the generator's log output.
	LoggingConfig struct {
		Level    LogLevel `json:"level" mapstructure:"level"`
		ShowTime bool     `json:"show_time" mapstructure:"show_time"`
		ShowPath bool     `json:"show_path" mapstructure:"show_path"`
	}

	// OutputConfig configures where and in which formats schemes are written.
	OutputConfig struct {
		Directory string   `json:"directory" mapstructure:"directory"`
		Formats   []string `json:"formats" mapstructure:"formats"`
	}

	// GenerationConfig configures color scheme generation.
	GenerationConfig struct {
		DefaultBackend Backend `json:"default_backend" mapstructure:"default_backend"`
		// SaturationAdjustment multiplies the saturation of every color (0.0 to 2.0).
		SaturationAdjustment float64 `json:"saturation_adjustment" mapstructure:"saturation_adjustment"`
	}

	// BackendsConfig holds per-backend settings.
	BackendsConfig struct {
		Pywal   PywalConfig   `json:"pywal" mapstructure:"pywal"`
		Wallust WallustConfig `json:"wallust" mapstructure:"wallust"`
		Custom  CustomConfig  `json:"custom" mapstructure:"custom"`
	}

	// PywalConfig holds the pywal backend settings.
	PywalConfig struct {
		BackendAlgorithm PywalAlgorithm `json:"backend_algorithm" mapstructure:"backend_algorithm"`
	}

	// WallustConfig holds the wallust backend settings.
	WallustConfig struct {
		BackendType string `json:"backend_type" mapstructure:"backend_type"`
	}

	// CustomConfig holds the settings of the built-in extractor.
	CustomConfig struct {
		Algorithm ColorAlgorithm `json:"algorithm" mapstructure:"algorithm"`
		// NClusters is the number of clusters (8 to 256).
		NClusters int `json:"n_clusters" mapstructure:"n_clusters"`
	}

	// TemplatesConfig locates the output templates.
	TemplatesConfig struct {
		Directory string `json:"directory" mapstructure:"directory"`
	}

	// ContainerConfig configures the container the generator may run in.
	ContainerConfig struct {
		Engine ContainerEngine `json:"engine" mapstructure:"engine"`
	}

	// OrchestratorConfig is the "orchestrator" namespace.
	OrchestratorConfig struct {
		Engine ContainerEngine `json:"engine" mapstructure:"engine"`
		// ImageRegistry is prefixed to image names. Trailing slashes are
		// removed on load.
		ImageRegistry string `json:"image_registry" mapstructure:"image_registry"`
	}
)

// Normalize canonicalizes values the schema accepts in several spellings:
// the log level is upper-cased, container engines are lower-cased and
// trailing slashes are removed from the image registry.
func (c *UnifiedConfig) Normalize() {
	c.Core.Logging.Level = LogLevel(strings.ToUpper(string(c.Core.Logging.Level)))
	c.Core.Container.Engine = ContainerEngine(strings.ToLower(string(c.Core.Container.Engine)))
	c.Orchestrator.Engine = ContainerEngine(strings.ToLower(string(c.Orchestrator.Engine)))
	c.Orchestrator.ImageRegistry = strings.TrimRight(c.Orchestrator.ImageRegistry, "/")
}

// IsValid returns whether every enumerated field of the UnifiedConfig holds a
// known value. It is meant for normalized configs.
func (c UnifiedConfig) IsValid() (bool, []error) {
	var errs []error
	for _, check := range []func() (bool, []error){
		c.Core.Logging.Level.IsValid,
		c.Core.Generation.DefaultBackend.IsValid,
		c.Core.Backends.Pywal.BackendAlgorithm.IsValid,
		c.Core.Backends.Custom.Algorithm.IsValid,
		c.Core.Container.Engine.IsValid,
		c.Orchestrator.Engine.IsValid,
	} {
		if valid, fieldErrs := check(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}


// ToMap returns the configuration as nested maps keyed by setting names, the
// same shape a project settings file uses.
func (c UnifiedConfig) ToMap() (map[string]any, error) {
	var out map[string]any
	if err := mapstructure.Decode(c, &out); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return out, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string { return string(l) }

// IsValid returns whether the LogLevel is one of the defined levels,
// and a list of validation errors if it is not.
func (l LogLevel) IsValid() (bool, []error) {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarning, LogLevelError, LogLevelCritical:
		return true, nil
	default:
		return false, []error{&InvalidLogLevelError{Value: l}}
	}
}

// SlogLevel maps the LogLevel to a slog.Level. Unknown levels map to
// slog.LevelInfo.
func (l LogLevel) SlogLevel() slog.Level {
	switch LogLevel(strings.ToUpper(string(l))) {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarning:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	case LogLevelCritical:
		return slogLevelCritical
	default:
		return slog.LevelInfo
	}
}

// Error implements the error interface for InvalidLogLevelError.
func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: DEBUG, INFO, WARNING, ERROR, CRITICAL)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidLogLevelError) Unwrap() error {
	return ErrInvalidLogLevel
}

// String returns the string representation of the ContainerEngine.
func (ce ContainerEngine) String() string { return string(ce) }

// IsValid returns whether the ContainerEngine is one of the defined engine types,
// and a list of validation errors if it is not.
func (ce ContainerEngine) IsValid() (bool, []error) {
	switch ce {
	case ContainerEnginePodman, ContainerEngineDocker:
		return true, nil
	default:
		return false, []error{&InvalidContainerEngineError{Value: ce}}
	}
}

// Error implements the error interface for InvalidContainerEngineError.
func (e *InvalidContainerEngineError) Error() string {
	return fmt.Sprintf("invalid container engine %q (valid: docker, podman)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidContainerEngineError) Unwrap() error {
	return ErrInvalidContainerEngine
}

// String returns the string representation of the Backend.
func (b Backend) String() string { return string(b) }

// IsValid returns whether the Backend is one of the defined backends,
// and a list of validation errors if it is not.
func (b Backend) IsValid() (bool, []error) {
	switch b {
	case BackendPywal, BackendWallust, BackendCustom:
		return true, nil
	default:
		return false, []error{&InvalidBackendError{Value: b}}
	}
}

// Error implements the error interface for InvalidBackendError.
func (e *InvalidBackendError) Error() string {
	return fmt.Sprintf("invalid backend %q (valid: pywal, wallust, custom)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidBackendError) Unwrap() error {
	return ErrInvalidBackend
}

// String returns the string representation of the PywalAlgorithm.
func (a PywalAlgorithm) String() string { return string(a) }

// IsValid returns whether the PywalAlgorithm is one pywal supports,
// and a list of validation errors if it is not.
func (a PywalAlgorithm) IsValid() (bool, []error) {
	switch a {
	case PywalAlgorithmWal, PywalAlgorithmColorz, PywalAlgorithmColorthief, PywalAlgorithmHaishoku, PywalAlgorithmSchemer2:
		return true, nil
	default:
		return false, []error{&InvalidPywalAlgorithmError{Value: a}}
	}
}

// Error implements the error interface for InvalidPywalAlgorithmError.
func (e *InvalidPywalAlgorithmError) Error() string {
	return fmt.Sprintf("invalid pywal algorithm %q (valid: wal, colorz, colorthief, haishoku, schemer2)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidPywalAlgorithmError) Unwrap() error {
	return ErrInvalidPywalAlgorithm
}

// String returns the string representation of the ColorAlgorithm.
func (a ColorAlgorithm) String() string { return string(a) }

// IsValid returns whether the ColorAlgorithm is one of the defined algorithms,
// and a list of validation errors if it is not.
func (a ColorAlgorithm) IsValid() (bool, []error) {
	switch a {
	case ColorAlgorithmKMeans, ColorAlgorithmDominant:
		return true, nil
	default:
		return false, []error{&InvalidColorAlgorithmError{Value: a}}
	}
}

// Error implements the error interface for InvalidColorAlgorithmError.
func (e *InvalidColorAlgorithmError) Error() string {
	return fmt.Sprintf("invalid color algorithm %q (valid: kmeans, dominant)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorAlgorithmError) Unwrap() error {
	return ErrInvalidColorAlgorithm
}
