// SPDX-License-Identifier: MPL-2.0

package config

import "github.com/RandomGenericUsername/color-scheme-generator/internal/settings"

// Setting keys, as accepted by overrides and reported by the resolver.
const (
	KeyLogLevel    settings.Key = "core.logging.level"
	KeyLogShowTime settings.Key = "core.logging.show_time"
	KeyLogShowPath settings.Key = "core.logging.show_path"

	KeyOutputDirectory settings.Key = "core.output.directory"
	KeyOutputFormats   settings.Key = "core.output.formats"

	KeyDefaultBackend       settings.Key = "core.generation.default_backend"
	KeySaturationAdjustment settings.Key = "core.generation.saturation_adjustment"

	KeyPywalAlgorithm     settings.Key = "core.backends.pywal.backend_algorithm"
	KeyWallustBackendType settings.Key = "core.backends.wallust.backend_type"
	KeyCustomAlgorithm    settings.Key = "core.backends.custom.algorithm"
	KeyCustomClusters     settings.Key = "core.backends.custom.n_clusters"

	KeyTemplatesDirectory settings.Key = "core.templates.directory"
	KeyContainerEngine    settings.Key = "core.container.engine"

	KeyOrchestratorEngine   settings.Key = "orchestrator.engine"
	KeyOrchestratorRegistry settings.Key = "orchestrator.image_registry"
)

// Keys returns every setting key in a stable order.
func Keys() []settings.Key {
	return []settings.Key{
		KeyLogLevel, KeyLogShowTime, KeyLogShowPath,
		KeyOutputDirectory, KeyOutputFormats,
		KeyDefaultBackend, KeySaturationAdjustment,
		KeyPywalAlgorithm, KeyWallustBackendType, KeyCustomAlgorithm, KeyCustomClusters,
		KeyTemplatesDirectory, KeyContainerEngine,
		KeyOrchestratorEngine, KeyOrchestratorRegistry,
	}
}
