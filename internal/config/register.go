// SPDX-License-Identifier: MPL-2.0

package config

import (
	"embed"

	"github.com/RandomGenericUsername/color-scheme-generator/internal/settings"
	"github.com/RandomGenericUsername/color-scheme-generator/pkg/cueutil"
)

const (
	// NamespaceCore holds the generator settings.
	NamespaceCore = "core"
	// NamespaceOrchestrator holds the container orchestration settings.
	NamespaceOrchestrator = "orchestrator"

	coreDefaultsFile         = "defaults/core.toml"
	orchestratorDefaultsFile = "defaults/orchestrator.toml"
)

var (
	//go:embed core_schema.cue
	coreSchema []byte

	//go:embed orchestrator_schema.cue
	orchestratorSchema []byte

	//go:embed defaults/*.toml
	defaultsFS embed.FS
)

type namespaceDef struct {
	namespace    string
	src          []byte
	filename     string
	definition   string
	defaultsFile string
}

var namespaces = []namespaceDef{
	{NamespaceCore, coreSchema, "core_schema.cue", "#Core", coreDefaultsFile},
	{NamespaceOrchestrator, orchestratorSchema, "orchestrator_schema.cue", "#Orchestrator", orchestratorDefaultsFile},
}

// Register compiles the namespace schemas and registers them, with their
// embedded defaults, on reg. It panics when an embedded schema does not
// compile.
func Register(reg *settings.Registry) error {
	for _, def := range namespaces {
		schema := cueutil.MustCompileSchema(def.src, def.definition,
			cueutil.WithFilename(def.filename),
			cueutil.WithLabel(def.namespace),
		)
		if err := reg.Register(def.namespace, schema, def.defaultsFile, settings.WithDefaultsFS(defaultsFS)); err != nil {
			return err
		}
	}
	return nil
}

// NewRegistry returns a registry holding every application namespace.
func NewRegistry() (*settings.Registry, error) {
	reg := settings.NewRegistry()
	if err := Register(reg); err != nil {
		return nil, err
	}
	return reg, nil
}
