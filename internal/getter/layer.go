// SPDX-License-Identifier: MPL-2.0

package getter

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/invowk/testsetup/internal/discovery"
	"github.com/invowk/testsetup/internal/envlayer"
	"github.com/invowk/testsetup/internal/issue"
	"github.com/invowk/testsetup/internal/suite"
)

// definitionTags are checked in priority order.
var definitionTags = []string{TagFunctionalZCMLLayer, TagZCMLLayer}

// resolveLayer picks the layer of one file. The first applicable rule wins:
//  1. an environment definition marker, relative to the file's directory;
//  2. a :layer: marker naming a registered layer;
//  3. for functional kinds, the default definition file of the package;
//  4. no layer.
//
// Without the environment framework rule 1 reports a diagnostic and yields
// no layer. Layers are built fresh for every file. text is the decoded
// content of the file at path.
func (g *Getter) resolveLayer(ctx context.Context, path, rel, text string) (suite.Layer, error) {
	for _, tag := range definitionTags {
		value, ok := g.parser.Find(tag, text)
		if !ok || value == "" {
			continue
		}
		if !g.framework.Available(ctx) {
			g.reporter.Report(discovery.NewDiagnosticWithPath(
				discovery.SeverityWarning,
				discovery.CodeEnvFrameworkUnavailable,
				fmt.Sprintf(":%s: %s needs the functional environment framework, which is not available", tag, value),
				path,
			).WithIssue(issue.EnvFrameworkUnavailableId))
			return nil, nil
		}
		def := filepath.Join(filepath.Dir(path), filepath.FromSlash(value))
		return g.framework.NewLayer(def, envlayer.ModuleName, envlayer.LayerName(value), g.opts.AllowTeardown), nil
	}

	if name, ok := g.parser.Find(TagLayer, text); ok && name != "" {
		layer, err := g.registry.Layer(name)
		if err != nil {
			return nil, g.markerError(rel, TagLayer, name, err)
		}
		return layer, nil
	}

	if g.desc.Functional && g.opts.DefaultEnvFile != "" {
		def := filepath.Join(g.pkg.Dir, filepath.FromSlash(g.opts.DefaultEnvFile))
		return g.framework.NewLayer(def, envlayer.ModuleName, envlayer.LayerName(g.opts.DefaultEnvFile), g.opts.AllowTeardown), nil
	}
	return nil, nil
}
