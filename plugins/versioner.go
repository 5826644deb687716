// Package plugins provides the plugins of dictscot instances
package plugins

import (
	"context"
	"fmt"

	"github.com/alexandre-normand/dictscot"
	"github.com/alexandre-normand/dictscot/actions"
	"github.com/alexandre-normand/dictscot/plugin"
)

const (
	versionerPluginName = "versioner"
)

// Versioner holds the plugin data for the versioner plugin
type Versioner struct {
	dictscot.Plugin
}

// NewVersioner creates a new instance of the versioner plugin
func NewVersioner(name string, version string) *Versioner {
	p := plugin.New(versionerPluginName).
		WithCommand(actions.NewCommand("version").
			WithDescriptionf("Reply with `%s`'s `version` number", name).
			WithAnswerer(func(ctx context.Context, c *dictscot.CommandInvocation) ([]*dictscot.Answer, error) {
				return []*dictscot.Answer{{Text: fmt.Sprintf("I'm `%s`, version `%s`", name, version)}}, nil
			}).
			Build()).
		Build()

	return &Versioner{Plugin: *p}
}
