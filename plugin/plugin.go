// Package plugin provides a fluent API for creating dictscot plugins. Actions are typically
// created with github.com/alexandre-normand/dictscot/actions
package plugin

import (
	"github.com/alexandre-normand/dictscot"
)

// PluginBuilder holds a plugin to build
type PluginBuilder struct {
	plugin *dictscot.Plugin
}

// New creates a new PluginBuilder with a plugin with the given name and empty set of actions
func New(name string) (pb *PluginBuilder) {
	pb = new(PluginBuilder)
	pb.plugin = new(dictscot.Plugin)
	pb.plugin.Name = name
	pb.plugin.Commands = make([]dictscot.CommandDefinition, 0)
	pb.plugin.HearActions = make([]dictscot.ActionDefinition, 0)

	return pb
}

// WithCommand adds a command to the plugin
func (pb *PluginBuilder) WithCommand(command dictscot.CommandDefinition) *PluginBuilder {
	pb.plugin.Commands = append(pb.plugin.Commands, command)
	return pb
}

// WithHearAction adds an hear action to the plugin
func (pb *PluginBuilder) WithHearAction(hearAction dictscot.ActionDefinition) *PluginBuilder {
	pb.plugin.HearActions = append(pb.plugin.HearActions, hearAction)
	return pb
}

// Build returns the created Plugin instance
func (pb *PluginBuilder) Build() (p *dictscot.Plugin) {
	return pb.plugin
}
