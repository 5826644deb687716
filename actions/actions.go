/*
Package actions provides a fluent API for creating dictscot plugin actions. Typical usages
will also involve using the plugin fluent API from github.com/alexandre-normand/dictscot/plugin.

Plugin examples using this API can be found in github.com/alexandre-normand/dictscot/plugins but
a quick one could look like:

	import (
		"github.com/alexandre-normand/dictscot"
		"github.com/alexandre-normand/dictscot/plugin"
		"github.com/alexandre-normand/dictscot/actions"
	)

	func newPlugin() (p *dictscot.Plugin) {
		p = plugin.New("maker").
			WithCommand(actions.NewCommand("make").
				WithOption("something", "What to make").
				WithDescription("Make the `<something>` you need").
				WithAnswerer(func(ctx context.Context, c *dictscot.CommandInvocation) ([]*dictscot.Answer, error) {
					return []*dictscot.Answer{{Text: ":white_check_mark: It's ready for you!"}}, nil
				}).
				Build()).
			WithHearAction(actions.NewHearAction().
				Hidden().
				WithMatcher(func(m *dictscot.IncomingMessage) bool {
					return strings.HasPrefix(m.Text, "chirp")
				}).
				WithAnswerer(func(ctx context.Context, m *dictscot.IncomingMessage) (*dictscot.Answer, error) {
					return &dictscot.Answer{Text: "Did I hear a bird?"}, nil
				}).
				Build()).
			Build()
		return p
	}
*/
package actions

import (
	"context"
	"fmt"

	"github.com/alexandre-normand/dictscot"
)

// ActionBuilder holds the hear action to build
type ActionBuilder struct {
	action dictscot.ActionDefinition
}

// CommandBuilder holds the command to build
type CommandBuilder struct {
	command dictscot.CommandDefinition
}

var (
	// Default to always match. This is acceptable since we can accomplish the same
	// behavior most of the time by returning nil in the Answerer instead. A simple matcher
	// can be useful when the matching logic can be made entirely separate from the answer logic
	defaultMatcher = func(m *dictscot.IncomingMessage) bool {
		return true
	}

	// Default to always return nil. This is not a default you want to use in most cases
	defaultAnswerer = func(ctx context.Context, m *dictscot.IncomingMessage) (*dictscot.Answer, error) {
		return nil, nil
	}

	defaultCommandAnswerer = func(ctx context.Context, c *dictscot.CommandInvocation) ([]*dictscot.Answer, error) {
		return nil, nil
	}
)

// NewHearAction returns a new ActionBuilder to build a new hear action. When done with the setup,
// the caller is expected to call Build() to get the action
func NewHearAction() (ab *ActionBuilder) {
	ab = new(ActionBuilder)
	ab.action = dictscot.ActionDefinition{Hidden: false}

	ab.action.Match = defaultMatcher
	ab.action.Answer = defaultAnswerer

	return ab
}

// WithMatcher sets the action's matcher function
func (ab *ActionBuilder) WithMatcher(matcher dictscot.Matcher) *ActionBuilder {
	ab.action.Match = matcher
	return ab
}

// WithUsage sets the action usage
func (ab *ActionBuilder) WithUsage(usage string) *ActionBuilder {
	ab.action.Usage = usage
	return ab
}

// WithDescription sets the action description
func (ab *ActionBuilder) WithDescription(description string) *ActionBuilder {
	ab.action.Description = description
	return ab
}

// WithDescriptionf sets the action description delegating format and arguments to fmt.Sprintf
func (ab *ActionBuilder) WithDescriptionf(format string, a ...interface{}) *ActionBuilder {
	ab.action.Description = fmt.Sprintf(format, a...)
	return ab
}

// WithAnswerer sets the action's answerer function
func (ab *ActionBuilder) WithAnswerer(answerer dictscot.Answerer) *ActionBuilder {
	ab.action.Answer = answerer
	return ab
}

// Hidden sets the action to hidden
func (ab *ActionBuilder) Hidden() *ActionBuilder {
	ab.action.Hidden = true
	return ab
}

// Build returns the ActionDefinition
func (ab *ActionBuilder) Build() dictscot.ActionDefinition {
	return ab.action
}

// NewCommand returns a new CommandBuilder to build a new command with the given name
func NewCommand(name string) (cb *CommandBuilder) {
	cb = new(CommandBuilder)
	cb.command = dictscot.CommandDefinition{Name: name, Hidden: false}
	cb.command.Options = make([]dictscot.CommandOption, 0)
	cb.command.Answer = defaultCommandAnswerer

	return cb
}

// WithOption appends a required string option to the command
func (cb *CommandBuilder) WithOption(name string, description string) *CommandBuilder {
	cb.command.Options = append(cb.command.Options, dictscot.CommandOption{Name: name, Description: description, Required: true})
	return cb
}

// WithDescription sets the command description
func (cb *CommandBuilder) WithDescription(description string) *CommandBuilder {
	cb.command.Description = description
	return cb
}

// WithDescriptionf sets the command description delegating format and arguments to fmt.Sprintf
func (cb *CommandBuilder) WithDescriptionf(format string, a ...interface{}) *CommandBuilder {
	cb.command.Description = fmt.Sprintf(format, a...)
	return cb
}

// WithAnswerer sets the command's answerer function
func (cb *CommandBuilder) WithAnswerer(answerer dictscot.CommandAnswerer) *CommandBuilder {
	cb.command.Answer = answerer
	return cb
}

// Hidden sets the command to hidden
func (cb *CommandBuilder) Hidden() *CommandBuilder {
	cb.command.Hidden = true
	return cb
}

// Build returns the CommandDefinition
func (cb *CommandBuilder) Build() dictscot.CommandDefinition {
	return cb.command
}
