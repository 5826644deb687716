package dictscot

import (
	"context"
	"fmt"
	"io"
	"strings"
)

type helpPlugin struct {
	Plugin

	name            string
	dictscotVersion string
	commands        []CommandDefinition
	hearActions     []ActionDefinition
}

const (
	helpPluginName  = "help"
	helpCommandName = "help"
)

// newHelpPlugin creates the help plugin describing the plugins registered so far
func (s *Dictscot) newHelpPlugin(version string) *helpPlugin {
	commands, hearActions := findAllActions(s.plugins)

	helpPlugin := new(helpPlugin)
	helpPlugin.name = s.name
	helpPlugin.dictscotVersion = version
	helpPlugin.commands = commands
	helpPlugin.hearActions = hearActions

	helpPlugin.Plugin = Plugin{Name: helpPluginName, Commands: []CommandDefinition{{
		Name:        helpCommandName,
		Description: "Reply with usage instructions",
		Answer:      helpPlugin.showHelp,
	}}, HearActions: nil}

	return helpPlugin
}

// showHelp generates a message providing a list of all of the dictscot commands and hear actions.
// Note that definitions with the flag Hidden set to true won't be included in the list
func (h *helpPlugin) showHelp(ctx context.Context, c *CommandInvocation) ([]*Answer, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "I'm `%s` (engine `v%s`) and I listen to the chat and answer with what my dictionary knows :books:.\n", h.name, h.dictscotVersion)

	if len(h.commands) > 0 {
		fmt.Fprintf(&b, "\nI currently support the following commands:\n")

		appendCommands(&b, h.commands)
	}

	if len(h.hearActions) > 0 {
		fmt.Fprintf(&b, "\nAnd listen for the following:\n")

		appendActions(&b, h.hearActions)
	}

	return []*Answer{{Text: b.String(), Options: []AnswerOption{AnswerInThread(), AnswerEphemeral()}}}, nil
}

func appendCommands(w io.Writer, commands []CommandDefinition) {
	for _, value := range commands {
		fmt.Fprintf(w, "\t• %s\n", value)
	}
}

func appendActions(w io.Writer, actions []ActionDefinition) {
	for _, value := range actions {
		if value.Usage != "" {
			fmt.Fprintf(w, "\t• %s\n", value)
		}
	}
}

func findAllActions(plugins []*Plugin) (commands []CommandDefinition, hearActions []ActionDefinition) {
	commands = make([]CommandDefinition, 0)
	hearActions = make([]ActionDefinition, 0)

	for _, p := range plugins {
		commands = append(commands, filterNonHiddenCommands(p.Commands)...)
		hearActions = append(hearActions, filterNonHiddenActions(p.HearActions)...)
	}

	return commands, hearActions
}

func filterNonHiddenCommands(commands []CommandDefinition) (visibleCommands []CommandDefinition) {
	visibleCommands = make([]CommandDefinition, 0)
	for _, c := range commands {
		if !c.Hidden {
			visibleCommands = append(visibleCommands, c)
		}
	}

	return visibleCommands
}

func filterNonHiddenActions(actions []ActionDefinition) (visibleActions []ActionDefinition) {
	visibleActions = make([]ActionDefinition, 0)
	for _, a := range actions {
		if !a.Hidden {
			visibleActions = append(visibleActions, a)
		}
	}

	return visibleActions
}
