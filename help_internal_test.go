package dictscot

import (
	"context"
	"testing"

	"github.com/alexandre-normand/dictscot/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPluginWithActionsOfAllTypes() (p *Plugin) {
	p = new(Plugin)
	p.Name = "thank"
	p.Commands = []CommandDefinition{{
		Name:        "thank",
		Description: "Format a thank you note",
		Options:     []CommandOption{{Name: "someone", Description: "Someone to thank", Required: true}},
		Answer: func(ctx context.Context, c *CommandInvocation) ([]*Answer, error) {
			return nil, nil
		}}, {
		Hidden:      true,
		Name:        "secret",
		Description: "Not listed",
		Answer: func(ctx context.Context, c *CommandInvocation) ([]*Answer, error) {
			return nil, nil
		}}}

	p.HearActions = []ActionDefinition{{
		Match: func(m *IncomingMessage) bool {
			return true
		},
		Usage:       "say `chickadee` and hear a chirp",
		Description: "Chirp when hearing people talk about chickadees",
		Answer: func(ctx context.Context, m *IncomingMessage) (*Answer, error) {
			return nil, nil
		}}, {
		Hidden: true,
		Match: func(m *IncomingMessage) bool {
			return true
		},
		Usage:       "whisper",
		Description: "Not listed either",
		Answer: func(ctx context.Context, m *IncomingMessage) (*Answer, error) {
			return nil, nil
		}}}

	return p
}

func TestHelp(t *testing.T) {
	s, err := New("robert", config.NewDefaults())
	require.NoError(t, err)

	s.RegisterPlugin(newPluginWithActionsOfAllTypes())

	help := s.newHelpPlugin("1.0.0")

	require.Len(t, help.Commands, 1)
	cmd := help.Commands[0]
	assert.Equal(t, "help", cmd.Name)

	answers, err := cmd.Answer(context.Background(), &CommandInvocation{ID: "1", Name: "help"})
	require.NoError(t, err)
	require.Len(t, answers, 1)

	assert.Equal(t, "I'm `robert` (engine `v1.0.0`) and I listen to the chat and answer with what my dictionary knows :books:.\n\n"+
		"I currently support the following commands:\n\t• `thank <someone>` - Format a thank you note\n\nAnd listen for the following:\n"+
		"\t• `say `chickadee` and hear a chirp` - Chirp when hearing people talk about chickadees\n", answers[0].Text)
	assert.Equal(t, map[string]string{ThreadedReplyOpt: "true", EphemeralOpt: "true"}, ApplyAnswerOpts(answers[0].Options...))
}

func TestHelpWithoutPlugins(t *testing.T) {
	s, err := New("robert", config.NewDefaults())
	require.NoError(t, err)

	help := s.newHelpPlugin("1.0.0")

	answers, err := help.Commands[0].Answer(context.Background(), &CommandInvocation{ID: "1", Name: "help"})
	require.NoError(t, err)
	require.Len(t, answers, 1)

	assert.Equal(t, "I'm `robert` (engine `v1.0.0`) and I listen to the chat and answer with what my dictionary knows :books:.\n", answers[0].Text)
}
