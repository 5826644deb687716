package actions_test

import (
	"context"
	"testing"

	"github.com/alexandre-normand/dictscot"
	"github.com/alexandre-normand/dictscot/actions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHearActionWithDefaults(t *testing.T) {
	action := actions.NewHearAction().Build()
	assert.False(t, action.Hidden)
	assert.True(t, action.Match(&dictscot.IncomingMessage{}))

	a, err := action.Answer(context.Background(), &dictscot.IncomingMessage{})
	assert.NoError(t, err)
	assert.Nil(t, a)
}

func TestNewActionWithMatcher(t *testing.T) {
	action := actions.NewHearAction().
		WithMatcher(func(m *dictscot.IncomingMessage) bool {
			return false
		}).
		Build()

	assert.False(t, action.Match(&dictscot.IncomingMessage{}))
}

func TestNewActionWithAnswerer(t *testing.T) {
	action := actions.NewHearAction().
		WithAnswerer(func(ctx context.Context, m *dictscot.IncomingMessage) (*dictscot.Answer, error) {
			return &dictscot.Answer{Text: "fake answer"}, nil
		}).
		Build()

	a, err := action.Answer(context.Background(), &dictscot.IncomingMessage{})
	assert.NoError(t, err)
	assert.Equal(t, &dictscot.Answer{Text: "fake answer"}, a)
}

func TestNewActionWithUsage(t *testing.T) {
	action := actions.NewHearAction().
		WithUsage("make something").
		Build()

	assert.Equal(t, "make something", action.Usage)
}

func TestNewActionWithDescription(t *testing.T) {
	action := actions.NewHearAction().
		WithDescription("Instruct me to make something").
		Build()

	assert.Equal(t, "Instruct me to make something", action.Description)
}

func TestNewActionWithDescriptionf(t *testing.T) {
	action := actions.NewHearAction().
		WithDescriptionf("Instruct me to make one of %s", []string{"coffee", "soup"}).
		Build()

	assert.Equal(t, "Instruct me to make one of [coffee soup]", action.Description)
}

func TestNewHiddenAction(t *testing.T) {
	action := actions.NewHearAction().
		Hidden().
		Build()

	assert.True(t, action.Hidden)
}

func TestNewCommandWithDefaults(t *testing.T) {
	command := actions.NewCommand("make").Build()
	assert.Equal(t, "make", command.Name)
	assert.False(t, command.Hidden)
	assert.Empty(t, command.Options)

	answers, err := command.Answer(context.Background(), &dictscot.CommandInvocation{})
	assert.NoError(t, err)
	assert.Nil(t, answers)
}

func TestNewCommandWithOptions(t *testing.T) {
	command := actions.NewCommand("register").
		WithOption("word", "The word").
		WithOption("meaning", "Its meaning").
		Build()

	require.Len(t, command.Options, 2)
	assert.Equal(t, dictscot.CommandOption{Name: "word", Description: "The word", Required: true}, command.Options[0])
	assert.Equal(t, dictscot.CommandOption{Name: "meaning", Description: "Its meaning", Required: true}, command.Options[1])
	assert.Equal(t, "register <word> <meaning>", command.Usage())
}

func TestNewCommandWithAnswerer(t *testing.T) {
	command := actions.NewCommand("make").
		WithAnswerer(func(ctx context.Context, c *dictscot.CommandInvocation) ([]*dictscot.Answer, error) {
			return []*dictscot.Answer{{Text: "made"}}, nil
		}).
		Build()

	answers, err := command.Answer(context.Background(), &dictscot.CommandInvocation{})
	assert.NoError(t, err)
	assert.Equal(t, []*dictscot.Answer{{Text: "made"}}, answers)
}

func TestNewCommandWithDescriptionf(t *testing.T) {
	command := actions.NewCommand("make").
		WithDescriptionf("Make one of %s", []string{"coffee", "soup"}).
		Build()

	assert.Equal(t, "Make one of [coffee soup]", command.Description)
}

func TestNewHiddenCommand(t *testing.T) {
	command := actions.NewCommand("secret").
		WithDescription("Shh").
		Hidden().
		Build()

	assert.True(t, command.Hidden)
	assert.Equal(t, "Shh", command.Description)
}
