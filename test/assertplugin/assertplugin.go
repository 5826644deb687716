package assertplugin

import (
	"context"
	"fmt"
	"log"
	"strings"
	"testing"

	"github.com/alexandre-normand/dictscot"
)

// Asserter represents a plugin driver/asserter and holds the testing instance on which
// validations are reported
type Asserter struct {
	t      *testing.T
	ctx    context.Context
	logger *log.Logger
}

// New creates a new asserter reporting to t
func New(t *testing.T, options ...Option) (a *Asserter) {
	a = new(Asserter)
	a.t = t
	a.ctx = context.Background()

	for _, option := range options {
		option(a)
	}

	return a
}

// Option defines an option for the Asserter
type Option func(*Asserter)

// OptionLog sets a logger for the asserter such that this logger is attached to the plugin when driven by
// the asserter
func OptionLog(logger *log.Logger) func(*Asserter) {
	return func(a *Asserter) {
		a.logger = logger
	}
}

// OptionContext sets the context passed to the plugin's answerers
func OptionContext(ctx context.Context) func(*Asserter) {
	return func(a *Asserter) {
		a.ctx = ctx
	}
}

// ResultValidator is a function to do further validation of the answers (and error) resulting from
// a plugin processing an event. The return value is meant to be true if validation is successful
// and false otherwise (following the testify convention)
type ResultValidator func(t *testing.T, answers []*dictscot.Answer, err error) bool

// Hears drives the plugin's hear actions with a message the way dictscot does: messages from bots
// are ignored and the first matching action returning an answer is the only one answering. Once done,
// it passes handling to a validator to assert the expected answers
func (a *Asserter) Hears(p *dictscot.Plugin, m *dictscot.IncomingMessage, validate ResultValidator) (valid bool) {
	p.Logger = dictscot.NewSLogger(getLogger(a), true)

	answers, err := a.driveHearActions(p, m)

	return validate(a.t, answers, err)
}

// Invokes drives the plugin's command named by the invocation and passes its non-nil answers to
// a validator. Invoking a command the plugin doesn't define results in an error
func (a *Asserter) Invokes(p *dictscot.Plugin, c *dictscot.CommandInvocation, validate ResultValidator) (valid bool) {
	p.Logger = dictscot.NewSLogger(getLogger(a), true)

	answers, err := a.driveCommand(p, c)

	return validate(a.t, answers, err)
}

func getLogger(a *Asserter) (logger *log.Logger) {
	if a.logger != nil {
		return a.logger
	}

	var b strings.Builder
	return log.New(&b, "", 0)
}

func (a *Asserter) driveHearActions(p *dictscot.Plugin, m *dictscot.IncomingMessage) (answers []*dictscot.Answer, err error) {
	answers = make([]*dictscot.Answer, 0)

	if m.FromBot {
		return answers, nil
	}

	for _, action := range p.HearActions {
		if !action.Match(m) {
			continue
		}

		answer, err := action.Answer(a.ctx, m)
		if err != nil {
			return answers, err
		}

		if answer != nil {
			return append(answers, answer), nil
		}
	}

	return answers, nil
}

func (a *Asserter) driveCommand(p *dictscot.Plugin, c *dictscot.CommandInvocation) (answers []*dictscot.Answer, err error) {
	answers = make([]*dictscot.Answer, 0)

	for _, command := range p.Commands {
		if command.Name != c.Name {
			continue
		}

		all, err := command.Answer(a.ctx, c)
		for _, answer := range all {
			if answer != nil {
				answers = append(answers, answer)
			}
		}

		return answers, err
	}

	return answers, fmt.Errorf("Plugin [%s] has no command [%s]", p.Name, c.Name)
}
