package dictscot

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/alexandre-normand/dictscot/config"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const (
	defaultLogPrefix = "dictscot: "
	defaultLogFlag   = log.Lshortfile | log.LstdFlags
	meterName        = "github.com/alexandre-normand/dictscot"
)

// Dictscot represents what defines a bot instance (mostly, a name and its plugins)
type Dictscot struct {
	name    string
	config  config.BotConfig
	plugins []*Plugin
	closers []io.Closer

	// Internal state as an optimization when looking up commands and looping through hear actions
	commands    map[string]pluginCommand
	hearActions []pluginAction

	// Ids of recently handled events used to drop re-delivered events
	handledEvents *lru.Cache

	log   *sLogger
	meter metric.Meter
	*instrumenter
}

// Plugin represents a plugin (its name and action definitions)
type Plugin struct {
	Name        string
	Commands    []CommandDefinition
	HearActions []ActionDefinition

	// Logger is injected by the engine when the plugin is registered
	Logger SLogger
}

// ActionDefinition represents how a hear action is triggered, described and answered
type ActionDefinition struct {
	// Indicates whether the action should be omitted from the help message
	Hidden bool

	// Matcher that will determine whether or not the action should be triggered
	Match Matcher

	// Usage example
	Usage string

	// Help description for the action
	Description string

	// Function to execute if the Matcher matches
	Answer Answerer
}

// CommandOption describes a positional string option of a command
type CommandOption struct {
	Name        string
	Description string
	Required    bool
}

// CommandDefinition represents a command: its name, options and the function answering its invocations
type CommandDefinition struct {
	// Indicates whether the command should be omitted from the help message
	Hidden bool

	// Name of the command, unique across all plugins
	Name string

	// Help description for the command
	Description string

	// Positional options of the command
	Options []CommandOption

	// Function to execute when the command is invoked
	Answer CommandAnswerer
}

// Matcher is the function that determines whether or not an action should be triggered. Note that a match doesn't guarantee
// that the action should actually respond with anything once invoked
type Matcher func(m *IncomingMessage) bool

// Answerer is what gets executed when an ActionDefinition is triggered. A nil answer means no reply. An error
// fails the handling of that one message
type Answerer func(ctx context.Context, m *IncomingMessage) (a *Answer, err error)

// CommandAnswerer is what gets executed when a command is invoked. All returned answers are delivered in order
type CommandAnswerer func(ctx context.Context, c *CommandInvocation) (answers []*Answer, err error)

// String returns a friendly description of an ActionDefinition
func (a ActionDefinition) String() string {
	return fmt.Sprintf("`%s` - %s", a.Usage, a.Description)
}

// Usage returns the usage of a command (its name followed by its options)
func (c CommandDefinition) Usage() string {
	usage := c.Name
	for _, o := range c.Options {
		usage = usage + fmt.Sprintf(" <%s>", o.Name)
	}

	return usage
}

// String returns a friendly description of a CommandDefinition
func (c CommandDefinition) String() string {
	return fmt.Sprintf("`%s` - %s", c.Usage(), c.Description)
}

type pluginCommand struct {
	CommandDefinition
	plugin string
}

type pluginAction struct {
	ActionDefinition
	id     string
	plugin string
}

// Option defines an option for a Dictscot
type Option func(*Dictscot)

// OptionLog sets a logger for Dictscot
func OptionLog(logger *log.Logger) func(*Dictscot) {
	return func(s *Dictscot) {
		s.log.logger = logger
	}
}

// OptionLogfile sets a logfile for Dictscot (using the standard prefix and flag)
func OptionLogfile(logfile *os.File) func(*Dictscot) {
	return func(s *Dictscot) {
		s.log.logger = log.New(logfile, defaultLogPrefix, defaultLogFlag)
	}
}

// OptionMeter sets the meter used to instrument Dictscot. It defaults to the global meter provider's meter
func OptionMeter(meter metric.Meter) func(*Dictscot) {
	return func(s *Dictscot) {
		s.meter = meter
	}
}

// New creates a new dictscot from a name and its configuration
func New(name string, c config.BotConfig, options ...Option) (s *Dictscot, err error) {
	s = new(Dictscot)
	s.name = name
	s.config = c
	s.plugins = make([]*Plugin, 0)
	s.closers = make([]io.Closer, 0)
	s.log = NewSLogger(log.New(os.Stdout, defaultLogPrefix, defaultLogFlag), c.Debug)
	s.meter = otel.Meter(meterName)

	for _, opt := range options {
		opt(s)
	}

	s.handledEvents, err = lru.New(c.HandledEventCacheSize)
	if err != nil {
		return nil, errors.Wrapf(err, "creating handled event cache of size [%d]", c.HandledEventCacheSize)
	}

	s.instrumenter, err = newInstrumenter(name, s.meter)
	if err != nil {
		return nil, err
	}

	return s, nil
}

// RegisterPlugin registers a plugin with the Dictscot engine. This should be invoked
// prior to calling Run
func (s *Dictscot) RegisterPlugin(p *Plugin) {
	if p.Logger == nil {
		p.Logger = s.log
	}

	s.plugins = append(s.plugins, p)
}

// Close closes all closers of this Dictscot. The first error that occurred during a Close is returned
// but regardless, all closers are attempted to be closed
func (s *Dictscot) Close() (err error) {
	for _, c := range s.closers {
		cerr := c.Close()
		if cerr != nil {
			s.log.Printf("Error closing [%v]: %v", c, cerr)

			if err == nil {
				err = cerr
			}
		}
	}

	return err
}

// Run opens the gateway (registering all commands) and processes events until the context is cancelled
// or the gateway stops delivering events. In-flight events are allowed to complete before returning
func (s *Dictscot) Run(ctx context.Context, gw Gateway) (err error) {
	// Add the help plugin now that we know all plugins have been registered
	helpPlugin := s.newHelpPlugin(VERSION)
	s.RegisterPlugin(&helpPlugin.Plugin)

	if err = s.indexPluginActions(); err != nil {
		return err
	}

	pr, err := newPartitionRouter(s.config.Advanced.MessageProcessingPartitionCount, s.config.Advanced.MessageProcessingBufferedMessageCount, s.log, s.instrumenter)
	if err != nil {
		return err
	}

	events, err := gw.Open(ctx, s.commandDefinitions())
	if err != nil {
		return errors.Wrap(err, "opening gateway")
	}

	defer func() {
		if cerr := gw.Close(); cerr != nil {
			s.log.Printf("Error closing gateway: %v", cerr)
		}
	}()

	// Events already dispatched are completed even once ctx is done
	procCtx := context.WithoutCancel(ctx)
	pr.start(func(e Event) {
		s.processEvent(procCtx, gw, e)
	})
	defer pr.stop()

	s.log.Printf("Processing events with [%d] partitions", s.config.Advanced.MessageProcessingPartitionCount)

	for {
		select {
		case <-ctx.Done():
			s.log.Debugf("Context done [%v], terminating processing", ctx.Err())
			return nil

		case e, ok := <-events:
			if !ok {
				s.log.Printf("Gateway event stream closed, terminating processing")
				return nil
			}

			s.eventsSeen.Add(ctx, 1, s.attributes(eventType(e)))
			pr.routeEvent(e)
		}
	}
}

// indexPluginActions indexes commands by name and attaches an identifier to every hear action.
// Hear action identifiers are generated as pluginName.h[pluginIndexOfTheHearAction]
func (s *Dictscot) indexPluginActions() (err error) {
	s.commands = make(map[string]pluginCommand)
	s.hearActions = make([]pluginAction, 0)

	for _, p := range s.plugins {
		for _, c := range p.Commands {
			if existing, ok := s.commands[c.Name]; ok {
				return fmt.Errorf("Command [%s] of plugin [%s] is already defined by plugin [%s]", c.Name, p.Name, existing.plugin)
			}

			s.commands[c.Name] = pluginCommand{CommandDefinition: c, plugin: p.Name}
		}

		for i, a := range p.HearActions {
			s.hearActions = append(s.hearActions, pluginAction{ActionDefinition: a, id: fmt.Sprintf("%s.h[%d]", p.Name, i), plugin: p.Name})
		}
	}

	return nil
}

// commandDefinitions returns all command definitions in plugin registration order
func (s *Dictscot) commandDefinitions() (commands []CommandDefinition) {
	commands = make([]CommandDefinition, 0)
	for _, p := range s.plugins {
		commands = append(commands, p.Commands...)
	}

	return commands
}

// processEvent handles one event. Each event is isolated: a failure or panic while handling it is logged and
// doesn't affect any other event
func (s *Dictscot) processEvent(ctx context.Context, r Responder, e Event) {
	et := eventType(e)

	defer func() {
		if rec := recover(); rec != nil {
			s.log.Printf("Recovered from panic while processing event [%s]: %v", e.EventID(), rec)
			s.handlerErrors.Add(ctx, 1, s.attributes(et))
		}
	}()

	if handled, _ := s.handledEvents.ContainsOrAdd(e.EventID(), true); handled {
		s.log.Debugf("Ignoring event [%s] since it was already handled", e.EventID())
		return
	}

	d := measure(func() {
		switch ev := e.(type) {
		case *IncomingMessage:
			s.processMessage(ctx, r, ev)
		case *CommandInvocation:
			s.processCommand(ctx, r, ev)
		default:
			s.log.Printf("Ignoring event [%s] of unsupported type [%T]", e.EventID(), e)
		}
	})

	s.eventsProcessed.Add(ctx, 1, s.attributes(et))
	s.processingLatencyMillis.Record(ctx, d.Milliseconds(), s.attributes(et))
}

// processMessage runs hear actions for a message. The first matching action with an answer is the one
// replying so that a message gets at most one reply
func (s *Dictscot) processMessage(ctx context.Context, r Responder, m *IncomingMessage) {
	if m.FromBot {
		s.log.Debugf("Ignoring message [%s] from bot user [%s]", m.ID, m.UserID)
		return
	}

	for _, action := range s.hearActions {
		if !action.Match(m) {
			continue
		}

		a, err := action.Answer(ctx, m)
		if err != nil {
			s.log.Printf("Error answering message [%s] with [%s]: %v", m.ID, action.id, err)
			s.handlerErrors.Add(ctx, 1, s.pluginAttributes(action.plugin))
			return
		}

		if a == nil {
			continue
		}

		if err = r.Send(ctx, m, a); err != nil {
			s.log.Printf("Unable to send answer from [%s] to message [%s]: %v", action.id, m.ID, err)
			return
		}

		s.answersSent.Add(ctx, 1, s.pluginAttributes(action.plugin))
		return
	}
}

// processCommand runs the command invoked and delivers its answers, if any
func (s *Dictscot) processCommand(ctx context.Context, r Responder, c *CommandInvocation) {
	command, ok := s.commands[c.Name]
	if !ok {
		s.log.Debugf("Ignoring invocation [%s] of unknown command [%s]", c.ID, c.Name)
		return
	}

	answers, err := command.Answer(ctx, c)
	if err != nil {
		s.log.Printf("Error answering command [%s] invocation [%s]: %v", c.Name, c.ID, err)
		s.handlerErrors.Add(ctx, 1, s.pluginAttributes(command.plugin))
		return
	}

	answers = nonNilAnswers(answers)
	if len(answers) == 0 {
		s.log.Debugf("No answer to command [%s] invocation [%s]", c.Name, c.ID)
		return
	}

	if err = r.Respond(ctx, c, answers); err != nil {
		s.log.Printf("Unable to respond to command [%s] invocation [%s]: %v", c.Name, c.ID, err)
		return
	}

	s.answersSent.Add(ctx, int64(len(answers)), s.pluginAttributes(command.plugin))
}

func nonNilAnswers(answers []*Answer) (filtered []*Answer) {
	filtered = make([]*Answer, 0, len(answers))
	for _, a := range answers {
		if a != nil {
			filtered = append(filtered, a)
		}
	}

	return filtered
}

type timed func()

// measure returns the execution duration of a timed function
func measure(operation timed) (d time.Duration) {
	before := time.Now()

	operation()

	return time.Since(before)
}
