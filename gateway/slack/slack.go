// Package slack provides a dictscot Gateway connecting to Slack over RTM. Messages addressed to the bot
// (or sent in a direct channel) starting with a command name are delivered as CommandInvocations. All
// other messages are delivered as IncomingMessages
package slack

import (
	"context"
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/alexandre-normand/dictscot"
	"github.com/pkg/errors"
	"github.com/slack-go/slack"
)

const (
	defaultEventBufferSize = 100
	defaultLogPrefix       = "slack: "
	directChannelPrefix    = "D"
)

// Gateway is a Slack gateway
type Gateway struct {
	api *slack.Client
	rtm *slack.RTM
	log dictscot.SLogger

	threadedReplies bool
	eventBufferSize int

	events    chan dictscot.Event
	done      chan struct{}
	closeOnce sync.Once

	// Number of declared options by command name
	commands map[string]int

	// Self identity, only accessed by the event loop
	selfID         string
	selfName       string
	commandMatcher *regexp.Regexp
}

// Option defines an option for a Gateway
type Option func(*Gateway)

// OptionThreadedReplies sets answers to go in the thread of the message they answer unless
// the answer explicitly opts out of threading
func OptionThreadedReplies(threaded bool) func(*Gateway) {
	return func(g *Gateway) {
		g.threadedReplies = threaded
	}
}

// OptionLog sets the logger of the gateway
func OptionLog(logger dictscot.SLogger) func(*Gateway) {
	return func(g *Gateway) {
		g.log = logger
	}
}

// OptionEventBufferSize sets the number of events buffered before the gateway blocks
func OptionEventBufferSize(size int) func(*Gateway) {
	return func(g *Gateway) {
		g.eventBufferSize = size
	}
}

// New creates a new Slack gateway authenticating with a bot token
func New(token string, debug bool, options ...Option) (g *Gateway) {
	return newGateway(slack.New(token, slack.OptionDebug(debug)), options...)
}

func newGateway(api *slack.Client, options ...Option) (g *Gateway) {
	g = new(Gateway)
	g.api = api
	g.log = dictscot.NewSLogger(log.New(os.Stdout, defaultLogPrefix, log.Lshortfile|log.LstdFlags), false)
	g.eventBufferSize = defaultEventBufferSize
	g.done = make(chan struct{})
	g.commands = make(map[string]int)

	for _, opt := range options {
		opt(g)
	}

	g.events = make(chan dictscot.Event, g.eventBufferSize)

	return g
}

// Open starts the RTM connection. The returned channel is closed when the credentials are rejected
// or once the gateway is closed
func (g *Gateway) Open(ctx context.Context, commands []dictscot.CommandDefinition) (events <-chan dictscot.Event, err error) {
	for _, c := range commands {
		g.commands[c.Name] = len(c.Options)
	}

	g.rtm = g.api.NewRTM()
	go g.rtm.ManageConnection()
	go g.processRTMEvents(g.rtm.IncomingEvents)

	return g.events, nil
}

// Close disconnects from Slack
func (g *Gateway) Close() (err error) {
	g.closeOnce.Do(func() {
		close(g.done)
		if g.rtm != nil {
			err = g.rtm.Disconnect()
		}
	})

	return err
}

// processRTMEvents converts RTM events until the connection is rejected or the gateway is closed
func (g *Gateway) processRTMEvents(incoming <-chan slack.RTMEvent) {
	defer close(g.events)

	for {
		select {
		case <-g.done:
			return

		case msg, ok := <-incoming:
			if !ok {
				return
			}

			switch e := msg.Data.(type) {
			case *slack.ConnectedEvent:
				g.log.Printf("Connected (connection count [%d])", e.ConnectionCount)
				g.cacheSelfIdentity(e.Info)

			case *slack.MessageEvent:
				if ev, ok := g.toEvent(&e.Msg); ok {
					g.push(ev)
				}

			case *slack.RTMError:
				g.log.Printf("RTM error: %s", e.Error())

			case *slack.InvalidAuthEvent:
				g.log.Printf("Invalid credentials, terminating event processing")
				return

			default:
				g.log.Debugf("Ignoring event of type [%s]", msg.Type)
			}
		}
	}
}

// cacheSelfIdentity keeps the bot identity to recognize its own messages and commands addressed to it
func (g *Gateway) cacheSelfIdentity(info *slack.Info) {
	if info == nil || info.User == nil {
		return
	}

	g.selfID = info.User.ID
	g.selfName = info.User.Name
	g.commandMatcher = regexp.MustCompile(fmt.Sprintf("^(<@%s>|%s)[:]?\\s+(.+)", regexp.QuoteMeta(g.selfID), regexp.QuoteMeta(g.selfName)))

	g.log.Debugf("Caching self id [%s] and name [%s]", g.selfID, g.selfName)
}

// push delivers an event unless the gateway is closed
func (g *Gateway) push(e dictscot.Event) {
	select {
	case g.events <- e:
	case <-g.done:
		g.log.Debugf("Dropping event [%s] since the gateway is closed", e.EventID())
	}
}

// toEvent converts a message to a CommandInvocation when it invokes a known command and to an IncomingMessage
// otherwise. An IncomingMessage keeps the raw text, mention included. Edits, deletions and other messages
// with a subtype are ignored
func (g *Gateway) toEvent(m *slack.Msg) (e dictscot.Event, ok bool) {
	if m.SubType != "" {
		return nil, false
	}

	commandText := m.Text
	addressed := strings.HasPrefix(m.Channel, directChannelPrefix)
	if g.commandMatcher != nil {
		if matches := g.commandMatcher.FindStringSubmatch(m.Text); matches != nil {
			commandText = matches[2]
			addressed = true
		}
	}

	threadTimestamp := m.ThreadTimestamp
	if threadTimestamp == "" {
		threadTimestamp = m.Timestamp
	}
	id := m.Channel + ":" + m.Timestamp

	if addressed {
		name, rest := splitFirstWord(commandText)
		if optionCount, known := g.commands[name]; known {
			return &dictscot.CommandInvocation{ID: id, Name: name, Args: parseArgs(rest, optionCount), ChannelID: m.Channel, UserID: m.User, ThreadTimestamp: threadTimestamp}, true
		}
	}

	return &dictscot.IncomingMessage{ID: id, ChannelID: m.Channel, UserID: m.User, Text: m.Text, FromBot: m.BotID != "" || (g.selfID != "" && m.User == g.selfID), ThreadTimestamp: threadTimestamp}, true
}

// Send sends an answer on the channel of the message
func (g *Gateway) Send(ctx context.Context, m *dictscot.IncomingMessage, answer *dictscot.Answer) (err error) {
	_, _, _, err = g.api.SendMessageContext(ctx, m.ChannelID, g.msgOptions(answer, m.ThreadTimestamp, m.UserID)...)
	if err != nil {
		return errors.Wrapf(err, "sending answer to channel [%s]", m.ChannelID)
	}

	return nil
}

// Respond sends all answers to a command invocation in order
func (g *Gateway) Respond(ctx context.Context, c *dictscot.CommandInvocation, answers []*dictscot.Answer) (err error) {
	for i, a := range answers {
		_, _, _, err = g.api.SendMessageContext(ctx, c.ChannelID, g.msgOptions(a, c.ThreadTimestamp, c.UserID)...)
		if err != nil {
			return errors.Wrapf(err, "responding to invocation [%s] with answer [%d]", c.ID, i)
		}
	}

	return nil
}

// msgOptions converts answer options to slack message options
func (g *Gateway) msgOptions(a *dictscot.Answer, threadTimestamp string, userID string) (options []slack.MsgOption) {
	sendOpts := dictscot.ApplyAnswerOpts(a.Options...)
	options = []slack.MsgOption{slack.MsgOptionText(a.Text, false)}

	threaded := sendOpts[dictscot.ThreadedReplyOpt] == "true" || (g.threadedReplies && sendOpts[dictscot.ThreadedReplyOpt] != "false")
	if threaded && threadTimestamp != "" {
		options = append(options, slack.MsgOptionTS(threadTimestamp))
	}

	if sendOpts[dictscot.EphemeralOpt] == "true" && userID != "" {
		options = append(options, slack.MsgOptionPostEphemeral(userID))
	}

	return options
}

func splitFirstWord(text string) (first string, rest string) {
	text = strings.TrimSpace(text)

	i := strings.IndexFunc(text, unicode.IsSpace)
	if i < 0 {
		return text, ""
	}

	return text[:i], strings.TrimSpace(text[i:])
}

// parseArgs splits text in at most count arguments. The last argument takes the remainder of the text
func parseArgs(text string, count int) (args []string) {
	args = make([]string, 0, count)
	rest := strings.TrimSpace(text)

	for i := 0; i < count && rest != ""; i++ {
		if i == count-1 {
			args = append(args, rest)
			break
		}

		var arg string
		arg, rest = splitFirstWord(rest)
		args = append(args, arg)
	}

	return args
}
