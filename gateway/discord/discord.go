// Package discord provides a dictscot Gateway connecting to Discord. Messages are delivered as
// IncomingMessages and application (slash) command interactions as CommandInvocations
package discord

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/alexandre-normand/dictscot"
	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

const (
	defaultEventBufferSize = 100
	defaultLogPrefix       = "discord: "
)

// Intents needed to receive guild messages along with their content
const Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentMessageContent

// session is the subset of a discordgo session used by the gateway
type session interface {
	Open() error
	Close() error
	AddHandler(handler interface{}) func()
	SelfID() string
	ApplicationCommandCreate(appID string, guildID string, cmd *discordgo.ApplicationCommand, options ...discordgo.RequestOption) (*discordgo.ApplicationCommand, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// discordSession adapts a discordgo session to session
type discordSession struct {
	*discordgo.Session
}

// SelfID returns the user id of the bot once the session is open
func (ds discordSession) SelfID() string {
	if ds.State == nil || ds.State.User == nil {
		return ""
	}

	return ds.State.User.ID
}

// Gateway is a Discord gateway
type Gateway struct {
	session session
	guildID string
	log     dictscot.SLogger

	eventBufferSize int
	events          chan dictscot.Event
	done            chan struct{}
	closeOnce       sync.Once

	// Declared option names by command name, used to order interaction options
	commandOptions map[string][]string
}

// Option defines an option for a Gateway
type Option func(*Gateway)

// OptionGuildID registers commands in a single guild rather than globally
func OptionGuildID(guildID string) func(*Gateway) {
	return func(g *Gateway) {
		g.guildID = guildID
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

// New creates a new Discord gateway authenticating with a bot token
func New(token string, options ...Option) (g *Gateway, err error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, errors.Wrap(err, "creating discord session")
	}
	s.Identify.Intents = Intents

	return newGateway(discordSession{Session: s}, options...), nil
}

func newGateway(s session, options ...Option) (g *Gateway) {
	g = new(Gateway)
	g.session = s
	g.log = dictscot.NewSLogger(log.New(os.Stdout, defaultLogPrefix, log.Lshortfile|log.LstdFlags), false)
	g.eventBufferSize = defaultEventBufferSize
	g.done = make(chan struct{})
	g.commandOptions = make(map[string][]string)

	for _, opt := range options {
		opt(g)
	}

	g.events = make(chan dictscot.Event, g.eventBufferSize)

	return g
}

// Open connects to Discord and registers all commands. The returned channel is never closed: the gateway
// reconnects on its own and stops delivering events once closed
func (g *Gateway) Open(ctx context.Context, commands []dictscot.CommandDefinition) (events <-chan dictscot.Event, err error) {
	// Filled before any handler can run and read-only afterwards
	for _, c := range commands {
		g.commandOptions[c.Name] = optionNames(c)
	}

	g.session.AddHandler(g.onReady)
	g.session.AddHandler(g.onMessageCreate)
	g.session.AddHandler(g.onInteractionCreate)

	if err = g.session.Open(); err != nil {
		return nil, errors.Wrap(err, "connecting to discord")
	}

	appID := g.session.SelfID()
	for _, c := range commands {
		if _, err = g.session.ApplicationCommandCreate(appID, g.guildID, toApplicationCommand(c), discordgo.WithContext(ctx)); err != nil {
			return nil, errors.Wrapf(err, "registering command [%s]", c.Name)
		}

		g.log.Debugf("Registered command [%s] (guild [%s])", c.Name, g.guildID)
	}

	return g.events, nil
}

// Close disconnects from Discord
func (g *Gateway) Close() (err error) {
	g.closeOnce.Do(func() {
		close(g.done)
		err = g.session.Close()
	})

	return err
}

// Send sends an answer on the channel of the message. A threaded answer is sent as a reply to the message
func (g *Gateway) Send(ctx context.Context, m *dictscot.IncomingMessage, answer *dictscot.Answer) (err error) {
	_, err = g.session.ChannelMessageSendComplex(m.ChannelID, toMessageSend(m, answer), discordgo.WithContext(ctx))
	if err != nil {
		return errors.Wrapf(err, "sending answer to channel [%s]", m.ChannelID)
	}

	return nil
}

// Respond answers an interaction. Discord accepts a single response per interaction so the first answer is
// the interaction response and the following ones are sent as followup messages
func (g *Gateway) Respond(ctx context.Context, c *dictscot.CommandInvocation, answers []*dictscot.Answer) (err error) {
	interaction, ok := c.Ref.(*discordgo.Interaction)
	if !ok {
		return fmt.Errorf("Invocation [%s] of [%s] has no discord interaction to respond to", c.ID, c.Name)
	}

	for i, a := range answers {
		if i == 0 {
			err = g.session.InteractionRespond(interaction, toInteractionResponse(a), discordgo.WithContext(ctx))
		} else {
			_, err = g.session.FollowupMessageCreate(interaction, true, toWebhookParams(a), discordgo.WithContext(ctx))
		}

		if err != nil {
			return errors.Wrapf(err, "responding to interaction [%s] with answer [%d]", interaction.ID, i)
		}
	}

	return nil
}

func (g *Gateway) onReady(s *discordgo.Session, r *discordgo.Ready) {
	g.log.Printf("Successfully connected to gateway as [%s]", r.User.Username)
}

func (g *Gateway) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	g.push(toIncomingMessage(m.Message, g.session.SelfID()))
}

func (g *Gateway) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	c, ok := toCommandInvocation(i.Interaction, g.commandOptions)
	if !ok {
		g.log.Debugf("Ignoring interaction [%s] of type [%v]", i.ID, i.Type)
		return
	}

	g.push(c)
}

// push delivers an event unless the gateway is closed
func (g *Gateway) push(e dictscot.Event) {
	select {
	case g.events <- e:
	case <-g.done:
		g.log.Debugf("Dropping event [%s] since the gateway is closed", e.EventID())
	}
}

func optionNames(c dictscot.CommandDefinition) (names []string) {
	names = make([]string, 0, len(c.Options))
	for _, o := range c.Options {
		names = append(names, o.Name)
	}

	return names
}

// toApplicationCommand converts a command definition to a slash command. All options are strings
func toApplicationCommand(c dictscot.CommandDefinition) (ac *discordgo.ApplicationCommand) {
	ac = &discordgo.ApplicationCommand{Name: c.Name, Description: orDefault(c.Description, c.Name)}

	for _, o := range c.Options {
		ac.Options = append(ac.Options, &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        o.Name,
			Description: orDefault(o.Description, o.Name),
			Required:    o.Required,
		})
	}

	return ac
}

func toIncomingMessage(m *discordgo.Message, selfID string) (im *dictscot.IncomingMessage) {
	im = &dictscot.IncomingMessage{ID: m.ID, ChannelID: m.ChannelID, Text: m.Content}

	if m.Author != nil {
		im.UserID = m.Author.ID
		im.FromBot = m.Author.Bot || m.Author.ID == selfID
	}

	return im
}

// toCommandInvocation converts an application command interaction. Arguments follow the declared option
// order and stop at the first missing option
func toCommandInvocation(i *discordgo.Interaction, commandOptions map[string][]string) (c *dictscot.CommandInvocation, ok bool) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return nil, false
	}

	data := i.ApplicationCommandData()
	c = &dictscot.CommandInvocation{ID: i.ID, Name: data.Name, ChannelID: i.ChannelID, Ref: i}

	if i.Member != nil && i.Member.User != nil {
		c.UserID = i.Member.User.ID
	} else if i.User != nil {
		c.UserID = i.User.ID
	}

	values := make(map[string]string)
	for _, o := range data.Options {
		values[o.Name] = cast.ToString(o.Value)
	}

	c.Args = make([]string, 0, len(values))
	for _, name := range commandOptions[data.Name] {
		v, present := values[name]
		if !present {
			break
		}

		c.Args = append(c.Args, v)
	}

	return c, true
}

func toMessageSend(m *dictscot.IncomingMessage, a *dictscot.Answer) (ms *discordgo.MessageSend) {
	ms = &discordgo.MessageSend{Content: a.Text}

	if dictscot.ApplyAnswerOpts(a.Options...)[dictscot.ThreadedReplyOpt] == "true" {
		ms.Reference = &discordgo.MessageReference{MessageID: m.ID, ChannelID: m.ChannelID}
	}

	return ms
}

func toInteractionResponse(a *dictscot.Answer) (r *discordgo.InteractionResponse) {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: a.Text, Flags: messageFlags(a)},
	}
}

func toWebhookParams(a *dictscot.Answer) (p *discordgo.WebhookParams) {
	return &discordgo.WebhookParams{Content: a.Text, Flags: messageFlags(a)}
}

func messageFlags(a *dictscot.Answer) (flags discordgo.MessageFlags) {
	if dictscot.ApplyAnswerOpts(a.Options...)[dictscot.EphemeralOpt] == "true" {
		flags = flags | discordgo.MessageFlagsEphemeral
	}

	return flags
}

func orDefault(value string, defaultValue string) string {
	if value == "" {
		return defaultValue
	}

	return value
}
