package dictscot

import (
	"context"
)

// Responder is implemented by any value able to deliver answers. Gateways implement it and it is
// injected in the engine rather than exposed to plugins: plugins only return answers
type Responder interface {
	// Send sends an answer to a message on the channel the message was received on
	Send(ctx context.Context, m *IncomingMessage, answer *Answer) (err error)

	// Respond delivers all answers to a command invocation, in order
	Respond(ctx context.Context, c *CommandInvocation, answers []*Answer) (err error)
}

// Gateway is a chat platform connection delivering events and capable of responding to them
type Gateway interface {
	Responder

	// Open connects to the chat platform and registers the commands. Events are delivered on the
	// returned channel until the gateway is closed or the connection is lost (in which case the
	// channel is closed)
	Open(ctx context.Context, commands []CommandDefinition) (events <-chan Event, err error)

	// Close disconnects from the chat platform
	Close() (err error)
}
