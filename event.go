package dictscot

// Event is an inbound event delivered by a Gateway
type Event interface {
	// EventID uniquely identifies the event. A gateway re-delivering an event must
	// use the same identifier
	EventID() string

	// PartitionKey determines the processing partition of the event. Events with the same
	// key are processed in the order they were received
	PartitionKey() string
}

// IncomingMessage holds a chat message as delivered by a Gateway
type IncomingMessage struct {
	// ID is the platform message identifier
	ID string

	ChannelID string
	UserID    string

	// Text is the raw content of the message
	Text string

	// FromBot is true if the message was authored by a bot (including ourselves)
	FromBot bool

	// ThreadTimestamp is the thread a threaded answer goes to (slack only)
	ThreadTimestamp string
}

// EventID returns the message event identifier
func (m *IncomingMessage) EventID() string {
	return "message:" + m.ID
}

// PartitionKey returns the channel the message was sent on
func (m *IncomingMessage) PartitionKey() string {
	return m.ChannelID
}

// CommandInvocation holds the invocation of a command as delivered by a Gateway
type CommandInvocation struct {
	// ID is the platform invocation identifier
	ID string

	// Name is the name of the invoked command
	Name string

	// Args holds the string arguments in the order of the command's options
	Args []string

	ChannelID       string
	UserID          string
	ThreadTimestamp string

	// Ref is a gateway specific reference needed to respond to the invocation
	Ref interface{}
}

// EventID returns the command event identifier
func (c *CommandInvocation) EventID() string {
	return "command:" + c.ID
}

// PartitionKey returns the channel the command was invoked on
func (c *CommandInvocation) PartitionKey() string {
	return c.ChannelID
}

// Arg returns the argument at position i and true if the argument is present
func (c *CommandInvocation) Arg(i int) (value string, ok bool) {
	if i < 0 || i >= len(c.Args) {
		return "", false
	}

	return c.Args[i], true
}
