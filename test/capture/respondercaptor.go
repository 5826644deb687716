// Package capture provides a Responder captor to test the answers delivered by a dictscot instance
package capture

import (
	"context"
	"sync"

	"github.com/alexandre-normand/dictscot"
)

// ResponderCaptor holds answers delivered to it keyed by channel ID. It is safe for
// use by concurrent partition workers
type ResponderCaptor struct {
	mu sync.Mutex

	// SentMessages holds the text of every answer keyed by channel ID, in delivery order
	SentMessages map[string][]string

	// CommandResponses holds the answers to command invocations keyed by invocation ID
	CommandResponses map[string][]*dictscot.Answer

	// MessageAnswers holds the answers to messages keyed by message ID
	MessageAnswers map[string][]*dictscot.Answer

	// Err is returned by Send and Respond when set
	Err error
}

// NewResponder returns a new initialized ResponderCaptor instance
func NewResponder() (rc *ResponderCaptor) {
	rc = new(ResponderCaptor)
	rc.SentMessages = make(map[string][]string)
	rc.CommandResponses = make(map[string][]*dictscot.Answer)
	rc.MessageAnswers = make(map[string][]*dictscot.Answer)

	return rc
}

// Send captures the answer to a message along with the channel it's sent to
func (rc *ResponderCaptor) Send(ctx context.Context, m *dictscot.IncomingMessage, answer *dictscot.Answer) (err error) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if rc.Err != nil {
		return rc.Err
	}

	rc.SentMessages[m.ChannelID] = append(rc.SentMessages[m.ChannelID], answer.Text)
	rc.MessageAnswers[m.ID] = append(rc.MessageAnswers[m.ID], answer)

	return nil
}

// Respond captures the answers to a command invocation along with the channel they're sent to
func (rc *ResponderCaptor) Respond(ctx context.Context, c *dictscot.CommandInvocation, answers []*dictscot.Answer) (err error) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if rc.Err != nil {
		return rc.Err
	}

	for _, a := range answers {
		rc.SentMessages[c.ChannelID] = append(rc.SentMessages[c.ChannelID], a.Text)
	}
	rc.CommandResponses[c.ID] = append(rc.CommandResponses[c.ID], answers...)

	return nil
}

// Messages returns a copy of the text sent to a channel
func (rc *ResponderCaptor) Messages(channelID string) (texts []string) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	texts = make([]string, len(rc.SentMessages[channelID]))
	copy(texts, rc.SentMessages[channelID])

	return texts
}

// Count returns the total number of answers delivered
func (rc *ResponderCaptor) Count() (count int) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	for _, texts := range rc.SentMessages {
		count = count + len(texts)
	}

	return count
}
