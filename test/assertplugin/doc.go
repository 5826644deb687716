// Package assertplugin provides testing functions to validate a plugin's overall functionality.
// This package is designed to play well but not require the assertanswer package for validation
// of answers
//
// Note that the plugin driver is a simplified version of how dictscot actually drives plugins: it
// doesn't route, dedupe or deliver answers and aims to provide the minimal processing required to
// allow a plugin to test functionality given an incoming message or command invocation.
//
// Example:
//
//	func TestPlugin(t *testing.T) {
//	    assertplugin := assertplugin.New(t)
//	    yourPlugin := newPlugin()
//
//	    assertplugin.Hears(yourPlugin, &dictscot.IncomingMessage{Text: "are you up?"}, func(t *testing.T, answers []*dictscot.Answer, err error) bool {
//	        return assert.NoError(t, err) && assert.Len(t, answers, 1) && assertanswer.HasText(t, answers[0], "I'm 😴, you?")
//	    })
//	}
package assertplugin // import "github.com/alexandre-normand/dictscot/test/assertplugin"
