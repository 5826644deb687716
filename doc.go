/*
Package dictscot provides the building blocks to create a chat bot answering with what a dictionary
service knows.

It is extendable via plugins that combine commands and hear actions (listeners). Plugins only return
answers: delivering them is the job of a Gateway (discord or slack) which also feeds the bot with
incoming messages and command invocations. Events are processed concurrently across channels but in
order within a channel and re-delivered events are only handled once.

Plugins have access to a SLogger injected on registration by dictscot.

Example code (see cmd/dictscot for the complete version):

	package main

	import (
		"context"
		"log"

		"github.com/alexandre-normand/dictscot"
		"github.com/alexandre-normand/dictscot/config"
		"github.com/alexandre-normand/dictscot/dictionary"
		"github.com/alexandre-normand/dictscot/gateway/discord"
		"github.com/alexandre-normand/dictscot/plugins"
	)

	func main() {
		c, err := config.Load(config.NewViperWithDefaults())
		if err != nil {
			log.Fatal(err)
		}

		bot, err := dictscot.NewBot("dictscot", *c).
			WithPlugin(&plugins.NewDictionary(dictionary.NewClient(c.APIURL)).Plugin).
			WithPlugin(&plugins.NewVersioner("dictscot", dictscot.VERSION).Plugin).
			Build()
		if err != nil {
			log.Fatal(err)
		}
		defer bot.Close()

		err = bot.Run(context.Background(), discord.New(c.Token))
		if err != nil {
			log.Fatal(err)
		}
	}
*/
package dictscot
