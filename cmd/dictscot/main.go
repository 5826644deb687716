// Command dictscot runs a dictscot instance connected to Discord or Slack. Configuration comes from the
// environment (TOKEN, API_URL, HYOKACHAN_URL and DICTSCOT_ prefixed keys) and an optional config file
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
