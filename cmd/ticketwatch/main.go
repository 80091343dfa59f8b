// Package main provides the entry point for the ticketwatch CLI.
//
// ticketwatch polls a ticketing page until every configured keyword shows up,
// then sends a burst of email alerts and exits.
//
// Usage:
//
//	ticketwatch [run] [-c config.yaml]
//	ticketwatch check
//	ticketwatch test-email --sequence 2
//
// See --help for all available options.
package main

import "os"

func main() {
	os.Exit(Execute())
}
