// Command phonebook runs the phonebook HTTP API (serve, the default) and
// the one-shot seeding utility (seed).
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
