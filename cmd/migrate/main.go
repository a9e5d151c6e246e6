// Command migrate manages the patungan SQLite schema.
package main

import (
	"os"

	"github.com/mmynk/patungan/cmd/migrate/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
