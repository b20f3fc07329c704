// Command arenasim replays allocation traces against a fixed-capacity stack
// arena and prints the arena state after every step.
package main

import (
	"os"

	"github.com/alecthomas/kingpin/v2"
)

var version = "dev"

func main() {
	app := kingpin.New("arenasim", "Replay allocation traces against a fixed-capacity stack arena.")
	app.Version(version)

	var replay replayCommand
	replay.Register(app)
	kingpin.MustParse(app.Parse(os.Args[1:]))
}
