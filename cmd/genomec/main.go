// genomec compiles a textual genome program into a bot ready to inject
// through the websocket host or a test harness:
//
//	genomec -x 10 -y 4 -energy 30 -direction right harvester.gen > bot.json
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pthm-cable/cellarium/genlang"
	"github.com/pthm-cable/cellarium/sim"
)

func main() {
	x := flag.Int("x", 0, "Bot x coordinate")
	y := flag.Int("y", 0, "Bot y coordinate")
	energy := flag.Float64("energy", 10, "Starting energy")
	direction := flag.String("direction", "right", "Facing direction (left, right, up, down)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	source, err := readSource(flag.Arg(0))
	if err != nil {
		slog.Error("failed to read genome source", "error", err)
		os.Exit(1)
	}

	var dir sim.Direction
	if err := dir.UnmarshalText([]byte(*direction)); err != nil {
		slog.Error("bad direction", "error", err)
		os.Exit(1)
	}

	genome, err := genlang.Compile(string(source))
	if err != nil {
		slog.Error("compile failed", "error", err)
		os.Exit(1)
	}

	bot := sim.Bot{
		Alive:  true,
		X:      *x,
		Y:      *y,
		Energy: float32(*energy),
		Dir:    dir,
		Color:  sim.Color{R: 255, G: 255, B: 255},
		Genome: genome,
	}

	encoded, err := sim.EncodeBot(bot)
	if err != nil {
		slog.Error("encode failed", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(encoded))
}

// readSource reads the named file, or stdin when no file is given.
func readSource(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
