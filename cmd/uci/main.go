// Command uci runs the engine as a UCI protocol adapter over stdin/stdout,
// the interface spec §6 names as the engine's sole external surface.
package main

import (
	"os"

	"chessforge/uci"
)

func main() {
	adapter := uci.NewAdapter(os.Stdout)
	adapter.Run(os.Stdin)
}
