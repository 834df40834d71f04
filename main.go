// Command rxdma runs capture scenarios on the simulated receive DMA device.
package main

import (
	"github.com/tebeka/atexit"

	"github.com/artsniffer/rxdma/cmd"
)

func main() {
	cmd.Execute()
	atexit.Exit(0)
}
