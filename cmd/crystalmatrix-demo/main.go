// Command crystalmatrix-demo opens a single window against a running Prism
// compositor and pumps its event loop until the compositor closes it.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pheonixfirewingz/crystal-desktop/pkg/client"
	"github.com/pheonixfirewingz/crystal-desktop/pkg/protocol"
)

func main() {
	title := "crystalmatrix-demo"
	c, err := client.OpenWindow(&title, 1280/2, 720/2, func(p *protocol.Packet) *protocol.Packet {
		fmt.Printf("received packet: %s\n", p.Kind)
		return nil
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open window: %v\n", err)
		os.Exit(1)
	}
	defer c.CloseWindow()

	for !c.IsClosed() {
		if err := c.PumpWindow(); err != nil {
			fmt.Fprintf(os.Stderr, "pump window: %v\n", err)
			break
		}
		time.Sleep(time.Millisecond)
	}
}
