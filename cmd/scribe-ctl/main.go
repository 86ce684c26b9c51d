package main

import (
	"fmt"
	"os"

	cli "github.com/spf13/pflag"

	"scribe/internal/ipc"
)

func main() {
	socket := cli.StringP("socket", "s", ipc.SocketPath, "Control socket of scribe-record")
	cli.Parse()

	cmd := ipc.CmdStop
	if cli.NArg() > 0 {
		cmd = cli.Arg(0)
	}

	if err := ipc.SendCommand(*socket, cmd); err != nil {
		fmt.Println("scribe-record not running:", err)
		os.Exit(1)
	}
}
