package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/MuhammadWasif/susi-linux/internal/ipc"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: susi-ctl wake | susi-ctl say <text>")
		os.Exit(2)
	}

	cmd := os.Args[1]
	arg := strings.Join(os.Args[2:], " ")

	if cmd != "wake" && cmd != "say" {
		fmt.Println("unknown command:", cmd)
		os.Exit(2)
	}

	if err := ipc.SendCommand(cmd, arg); err != nil {
		fmt.Println("susi-daemon not running:", err)
		os.Exit(1)
	}
}
