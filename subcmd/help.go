package subcmd

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mengelbart/termplay/cmdmain"
)

func init() {
	cmdmain.RegisterSubCmd("help", func() cmdmain.SubCmd { return &help{out: os.Stderr} })
}

type help struct {
	out io.Writer
}

// Exec implements cmdmain.SubCmd. Without arguments it prints the global
// usage, otherwise the summary of the named command.
func (h *help) Exec(cmd string, args []string) error {
	if len(args) == 0 {
		flag.Usage()
		return nil
	}
	sub, ok := cmdmain.Lookup(args[0])
	if !ok {
		return fmt.Errorf("unknown command %q", args[0])
	}
	fmt.Fprintf(h.out, "%s %s: %s\n\nRun `%s %s -h` to list its flags\n", cmd, args[0], sub.Help(), cmd, args[0])
	return nil
}

// Help implements cmdmain.SubCmd.
func (h *help) Help() string {
	return "Print help, or the summary of a command"
}
