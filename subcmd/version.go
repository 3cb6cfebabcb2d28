package subcmd

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/mengelbart/termplay/cmdmain"
)

func init() {
	cmdmain.RegisterSubCmd("version", func() cmdmain.SubCmd {
		info, _ := debug.ReadBuildInfo()
		return newVersion(info, os.Stdout)
	})
}

// Version reports the build of the running binary and the media stack it
// was linked against.
type Version struct {
	out io.Writer

	path      string
	version   string
	gitCommit string
	gitDate   string
	goVersion string
	platform  string
	deps      map[string]string
}

// linked lists the modules whose versions matter when reporting playback
// problems.
var linked = []string{
	"github.com/go-gst/go-gst",
	"github.com/mattn/go-sixel",
	"golang.org/x/image",
}

func newVersion(info *debug.BuildInfo, out io.Writer) *Version {
	v := &Version{
		out:       out,
		path:      "termplay",
		version:   "(devel)",
		goVersion: runtime.Version(),
		platform:  runtime.GOOS + "/" + runtime.GOARCH,
		deps:      map[string]string{},
	}
	if info == nil {
		return v
	}
	v.path = info.Main.Path
	if info.Main.Version != "" {
		v.version = info.Main.Version
	}
	modified := false
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			v.gitCommit = setting.Value
		case "vcs.time":
			v.gitDate = setting.Value
		case "vcs.modified":
			modified = setting.Value == "true"
		}
	}
	if modified {
		v.gitCommit += "+dirty"
	}
	for _, dep := range info.Deps {
		v.deps[dep.Path] = dep.Version
	}
	return v
}

// Exec implements cmdmain.SubCmd.
func (v *Version) Exec(cmd string, args []string) error {
	fs := flag.NewFlagSet("version", flag.ExitOnError)
	short := fs.Bool("short", false, "Print only the version")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Print version information

Usage:
	%s version [flags]

Flags:
`, cmd)
		fs.PrintDefaults()
		fmt.Fprintln(os.Stderr)
	}
	fs.Parse(args)

	if *short {
		fmt.Fprintln(v.out, v.version)
		return nil
	}
	fmt.Fprintf(v.out, `%s
	Version:	%s
	Git commit:	%s
	Built:		%s
	Go Version:	%s
	Platform:	%s
`, v.path, v.version, v.gitCommit, v.gitDate, v.goVersion, v.platform)
	for _, path := range linked {
		if version, ok := v.deps[path]; ok {
			fmt.Fprintf(v.out, "\t%s\t%s\n", path, version)
		}
	}
	return nil
}

// Help implements cmdmain.SubCmd.
func (v *Version) Help() string {
	return "Print version information"
}
