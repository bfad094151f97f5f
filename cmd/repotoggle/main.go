// Command repotoggle is the non-interactive companion of the repotoggle TUI.
// It talks to the same backend and reads the same configuration.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/pflag"

	"repotoggle/internal/app"
	"repotoggle/internal/domain"
	"repotoggle/internal/importer"
	"repotoggle/internal/repolist"
)

const usage = `Usage: repotoggle [flags] <command> [args]

Commands:
  list                 print every repository, "[x]" marks active ones
  active               print the active repositories
  activate NAME        activate a repository
  deactivate NAME      deactivate a repository
  import [--user] [--starred] [--print]
                       open (or print) the import address

Flags:
`

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr, nil))
}

// run executes one command and returns the process exit code.
// A nil opener means the system browser.
func run(ctx context.Context, args []string, stdout, stderr io.Writer, opener importer.Opener) int {
	var flags app.Flags
	fs := pflag.NewFlagSet("repotoggle", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	flags.Register(fs)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	fs.SetInterspersed(false)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}
	if !fs.Changed("log-file") {
		flags.LogFile = "-"
	}
	if flags.LogLevel == "" {
		flags.LogLevel = "warn"
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return 2
	}

	setup, err := app.New(flags, nil)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer func() { _ = setup.Log.Sync() }()

	cmd, cmdArgs := rest[0], rest[1:]
	switch cmd {
	case "list", "active":
		list := repolist.NewList()
		loader := repolist.NewLoader(setup.Client, nil, setup.Log)
		if err := loader.Load(ctx, list); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		for _, item := range list.Items() {
			if cmd == "active" {
				if item.Active {
					fmt.Fprintln(stdout, item.Name)
				}
				continue
			}
			mark := "[ ]"
			if item.Active {
				mark = "[x]"
			}
			fmt.Fprintf(stdout, "%s %s\n", mark, item.Name)
		}
		return 0

	case "activate", "deactivate":
		if len(cmdArgs) != 1 {
			fmt.Fprintf(stderr, "Error: %s takes exactly one repository name\n", cmd)
			return 2
		}
		name := cmdArgs[0]
		err := setup.Client.SetActive(ctx, name, cmd == "activate")
		if outcome := repolist.Classify(err); outcome != repolist.OutcomeSuccess {
			fmt.Fprintf(stderr, "Error: failed to %s %s: %s\n", cmd, name, outcome)
			setup.Log.Debugw("toggle failed", "name", name, "error", err)
			return 1
		}
		fmt.Fprintf(stdout, "%sd %s\n", cmd, name)
		return 0

	case "import":
		ifs := pflag.NewFlagSet("import", pflag.ContinueOnError)
		ifs.SetOutput(stderr)
		user := ifs.Bool("user", false, "import your repositories")
		starred := ifs.Bool("starred", false, "import starred repositories")
		printOnly := ifs.Bool("print", false, "print the address instead of opening it")
		if err := ifs.Parse(cmdArgs); err != nil {
			return 2
		}
		sources := setup.Config.Import.Sources
		if ifs.Changed("user") || ifs.Changed("starred") {
			sources = nil
			if *user {
				sources = append(sources, domain.ImportUser)
			}
			if *starred {
				sources = append(sources, domain.ImportStarred)
			}
		}

		opts := []importer.Option{importer.WithLogger(setup.Log)}
		if opener != nil {
			opts = append(opts, importer.WithOpener(opener))
		}
		imp := importer.New(setup.Client, opts...)

		var addr string
		if *printOnly {
			addr, err = imp.URL(sources)
		} else {
			addr, err = imp.Open(sources)
		}
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Fprintln(stdout, addr)
		return 0
	}

	known := []string{"list", "active", "activate", "deactivate", "import"}
	sort.Strings(known)
	fmt.Fprintf(stderr, "Error: unknown command %q (want one of %v)\n", cmd, known)
	return 2
}
