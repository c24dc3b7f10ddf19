// Command famledger is the operator CLI over the family ledger.
package main

import (
	"cmp"
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"

	"famledger/internal/backend"
	"famledger/internal/cli"
	"famledger/internal/ledger"
	applog "famledger/internal/log"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Stderr, cmp.Or(os.Getenv("LOG_LEVEL"), "warn"))
	cfg := cli.LoadAndValidateConfig(logger)
	ctx := applog.NewContext(context.Background(), logger)

	a := &app{
		out:    os.Stdout,
		errOut: os.Stderr,
		in:     os.Stdin,
		open: func(ctx context.Context) (*ledger.Store, backend.CleanupFunc, error) {
			return cli.OpenLedger(ctx, cfg, true)
		},
	}

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	register(commander, a)

	flag.Parse()
	os.Exit(int(commander.Execute(ctx)))
}
