// Command ledgerctl is the operator tool of the portfolio ledger: it generates
// token keys, issues bearer tokens and applies database migrations.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&keygenCmd{out: os.Stdout}, "auth")
	subcommands.Register(&tokenCmd{out: os.Stdout}, "auth")
	subcommands.Register(&migrateCmd{out: os.Stdout}, "database")

	flag.Parse()
	os.Exit(int(subcommands.Execute(context.Background())))
}
