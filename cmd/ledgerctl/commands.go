package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/subcommands"
	"github.com/joho/godotenv"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/auth"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/database"
)

type keygenCmd struct {
	out io.Writer
}

func (*keygenCmd) Name() string     { return "keygen" }
func (*keygenCmd) Synopsis() string { return "generate a token signing key" }
func (*keygenCmd) Usage() string {
	return `keygen:
  Print a new base64 key suitable for LEDGER_TOKEN_KEY.
`
}
func (*keygenCmd) SetFlags(*flag.FlagSet) {}

func (c *keygenCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	key, err := auth.GenerateKey()
	if err != nil {
		fmt.Fprintf(os.Stderr, "keygen: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintln(c.out, key)
	return subcommands.ExitSuccess
}

type tokenCmd struct {
	out io.Writer
	key string
}

func (*tokenCmd) Name() string     { return "token" }
func (*tokenCmd) Synopsis() string { return "issue a bearer token for a principal" }
func (*tokenCmd) Usage() string {
	return `token [-key <key>] <principal>:
  Issue a bearer token for principal. The key defaults to LEDGER_TOKEN_KEY.
`
}

func (c *tokenCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.key, "key", "", "base64 token key (default $LEDGER_TOKEN_KEY)")
}

func (c *tokenCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}

	key := c.key
	if key == "" {
		_ = godotenv.Load()
		key = os.Getenv("LEDGER_TOKEN_KEY")
	}
	if key == "" {
		fmt.Fprintln(os.Stderr, "token: no key given and LEDGER_TOKEN_KEY is not set")
		return subcommands.ExitUsageError
	}

	issuer, err := auth.NewTokenIssuer(0, key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "token: %v\n", err)
		return subcommands.ExitFailure
	}

	token, err := issuer.Issue(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "token: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintln(c.out, token)
	return subcommands.ExitSuccess
}

type migrateCmd struct {
	out  io.Writer
	path string
}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "apply pending database migrations" }
func (*migrateCmd) Usage() string {
	return `migrate [-db <path>]:
  Apply all pending migrations to the ledger database.
`
}

func (c *migrateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.path, "db", "", "database path (default $DB_PATH)")
}

func (c *migrateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	path := c.path
	if path == "" {
		_ = godotenv.Load()
		path = os.Getenv("DB_PATH")
	}
	if path == "" {
		path = "./data/portfolio_ledger.db"
	}

	db, err := database.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		return subcommands.ExitFailure
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	applied, err := database.Migrate(ctx, db)
	if err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(c.out, "applied %d migration(s) to %s\n", applied, path)
	return subcommands.ExitSuccess
}
