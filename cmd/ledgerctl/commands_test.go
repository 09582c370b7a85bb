package main

import (
	"bytes"
	"context"
	"flag"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/subcommands"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/auth"
)

// execute parses args with the command's flags and runs it.
func execute(t *testing.T, cmd subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()

	f := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	cmd.SetFlags(f)
	if err := f.Parse(args); err != nil {
		t.Fatalf("Parse(%v) returned unexpected error: %v", args, err)
	}

	return cmd.Execute(context.Background(), f)
}

func TestKeygenAndToken(t *testing.T) {
	var keyOut bytes.Buffer
	if status := execute(t, &keygenCmd{out: &keyOut}); status != subcommands.ExitSuccess {
		t.Fatalf("keygen exited with %v", status)
	}
	key := strings.TrimSpace(keyOut.String())

	var tokenOut bytes.Buffer
	if status := execute(t, &tokenCmd{out: &tokenOut}, "-key", key, "alice"); status != subcommands.ExitSuccess {
		t.Fatalf("token exited with %v", status)
	}

	issuer, err := auth.NewTokenIssuer(0, key)
	if err != nil {
		t.Fatalf("NewTokenIssuer() returned unexpected error: %v", err)
	}
	principal, err := issuer.Verify(strings.TrimSpace(tokenOut.String()))
	if err != nil {
		t.Fatalf("Verify() returned unexpected error: %v", err)
	}
	if principal != "alice" {
		t.Errorf("Verify() = %q; want %q", principal, "alice")
	}
}

func TestTokenUsageErrors(t *testing.T) {
	t.Setenv("LEDGER_TOKEN_KEY", "")

	tests := []struct {
		name string
		args []string
	}{
		{"missing principal", []string{"-key", "irrelevant"}},
		{"missing key", []string{"alice"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			status := execute(t, &tokenCmd{out: &out}, tt.args...)
			if status != subcommands.ExitUsageError {
				t.Errorf("token %v exited with %v; want %v", tt.args, status, subcommands.ExitUsageError)
			}
			if out.Len() != 0 {
				t.Errorf("token %v wrote %q; want no output", tt.args, out.String())
			}
		})
	}
}

func TestMigrate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "ledger.db")

	var first bytes.Buffer
	if status := execute(t, &migrateCmd{out: &first}, "-db", path); status != subcommands.ExitSuccess {
		t.Fatalf("first migrate exited with %v", status)
	}
	if !strings.HasPrefix(first.String(), "applied 1 migration(s)") {
		t.Errorf("first migrate wrote %q; want one migration applied", first.String())
	}

	var second bytes.Buffer
	if status := execute(t, &migrateCmd{out: &second}, "-db", path); status != subcommands.ExitSuccess {
		t.Fatalf("second migrate exited with %v", status)
	}
	if !strings.HasPrefix(second.String(), "applied 0 migration(s)") {
		t.Errorf("second migrate wrote %q; want nothing applied", second.String())
	}
}
