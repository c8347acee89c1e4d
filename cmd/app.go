// Package cmd implements the CLI application to scrape and report
// smartbroker accounts.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/http/cookiejar"
	"os"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/jkoenig/smartbroker"
)

// Commands is the list a main package registers with its commander.
var Commands = []subcommands.Command{
	&accountsCmd{},
	&portfolioCmd{},
	&fetchCmd{},
	&historyCmd{},
	&quoteCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to
// use global variables.

const (
	accessNumberEnv = "SMARTBROKER_ACCESS_NUMBER"
	identifierEnv   = "SMARTBROKER_IDENTIFIER"
)

var accessNumberFlag = flag.String("access-number", "", "Smartbroker access number.\n If missing it will read the environment variable \""+accessNumberEnv+"\".")
var identifierFlag = flag.String("identifier", "", "Smartbroker identifier (password).\n If missing it will read the environment variable \""+identifierEnv+"\".")
var snapshotFile = flag.String("snapshot-file", "snapshots.jsonl", "Path to the snapshot history file (JSONL format)")
var portalURL = flag.String("portal-url", smartbroker.BaseURL, "Base URL of the portal. Only useful against a recorded copy.")

func accessNumber() string {
	// If the flag is not set, we try to read it from the environment variable.
	if *accessNumberFlag == "" {
		*accessNumberFlag = os.Getenv(accessNumberEnv)
	}
	return *accessNumberFlag
}

func identifier() string {
	if *identifierFlag == "" {
		*identifierFlag = os.Getenv(identifierEnv)
	}
	return *identifierFlag
}

// newSession builds a fresh client with its own cookie jar. One cookie jar
// per session: a Failed client must be discarded together with its cookies.
func newSession() (*smartbroker.Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cannot create cookie jar: %w", err)
	}
	httpc := &http.Client{Jar: jar, Timeout: 30 * time.Second}
	return smartbroker.NewAt(httpc, *portalURL), nil
}

// withSession logs in, runs fn, and logs out. Logout is best-effort: its
// failure is reported only when fn itself succeeded, never masking the
// primary error.
func withSession(ctx context.Context, fn func(*smartbroker.Client) error) error {
	access, ident := accessNumber(), identifier()
	if access == "" || ident == "" {
		return fmt.Errorf("missing credentials: set -access-number and -identifier (or %s and %s)", accessNumberEnv, identifierEnv)
	}

	client, err := newSession()
	if err != nil {
		return err
	}
	if err := client.Login(ctx, access, ident); err != nil {
		return err
	}

	err = fn(client)

	if lerr := client.Logout(ctx); lerr != nil {
		if err == nil {
			err = lerr
		} else {
			log.Printf("warning: logout failed: %v", lerr)
		}
	}
	return err
}

// printMarkdown renders markdown for the terminal, falling back to the raw
// text when the terminal cannot be styled.
func printMarkdown(markdown string) {
	out, err := glamour.Render(markdown, "auto")
	if err != nil {
		fmt.Print(markdown)
		return
	}
	fmt.Print(out)
}

// fail prints err the way all commands report failures.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, "Error:", err)
	return subcommands.ExitFailure
}
