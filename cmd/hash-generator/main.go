// Command hash-generator prints bcrypt hashes for seeding users by hand.
//
// Usage:
//
//	hash-generator [-cost N] [-verify HASH] password...
//
// With -verify it checks each password against HASH instead.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/phrazzld/study-assistant/internal/config"
	"github.com/phrazzld/study-assistant/internal/service/auth"
)

var errNoPasswords = errors.New("at least one password is required")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "hash-generator: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("hash-generator", flag.ContinueOnError)
	fs.SetOutput(out)
	cost := fs.Int("cost", config.DefaultBCryptCost, "bcrypt cost")
	verify := fs.String("verify", "", "hash to check the passwords against")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errNoPasswords
	}

	hasher := auth.NewBcryptHasher(*cost)
	for _, password := range fs.Args() {
		if *verify != "" {
			result := "match"
			if err := hasher.Compare(*verify, password); err != nil {
				result = "no match"
			}
			fmt.Fprintf(out, "%s: %s\n", password, result)
			continue
		}

		hash, err := hasher.Hash(password)
		if err != nil {
			return fmt.Errorf("hash %q: %w", password, err)
		}
		fmt.Fprintf(out, "%s\n", hash)
	}
	return nil
}
