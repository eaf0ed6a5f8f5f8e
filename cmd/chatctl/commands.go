package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/spec-kit/chat-service/internal/domain"
)

const usage = `usage:
  chatctl create-user -email <email> -name <display name>
  chatctl promote -email <email> [-revoke]`

// accountAdmin is the part of the auth service chatctl drives.
type accountAdmin interface {
	RegisterCredential(ctx context.Context, email, password, displayName string) (*domain.Identity, error)
	SetAdmin(ctx context.Context, email string, isAdmin bool) error
}

type cli struct {
	accounts     accountAdmin
	stdout       io.Writer
	readPassword func() ([]byte, error)
}

func (c *cli) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New(usage)
	}
	switch args[0] {
	case "create-user":
		return c.createUser(ctx, args[1:])
	case "promote":
		return c.promote(ctx, args[1:])
	default:
		return fmt.Errorf("unknown command %q\n%s", args[0], usage)
	}
}

func (c *cli) createUser(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("create-user", flag.ContinueOnError)
	fs.SetOutput(c.stdout)
	email := fs.String("email", "", "account email")
	name := fs.String("name", "", "display name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" || *name == "" {
		return errors.New("create-user requires -email and -name")
	}

	fmt.Fprint(c.stdout, "Password: ")
	password, err := c.readPassword()
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	defer wipe(password)

	identity, err := c.accounts.RegisterCredential(ctx, *email, string(password), *name)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	fmt.Fprintf(c.stdout, "created user %s (%s)\n", identity.Email, identity.ID)
	return nil
}

func (c *cli) promote(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("promote", flag.ContinueOnError)
	fs.SetOutput(c.stdout)
	email := fs.String("email", "", "account email")
	revoke := fs.Bool("revoke", false, "remove the admin flag instead")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return errors.New("promote requires -email")
	}

	if err := c.accounts.SetAdmin(ctx, *email, !*revoke); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("no account with email %s", *email)
		}
		return fmt.Errorf("promote: %w", err)
	}
	if *revoke {
		fmt.Fprintf(c.stdout, "%s is no longer an admin\n", *email)
	} else {
		fmt.Fprintf(c.stdout, "%s is now an admin\n", *email)
	}
	return nil
}

// readLine reads a password piped on stdin.
func readLine(r *bufio.Reader) ([]byte, error) {
	line, err := r.ReadBytes('\n')
	if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
		return nil, err
	}
	return bytes.TrimRight(line, "\r\n"), nil
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

