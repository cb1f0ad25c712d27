package main

import (
	"errors"
	"flag"
	"fmt"
	"strconv"
	"syscall"

	"golang.org/x/term"

	"college-erp/internal/repository"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp          = errors.New("help provided")
	errShortPassword = errors.New("password must be 6-72 characters")
)

type commandLine struct {
	users    repository.UserRepository
	migrator migrator
}

// migrator applies or rolls back schema migrations.
type migrator interface {
	Up() error
	Down(steps int) error
	Version() (version uint, dirty bool, err error)
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate up|down [STEPS]|status             - apply, roll back or inspect schema migrations")
	fmt.Println("  createsuperadmin -email EMAIL -name NAME   - create or promote a platform super admin")
	fmt.Println("  resetpassword -email EMAIL                 - reset a user's password")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	superAdminCmd := flag.NewFlagSet("createsuperadmin", flag.ContinueOnError)
	superAdminEmail := superAdminCmd.String("email", "", "Login email. The password will be prompted next.")
	superAdminName := superAdminCmd.String("name", "Super Admin", "Display name.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ContinueOnError)
	resetPasswordEmail := resetPasswordCmd.String("email", "", "The user's email. The password will be prompted next.")

	switch args[1] {
	case "migrate":
		return cli.runMigrate(args[2:])
	case "createsuperadmin":
		if err := superAdminCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *superAdminEmail == "" {
			superAdminCmd.Usage()
			return errHelp
		}
		pwd, err := promptPassword()
		if err != nil {
			return err
		}
		return cli.createSuperAdmin(*superAdminEmail, *superAdminName, pwd)
	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordEmail == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := promptPassword()
		if err != nil {
			return err
		}
		return cli.resetPassword(*resetPasswordEmail, pwd)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) runMigrate(args []string) error {
	if len(args) == 0 {
		cli.printUsage()
		return errHelp
	}
	switch args[0] {
	case "up":
		return cli.migrator.Up()
	case "down":
		steps := 1
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil || n <= 0 {
				return fmt.Errorf("steps must be a positive number (got '%s')", args[1])
			}
			steps = n
		}
		return cli.migrator.Down(steps)
	case "status":
		v, dirty, err := cli.migrator.Version()
		if err != nil {
			return err
		}
		state := "clean"
		if dirty {
			state = "dirty"
		}
		fmt.Printf("schema version %d (%s)\n", v, state)
		return nil
	default:
		return fmt.Errorf("%q: no such command", args[0])
	}
}

func promptPassword() (string, error) {
	fmt.Print("Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	if len(pwd) < 6 || len(pwd) > 72 {
		return "", errShortPassword
	}
	return string(pwd), nil
}
