package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gurukulschool/portal/internal/cli/client"
)

type registerParams struct {
	Email           string
	Name            string
	Phone           string
	Password        string
	ConfirmPassword string
}

// NewRegisterCmd creates the register command
func NewRegisterCmd() *cobra.Command {
	var params registerParams

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a portal account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegister(cmd.Context(), params, globalOptions(cmd)...)
		},
	}

	cmd.Flags().StringVar(&params.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&params.Name, "name", "", "Full name")
	cmd.Flags().StringVar(&params.Phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&params.Password, "password", "", "Password (or set PORTAL_PASSWORD, will prompt if not provided)")
	cmd.Flags().StringVar(&params.ConfirmPassword, "confirm-password", "", "Password confirmation (defaults to --password)")

	return cmd
}

func runRegister(ctx context.Context, params registerParams, opts ...Option) error {
	if ctx == nil {
		ctx = context.Background()
	}

	rt, err := newRuntime(opts...)
	if err != nil {
		return err
	}

	for _, field := range []struct {
		value *string
		label string
	}{
		{&params.Email, "Email"},
		{&params.Name, "Name"},
		{&params.Phone, "Phone"},
	} {
		if *field.value != "" {
			continue
		}
		if *field.value, err = promptText(field.label); err != nil {
			if errors.Is(err, errNonInteractive) {
				return fmt.Errorf("--%s is required in non-interactive mode", strings.ToLower(field.label))
			}
			return err
		}
	}

	params.Password = fillFromEnv(params.Password, "PORTAL_PASSWORD")
	if params.Password == "" {
		if params.Password, err = readPassword("Password"); err != nil {
			if errors.Is(err, errNonInteractive) {
				return fmt.Errorf("password is required in non-interactive mode (use --password flag or PORTAL_PASSWORD env var)")
			}
			return err
		}
		if params.ConfirmPassword, err = readPassword("Confirm password"); err != nil {
			return err
		}
	} else if params.ConfirmPassword == "" {
		params.ConfirmPassword = params.Password
	}

	m := rt.manager(rt.api())
	user, err := m.Register(ctx, client.RegisterRequest{
		Email:           params.Email,
		Password:        params.Password,
		ConfirmPassword: params.ConfirmPassword,
		Name:            params.Name,
		Phone:           params.Phone,
	})
	if err != nil {
		return failed("registration failed", fallbackGeneric, err)
	}

	fmt.Fprintln(rt.out, "✓ Account created!")
	fmt.Fprintf(rt.out, "  User: %s (%s)\n", user.Name, user.Email)
	return nil
}
