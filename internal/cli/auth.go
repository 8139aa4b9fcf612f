package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"movie-discovery-frontend/internal/view"
)

// password returns the --password flag, or reads one line from stdin.
func password(cmd *cobra.Command, flag string) (string, error) {
	pw, _ := cmd.Flags().GetString(flag)
	if pw != "" {
		return pw, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newLoginCmd(load Loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Log in and remember the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := password(cmd, "password")
			if err != nil {
				return err
			}
			return run(cmd, load, func(ctx context.Context, rt *Runtime, p *printer) error {
				form := view.NewLoginForm(rt.Session)
				defer form.Unmount()
				if !form.Submit(ctx, args[0], pw) {
					return exitError(exitSignIn, "%s", form.State().Error)
				}
				snap := rt.Session.Snapshot()
				return p.emit(snap, func(w io.Writer) {
					fmt.Fprintf(w, "Logged in as %s\n", snap.User.Username)
				})
			})
		},
	}
	cmd.Flags().StringP("password", "p", "", "Password (read from stdin when omitted)")
	return cmd
}

func newLogoutCmd(load Loader) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the remembered session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, load, func(ctx context.Context, rt *Runtime, p *printer) error {
				rt.Session.Logout(ctx)
				return p.emit(rt.Session.Snapshot(), func(w io.Writer) {
					fmt.Fprintln(w, "Logged out")
				})
			})
		},
	}
}

func newRegisterCmd(load Loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register <username> <email>",
		Short: "Create an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := password(cmd, "password")
			if err != nil {
				return err
			}
			confirm, _ := cmd.Flags().GetString("confirm")
			if confirm == "" {
				confirm = pw
			}
			return run(cmd, load, func(ctx context.Context, rt *Runtime, p *printer) error {
				form := view.NewRegisterForm(rt.Session)
				defer form.Unmount()
				if !form.Submit(ctx, args[0], args[1], pw, confirm) {
					return exitError(exitFailure, "%s", form.State().Error)
				}
				st := form.State()
				return p.emit(st, func(w io.Writer) {
					fmt.Fprintln(w, st.Success)
				})
			})
		},
	}
	cmd.Flags().StringP("password", "p", "", "Password (read from stdin when omitted)")
	cmd.Flags().String("confirm", "", "Password confirmation (defaults to --password)")
	return cmd
}

func newWhoamiCmd(load Loader) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, load, func(_ context.Context, rt *Runtime, p *printer) error {
				snap := rt.Session.Snapshot()
				return p.emit(snap, func(w io.Writer) {
					if snap.User == nil {
						fmt.Fprintln(w, "Not logged in")
						return
					}
					fmt.Fprintf(w, "%s <%s>\n", snap.User.Username, snap.User.Email)
				})
			})
		},
	}
}
