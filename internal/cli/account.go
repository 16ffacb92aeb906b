package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"spark-quiz/internal/api"
)

func newLoginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and store the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			env := newClientEnv()
			defer env.close()

			reader := bufio.NewReader(cmd.InOrStdin())
			if username == "" {
				username = prompt(cmd, reader, "Username: ")
			}
			if password == "" {
				password = prompt(cmd, reader, "Password: ")
			}

			if err := env.control.Login(cmd.Context(), username, password); err != nil {
				return err
			}
			identity, _ := env.control.Identity()
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", identity.Username)
			if identity.Degraded {
				fmt.Fprintln(cmd.OutOrStdout(), "Profile details are unavailable right now; they will refresh on the next start.")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	return cmd
}

func newRegisterCmd() *cobra.Command {
	var req api.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		RunE: func(cmd *cobra.Command, args []string) error {
			env := newClientEnv()
			defer env.close()

			reader := bufio.NewReader(cmd.InOrStdin())
			if req.Username == "" {
				req.Username = prompt(cmd, reader, "Username: ")
			}
			if req.Email == "" {
				req.Email = prompt(cmd, reader, "Email: ")
			}
			if req.Password == "" {
				req.Password = prompt(cmd, reader, "Password: ")
			}
			if req.FullName == "" {
				req.FullName = prompt(cmd, reader, "Full name: ")
			}

			if err := env.control.Register(cmd.Context(), req); err != nil {
				return err
			}
			identity, _ := env.control.Identity()
			fmt.Fprintf(cmd.OutOrStdout(), "Account created, logged in as %s\n", identity.Username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&req.Username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "account password")
	cmd.Flags().StringVarP(&req.Email, "email", "e", "", "account email")
	cmd.Flags().StringVar(&req.FullName, "full-name", "", "full name (optional)")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the stored session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			env := newClientEnv()
			defer env.close()

			env.control.Logout()
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			env := newClientEnv()
			defer env.close()

			env.control.Bootstrap()
			identity, ok := env.control.Identity()
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s>\n", identity.Username, identity.Email)
			if identity.FullName != "" {
				fmt.Fprintln(cmd.OutOrStdout(), identity.FullName)
			}
			return nil
		},
	}
}

func prompt(cmd *cobra.Command, reader *bufio.Reader, label string) string {
	fmt.Fprint(cmd.OutOrStdout(), label)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return ""
	}
	return strings.TrimSpace(line)
}
