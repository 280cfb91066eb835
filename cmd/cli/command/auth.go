package command

// auth.go handles the authentication commands: login, register, federated
// sign-in, logout and whoami.

import (
	"fmt"

	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  `Authenticate with the Tome API. Supports login, registration, federated sign-in and logout.`,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to your Tome account",
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")

		d, err := buildDeps()
		if err != nil {
			return err
		}
		profile, err := d.gateway.Login(cmd.Context(), username, password)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Logged in as %s\n", profile.Username)
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new Tome account",
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")

		d, err := buildDeps()
		if err != nil {
			return err
		}
		profile, err := d.gateway.Signup(cmd.Context(), username, password)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Account created, logged in as %s\n", profile.Username)
		return nil
	},
}

var googleCmd = &cobra.Command{
	Use:   "google",
	Short: "Sign in with a federated identity",
	Long: `Sign in with a federated (Google) identity. Pass either the provider's ID
token via --id-token, or the email and subject id directly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		idToken, _ := cmd.Flags().GetString("id-token")
		email, _ := cmd.Flags().GetString("email")
		subject, _ := cmd.Flags().GetString("subject")

		d, err := buildDeps()
		if err != nil {
			return err
		}

		if idToken != "" {
			profile, err := d.gateway.LoginWithIDToken(cmd.Context(), idToken)
			if err != nil {
				return err
			}
			fmt.Printf("✓ Signed in as %s\n", profile.Username)
			return nil
		}
		profile, err := d.gateway.LoginOrRegisterFederated(cmd.Context(), email, subject)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Signed in as %s\n", profile.Username)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out of your Tome account",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps()
		if err != nil {
			return err
		}
		// Sessions are cookie-only; clearing the cookie is the whole logout.
		if err := d.gateway.Logout(); err != nil {
			return err
		}
		fmt.Println("✓ Logged out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in username",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps()
		if err != nil {
			return err
		}
		user := d.gateway.CurrentUser()
		if user == "" {
			fmt.Println("Not logged in.")
			return nil
		}
		fmt.Println(user)
		return nil
	},
}

func init() {
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(registerCmd)
	authCmd.AddCommand(googleCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(whoamiCmd)

	loginCmd.Flags().StringP("username", "u", "", "account username")
	loginCmd.Flags().StringP("password", "p", "", "account password")
	loginCmd.MarkFlagRequired("username")
	loginCmd.MarkFlagRequired("password")

	registerCmd.Flags().StringP("username", "u", "", "username for the new account")
	registerCmd.Flags().StringP("password", "p", "", "password for the new account")
	registerCmd.MarkFlagRequired("username")
	registerCmd.MarkFlagRequired("password")

	googleCmd.Flags().String("id-token", "", "provider ID token")
	googleCmd.Flags().String("email", "", "federated account email")
	googleCmd.Flags().String("subject", "", "federated subject id")

	rootCmd.AddCommand(authCmd)
}
