package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/kerbaras/mangas-reader/pkg/client"
	"github.com/kerbaras/mangas-reader/pkg/session"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the manga server",
	Long:  "Exchange a username and password for an access token and store it for later runs",
	Run: func(cmd *cobra.Command, args []string) {
		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")

		in := bufio.NewReader(os.Stdin)
		if username == "" {
			fmt.Print("Username: ")
			line, err := in.ReadString('\n')
			cobra.CheckErr(ignoreEOF(err))
			username = strings.TrimSpace(line)
		}
		if password == "" {
			var err error
			password, err = readPassword(in)
			cobra.CheckErr(err)
		}

		ctx, cancel := requestContext(cmd)
		defer cancel()
		token, err := deps.Client.Login(ctx, username, password)
		if errors.Is(err, client.ErrBadCredentials) {
			cobra.CheckErr("invalid username or password")
		}
		if err != nil {
			cobra.CheckErr(fmt.Errorf("login failed: %w", err))
		}

		sess, err := deps.Store.Save(token, username)
		if err != nil {
			cobra.CheckErr(fmt.Errorf("failed to save session: %w", err))
		}
		fmt.Printf("✅ Logged in as %s (session stored in %s, valid until %s)\n",
			sess.Username, deps.Store.Path(), sess.IssuedAt.Add(session.MaxAge).Local().Format("2006-01-02"))
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	Run: func(cmd *cobra.Command, args []string) {
		if err := deps.Store.Clear(); err != nil {
			cobra.CheckErr(fmt.Errorf("failed to clear session: %w", err))
		}
		fmt.Println("👋 Logged out")
	},
}

func init() {
	loginCmd.Flags().StringP("username", "u", "", "username (prompted when empty)")
	loginCmd.Flags().StringP("password", "p", "", "password (prompted when empty)")
}

// readPassword reads a password without echo when stdin is a terminal.
func readPassword(in *bufio.Reader) (string, error) {
	fmt.Print("Password: ")
	if term.IsTerminal(os.Stdin.Fd()) {
		raw, err := term.ReadPassword(os.Stdin.Fd())
		fmt.Println()
		return string(raw), err
	}
	line, err := in.ReadString('\n')
	return strings.TrimRight(line, "\r\n"), ignoreEOF(err)
}

func ignoreEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
