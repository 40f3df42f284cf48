package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/existflow/planify/internal/config"
	"github.com/existflow/planify/internal/gateway/remote"
	"github.com/existflow/planify/internal/logger"
	"github.com/existflow/planify/internal/permission"
	"github.com/existflow/planify/internal/session"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage authentication",
	Long:  `Sign in to a planify server. Signing in switches the workspace to the remote backend.`,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login to the planify server",
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Logout and switch back to the local workspace",
	RunE:  runLogout,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account on the planify server",
	RunE:  runRegister,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user, role and permissions",
	RunE:  runWhoami,
}

var authServer string

func init() {
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(registerCmd)
	authCmd.AddCommand(whoamiCmd)

	authCmd.PersistentFlags().StringVar(&authServer, "server", "", "Server URL (defaults to the configured server)")
}

// authClient returns a client pointed at --server or the configured server
func authClient() (*remote.Client, error) {
	client, err := remote.NewClient()
	if err != nil {
		return nil, err
	}
	server := authServer
	if server == "" {
		server = cfg.ServerURL
	}
	if server != "" && server != client.ServerURL() {
		if err := client.SetServer(server); err != nil {
			return nil, fmt.Errorf("failed to save server: %w", err)
		}
	}
	return client, nil
}

// useBackend records the backend in the config file
func useBackend(name, serverURL string) {
	cfg.Backend = name
	if serverURL != "" {
		cfg.ServerURL = serverURL
	}
	if err := cfg.Save(); err != nil {
		logger.Warn("Failed to save config", logger.F("error", err))
	}
}

func readLine(reader *bufio.Reader, prompt string) string {
	fmt.Print(prompt)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func readPassword(prompt string) string {
	fmt.Print(prompt)
	b, _ := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	return string(b)
}

func runLogin(cmd *cobra.Command, args []string) error {
	client, err := authClient()
	if err != nil {
		return err
	}

	reader := bufio.NewReader(os.Stdin)
	username := readLine(reader, "Username: ")
	password := readPassword("Password: ")

	fmt.Printf("🔄 Logging in to %s...\n", client.ServerURL())
	if err := client.Login(context.Background(), username, password); err != nil {
		return err
	}
	useBackend(config.BackendRemote, client.ServerURL())

	fmt.Println("✅ Logged in successfully!")
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	client, err := remote.NewClient()
	if err != nil {
		return err
	}

	if !client.IsLoggedIn() {
		fmt.Println("Not logged in.")
		return nil
	}

	fmt.Println("🔄 Logging out...")
	if err := client.Logout(context.Background()); err != nil {
		return err
	}
	if cfg.Backend == config.BackendRemote {
		useBackend(config.BackendLocal, "")
	}

	fmt.Println("✅ Logged out, using the local workspace.")
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	client, err := authClient()
	if err != nil {
		return err
	}

	reader := bufio.NewReader(os.Stdin)
	username := readLine(reader, "Username: ")
	email := readLine(reader, "Email: ")
	password := readPassword("Password: ")
	if readPassword("Confirm Password: ") != password {
		return fmt.Errorf("passwords do not match")
	}

	fmt.Println("🔄 Creating account...")
	if err := client.Register(context.Background(), username, email, password); err != nil {
		return err
	}
	useBackend(config.BackendRemote, client.ServerURL())

	fmt.Println("✅ Account created and logged in!")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	gw, closeFn, err := openGateway(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	sess, err := session.Load(ctx, gw)
	if err != nil {
		return err
	}
	p := sess.Profile()

	fmt.Printf("👤 %s", sess.DisplayName())
	if p.Email != "" && p.Email != sess.DisplayName() {
		fmt.Printf(" <%s>", p.Email)
	}
	fmt.Printf("\n   role:    %s\n   backend: %s\n", sess.Role(), cfg.Backend)

	caps := sess.Capabilities()
	var allowed []string
	for _, a := range []permission.Action{
		permission.CreateProject, permission.EditProject, permission.DeleteProject,
		permission.CreateTask, permission.EditTask, permission.DeleteTask,
	} {
		if caps.Allows(a) {
			allowed = append(allowed, a.String())
		}
	}
	if len(allowed) == 0 {
		fmt.Println("   can:     view only")
		return nil
	}
	fmt.Printf("   can:     %s\n", strings.Join(allowed, ", "))
	return nil
}
