package main

import (
	"crypto/tls"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/dtroode/roundrobin/internal/client"
)

var (
	serverAddr      string
	useTLS          bool
	credentialsPath string

	conn         *grpc.ClientConn
	rosterClient *client.Client
)

func defaultServer() string {
	if s := os.Getenv("ROSTER_ADDR"); s != "" {
		return s
	}
	return "localhost:50051"
}

var rootCmd = &cobra.Command{
	Use:           "rosterctl <command>",
	Short:         "Manage a call-routing roster",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := credentialsPath
		if path == "" {
			p, err := client.DefaultCredentialsPath()
			if err != nil {
				return err
			}
			path = p
		}

		creds := insecure.NewCredentials()
		if useTLS {
			creds = credentials.NewTLS(&tls.Config{MinVersion: tls.VersionTLS12})
		}
		c, err := grpc.NewClient(serverAddr, grpc.WithTransportCredentials(creds))
		if err != nil {
			return fmt.Errorf("failed to connect to server: %w", err)
		}
		conn = c
		rosterClient = client.New(conn, client.NewFileStore(path))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if conn != nil {
			conn.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverAddr, "server", defaultServer(), "gRPC server address")
	rootCmd.PersistentFlags().BoolVar(&useTLS, "tls", false, "connect with TLS")
	rootCmd.PersistentFlags().StringVar(&credentialsPath, "credentials", "", "credentials file (default under the user config dir)")

	rootCmd.AddGroup(
		&cobra.Group{ID: "session", Title: "Session:"},
		&cobra.Group{ID: "roster", Title: "Roster:"},
	)

	cobra.EnableCommandSorting = false

	// Session
	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(gateCmd)
	rootCmd.AddCommand(accountCmd)

	// Roster
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(exportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", describe(err))
		os.Exit(1)
	}
}
