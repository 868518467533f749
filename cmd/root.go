package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ValentinKolb/wordkv/cmd/client"
	"github.com/ValentinKolb/wordkv/cmd/inspect"
	"github.com/ValentinKolb/wordkv/cmd/serve"
)

const (
	Version = "1.0.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "wordkv",
		Short: "networked dictionary server and client",
		Long: fmt.Sprintf(`wordkv (v%s)

A dictionary server that keeps words and their meanings in a JSON file and
serves many clients concurrently through a fixed-size worker pool.`, Version),
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of wordkv",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("wordkv v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(client.ClientCmd)
	RootCmd.AddCommand(inspect.InspectCmd)
	RootCmd.AddCommand(versionCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
