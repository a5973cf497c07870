package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	fitmcp "github.com/meltforce/fitlog/internal/mcp"
	"github.com/spf13/cobra"
)

var (
	mcpURL   string
	mcpToken string
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve MCP tools over stdio against a remote FitLog server",
	RunE:  runMCP,
}

func init() {
	mcpCmd.Flags().StringVar(&mcpURL, "url", "", "FitLog server base URL")
	mcpCmd.Flags().StringVar(&mcpToken, "token", "", "bearer token (defaults to $FITLOG_TOKEN)")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(_ *cobra.Command, _ []string) error {
	// stdout carries the protocol; logs go to stderr.
	log := newLogger(os.Stderr)

	if mcpURL == "" {
		return fmt.Errorf("--url is required")
	}
	token := mcpToken
	if token == "" {
		token = os.Getenv("FITLOG_TOKEN")
	}
	if token == "" {
		return fmt.Errorf("--token or FITLOG_TOKEN is required")
	}

	s := fitmcp.New(fitmcp.NewHTTPClient(mcpURL, token), Version, log)
	log.Info("mcp stdio server starting", "url", mcpURL)
	return server.ServeStdio(s)
}
