package fueltools

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewCommand creates a Cobra command tree for the Fuel client.
// The returned command can be executed directly or added to a parent CLI.
//
// Commands provided:
//   - fuel list [--server <name|url>] [--owner <owner>] [--name <name>]
//   - fuel details <model-url>
//   - fuel download <model-url>
//   - fuel cached <model-url>
//   - fuel parse <model-url>
//   - fuel servers
//
// Global flags: --config, --json, --quiet, --verbose
func NewCommand(cfg ClientConfig, opts ...ClientOption) *cobra.Command {
	var (
		configPath string
		jsonOutput bool
		quiet      bool
		verbose    bool
	)

	// Client will be created in PersistentPreRunE
	var client FuelClient

	cmd := &cobra.Command{
		Use:   "fuel",
		Short: "Browse and download models from Fuel servers",
		Long:  "Resolve model URLs, list and download models hosted on Fuel servers, using a local cache.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip client creation for help commands
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			if configPath != "" {
				loaded, err := LoadClientConfig(configPath, clientLogger(opts))
				if err != nil {
					return err
				}
				cfg = loaded
			}

			var err error
			client, err = NewClient(cfg, opts...)
			if err != nil {
				return fmt.Errorf("failed to initialize client: %w", err)
			}
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML client configuration")
	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	// Add subcommands
	cmd.AddCommand(listCmd(&client, &jsonOutput))
	cmd.AddCommand(detailsCmd(&client, &jsonOutput))
	cmd.AddCommand(downloadCmd(&client, &quiet, &verbose))
	cmd.AddCommand(cachedCmd(&client))
	cmd.AddCommand(parseCmd(&client, &jsonOutput))
	cmd.AddCommand(serversCmd(&client, &jsonOutput))

	return cmd
}

// clientLogger returns the logger set by opts, if any.
func clientLogger(opts []ClientOption) Logger {
	c := newClientConfig()
	for _, opt := range opts {
		opt(c)
	}
	return c.logger
}

func listCmd(client *FuelClient, jsonOutput *bool) *cobra.Command {
	var server, owner, name string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List models",
		Long: "List the models on a server. With --owner or --name, cached matches are listed " +
			"and the server is only asked when the cache has none. If the server cannot be " +
			"reached, cached models are listed instead.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			srv, err := selectServer((*client).Config(), server)
			if err != nil {
				return err
			}

			var iter ModelIter
			if owner != "" || name != "" {
				iter = (*client).ModelsMatching(ctx, srv, ModelIdentifier{Owner: owner, Name: name, Server: srv})
			} else {
				iter = (*client).Models(ctx, srv)
			}

			models, err := collect(iter)
			if err != nil {
				return err
			}
			return outputModels(cmd.OutOrStdout(), models, *jsonOutput)
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "Server local name or URL (default: first configured server)")
	cmd.Flags().StringVar(&owner, "owner", "", "Only models of this owner")
	cmd.Flags().StringVar(&name, "name", "", "Only models with this name")
	return cmd
}

func detailsCmd(client *FuelClient, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "details <model-url>",
		Short: "Show model details",
		Long:  "Fetch and show the server's description of a model.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			srv, id, err := (*client).ParseModelURL(args[0])
			if err != nil {
				return err
			}

			model, result := (*client).ModelDetails(ctx, srv, id)
			if !result.OK() {
				return result.Err
			}
			return outputModelDetail(cmd.OutOrStdout(), model, *jsonOutput)
		},
	}
}

func downloadCmd(client *FuelClient, quiet, verbose *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "download <model-url>",
		Short: "Download a model into the cache",
		Long:  "Download a model archive, extract it into the local cache and print its path.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if *verbose {
				fmt.Fprintf(cmd.ErrOrStderr(), "Downloading %s...\n", args[0])
			}

			path, result := (*client).DownloadModelURL(ctx, args[0])
			if !result.OK() {
				return result.Err
			}

			if !*quiet {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s\n", result)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func cachedCmd(client *FuelClient) *cobra.Command {
	return &cobra.Command{
		Use:   "cached <model-url>",
		Short: "Print path to a cached model",
		Long:  "Print the cache directory of a model without contacting the server.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, result := (*client).CachedModel(cmd.Context(), args[0])
			if !result.OK() {
				return result.Err
			}

			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func parseCmd(client *FuelClient, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <model-url>",
		Short: "Resolve a model URL",
		Long:  "Parse a model URL or unique name and show the server and model it resolves to.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, id, err := (*client).ParseModelURL(args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if *jsonOutput {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(id)
			}

			fmt.Fprintf(w, "Owner:        %s\n", id.Owner)
			fmt.Fprintf(w, "Name:         %s\n", id.Name)
			fmt.Fprintf(w, "Server:       %s\n", srv.URL)
			fmt.Fprintf(w, "API version:  %s\n", orDash(srv.Version))
			fmt.Fprintf(w, "Local name:   %s\n", orDash(srv.LocalName))
			return nil
		},
	}
}

func serversCmd(client *FuelClient, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "servers",
		Short: "List configured servers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := (*client).Config()
			w := cmd.OutOrStdout()

			if *jsonOutput {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(cfg.Servers)
			}

			if len(cfg.Servers) == 0 {
				fmt.Fprintln(w, "No servers configured")
				return nil
			}

			tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tURL\tVERSION")
			for _, s := range cfg.Servers {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", orDash(s.LocalName), s.URL, orDash(s.Version))
			}
			return tw.Flush()
		},
	}
}

// selectServer finds a configured server by local name or URL.
// An empty selector picks the first configured server.
func selectServer(cfg ClientConfig, selector string) (ServerConfig, error) {
	if selector == "" {
		if len(cfg.Servers) == 0 {
			return ServerConfig{}, fmt.Errorf("no servers configured")
		}
		return cfg.Servers[0], nil
	}
	if s, ok := cfg.Servers.Lookup(selector); ok {
		return s, nil
	}
	for _, s := range cfg.Servers {
		if s.LocalName == selector {
			return s, nil
		}
	}
	return ServerConfig{}, fmt.Errorf("unknown server %q", selector)
}

// Output helpers

func outputModels(w io.Writer, models []ModelIdentifier, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if models == nil {
			models = []ModelIdentifier{}
		}
		return enc.Encode(models)
	}

	if len(models) == 0 {
		fmt.Fprintln(w, "No models found")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "OWNER\tNAME\tSIZE\tDOWNLOADS\tMODIFIED")
	for _, m := range models {
		modified := "-"
		if !m.ModifyDate.IsZero() {
			modified = m.ModifyDate.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
			m.Owner,
			m.Name,
			formatSize(m.FileSize),
			m.Downloads,
			modified,
		)
	}
	return tw.Flush()
}

func outputModelDetail(w io.Writer, m ModelIdentifier, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	}

	fmt.Fprintf(w, "Model:        %s/%s\n", m.Owner, m.Name)
	fmt.Fprintf(w, "Server:       %s\n", m.Server.URL)
	fmt.Fprintf(w, "Size:         %s\n", formatSize(m.FileSize))
	fmt.Fprintf(w, "Likes:        %d\n", m.Likes)
	fmt.Fprintf(w, "Downloads:    %d\n", m.Downloads)
	if !m.UploadDate.IsZero() {
		fmt.Fprintf(w, "Uploaded:     %s\n", m.UploadDate.Format("2006-01-02 15:04:05"))
	}
	if !m.ModifyDate.IsZero() {
		fmt.Fprintf(w, "Modified:     %s\n", m.ModifyDate.Format("2006-01-02 15:04:05"))
	}
	if m.LicenseName != "" {
		fmt.Fprintf(w, "License:      %s\n", m.LicenseName)
	}
	if len(m.Tags) > 0 {
		fmt.Fprintf(w, "Tags:         %v\n", m.Tags)
	}
	if m.Description != "" {
		fmt.Fprintf(w, "\n%s\n", m.Description)
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
