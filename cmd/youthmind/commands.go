package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/youthmind/youthmind/internal/config"
	"github.com/youthmind/youthmind/internal/storage"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		for _, info := range config.ShowAll(cfg) {
			printStatus(info.Key, "%s (env: %s)", info.Value, info.EnvVar)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.SetKey(args[0], args[1]); err != nil {
			printError("Failed to set %s: %v", args[0], err)
			fmt.Fprintf(os.Stderr, "Valid keys: %s\n", strings.Join(config.ValidKeys(), ", "))
			return err
		}
		printSuccess("Set %s = %s", args[0], args[1])
		return nil
	},
}

var (
	resourceTitle string
	resourceTags  []string
)

var resourcesCmd = &cobra.Command{
	Use:   "resources",
	Short: "Manage the wellness resource library",
}

var resourcesAddCmd = &cobra.Command{
	Use:   "add <file>",
	Short: "Add a text or PDF document to the library",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		title := resourceTitle
		if title == "" {
			title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}

		req := map[string]any{
			"title": title,
			"tags":  resourceTags,
		}
		if strings.EqualFold(filepath.Ext(path), ".pdf") {
			req["type"] = "pdf"
			req["content"] = base64.StdEncoding.EncodeToString(data)
		} else {
			req["type"] = "text"
			req["content"] = string(data)
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		resp, err := client.post(ctx, "/api/resources", req)
		if err != nil {
			return err
		}
		var res storage.Resource
		if err := decodeJSON(resp, &res); err != nil {
			return err
		}
		printSuccess("Added %q (%s)", res.Title, res.ID)
		return nil
	},
}

var resourcesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List library documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		resp, err := client.get(ctx, "/api/resources")
		if err != nil {
			return err
		}
		var resources []storage.Resource
		if err := decodeJSON(resp, &resources); err != nil {
			return err
		}
		if len(resources) == 0 {
			printWarning("Library is empty")
			return nil
		}
		for _, r := range resources {
			printStatus(r.ID, "%s [%s]", r.Title, r.Source)
		}
		return nil
	},
}

var resourcesRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a document from the library",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		resp, err := client.delete(ctx, "/api/resources/"+args[0])
		if err != nil {
			return err
		}
		var out map[string]any
		if err := decodeJSON(resp, &out); err != nil {
			return err
		}
		printSuccess("Removed %s", args[0])
		return nil
	},
}

var threadsCmd = &cobra.Command{
	Use:   "threads",
	Short: "List peer-support board threads",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		resp, err := client.get(ctx, "/api/threads")
		if err != nil {
			return err
		}
		var threads []storage.Thread
		if err := decodeJSON(resp, &threads); err != nil {
			return err
		}
		if len(threads) == 0 {
			printWarning("No threads yet")
			return nil
		}
		for _, t := range threads {
			printStatus(t.ID, "%s (%d likes, %d replies)", t.Title, t.Likes, t.Replies)
		}
		return nil
	},
}

var moodLanguage string

var moodCmd = &cobra.Command{
	Use:   "mood <text>",
	Short: "Detect the mood in a piece of text",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		resp, err := client.post(ctx, "/api/mood", map[string]any{
			"text":     strings.Join(args, " "),
			"language": moodLanguage,
		})
		if err != nil {
			return err
		}
		var out map[string]any
		if err := decodeJSON(resp, &out); err != nil {
			return err
		}
		if crisis, ok := out["crisis"].(bool); ok && crisis {
			printWarning("Crisis language detected. Please reach out:")
			if resources, ok := out["resources"].(map[string]any); ok {
				if helplines, ok := resources["helplines"].([]any); ok {
					for _, h := range helplines {
						if m, ok := h.(map[string]any); ok {
							printStatus(fmt.Sprintf("%v", m["name"]), "%v", m["phone"])
						}
					}
				}
			}
			return nil
		}
		printStatus("Mood", "%v", out["mood"])
		printStatus("Response", "%v", out["response"])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)

	resourcesAddCmd.Flags().StringVar(&resourceTitle, "title", "", "document title (defaults to file name)")
	resourcesAddCmd.Flags().StringSliceVar(&resourceTags, "tags", nil, "topic tags")
	resourcesCmd.AddCommand(resourcesAddCmd)
	resourcesCmd.AddCommand(resourcesListCmd)
	resourcesCmd.AddCommand(resourcesRemoveCmd)

	moodCmd.Flags().StringVar(&moodLanguage, "language", "", "response language (default English)")
}
