package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rexlx/kisanforum/forum"
	"github.com/spf13/cobra"
)

var (
	listCategory string
	listQuery    string
	forceInit    bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed an empty forum and top up thin categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.Demo.Enabled {
			return fmt.Errorf("demo content is disabled in the config")
		}
		store, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		added, err := store.Seed(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "added %d topics\n", added)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print topics, most recently active first",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		topics, err := store.ListTopics(cmd.Context())
		if err != nil {
			return err
		}
		now := time.Now()
		out := cmd.OutOrStdout()
		for _, t := range forum.FilterTopics(topics, listCategory, listQuery) {
			fmt.Fprintf(out, "%s  [%s] %s\n", t.ID, t.Category, t.Title)
			fmt.Fprintf(out, "    by %s, %s, active %s, %d views, %d replies\n",
				t.Author, forum.RelativeTime(t.Created(), now), forum.RelativeTime(t.Updated(), now), t.Views, len(t.Replies))
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one topic with its replies",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		t, err := store.GetTopic(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if t == nil {
			return fmt.Errorf("no topic with id %s", args[0])
		}
		now := time.Now()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s\n[%s] by %s, posted %s, %d views\n\n%s\n", t.Title, t.Category, t.Author, forum.RelativeTime(t.Created(), now), t.Views, t.Message)
		for _, r := range t.Replies {
			fmt.Fprintf(out, "\n  %s, %s\n  %s\n", r.Author, forum.RelativeTime(r.Created(), now), r.Message)
		}
		return nil
	},
}

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password <password>",
	Short: "Print a bcrypt hash for admin.password_hash",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := forum.HashPassword(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

var initConfigCmd = &cobra.Command{
	Use:   "init-config",
	Short: "Write the effective configuration to --config",
	Long: `init-config writes the defaults, merged with any environment overrides,
to the path given by --config. An existing file is kept unless --force is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(configPath); err == nil && !forceInit {
			return fmt.Errorf("%s already exists, use --force to overwrite", configPath)
		}
		if err := cfg.Save(configPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", configPath)
		return nil
	},
}

func init() {
	initConfigCmd.Flags().BoolVar(&forceInit, "force", false, "overwrite an existing config file")
	listCmd.Flags().StringVar(&listCategory, "category", "", "only this category")
	listCmd.Flags().StringVar(&listQuery, "q", "", "search text")
}
