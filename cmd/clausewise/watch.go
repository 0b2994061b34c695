package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hyperjump/clausewise/internal/config"
)

// watchOptions selects where watch changes go: a running server when
// serverURL is set, otherwise the config file read at the next server start.
type watchOptions struct {
	root      *rootOptions
	serverURL string
}

func newWatchCmd(opts *rootOptions) *cobra.Command {
	wo := &watchOptions{root: opts}
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Manage watched inbox directories",
		Long: `Manage the inbox directories the server watches for new contracts.

With --server the change is applied to the running server, which also
persists it. Without it the config file is edited directly.`,
	}
	cmd.PersistentFlags().StringVar(&wo.serverURL, "server", "", "server URL, e.g. http://localhost:8080")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <path>",
			Short: "Add a directory to watch",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := filepath.Abs(args[0])
				if err != nil {
					return err
				}
				if err := wo.add(path); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added: %s\n", path)
				return nil
			},
		},
		&cobra.Command{
			Use:   "remove <path>",
			Short: "Stop watching a directory",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := filepath.Abs(args[0])
				if err != nil {
					return err
				}
				if err := wo.remove(path); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed: %s\n", path)
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List watched directories",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				dirs, err := wo.list()
				if err != nil {
					return err
				}
				for _, d := range dirs {
					fmt.Fprintln(cmd.OutOrStdout(), d)
				}
				return nil
			},
		},
	)
	return cmd
}

func (wo *watchOptions) add(path string) error {
	if wo.serverURL != "" {
		body, _ := json.Marshal(map[string]interface{}{"path": path, "sync": true})
		resp, err := http.Post(wo.serverURL+"/api/v1/watch/directories", "application/json", bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()
		return expectStatus(resp, http.StatusCreated, "add")
	}
	return wo.editConfig(func(cfg *config.Config) {
		for _, d := range cfg.Watch.Directories {
			if d == path {
				return
			}
		}
		cfg.Watch.Directories = append(cfg.Watch.Directories, path)
	})
}

func (wo *watchOptions) remove(path string) error {
	if wo.serverURL != "" {
		req, err := http.NewRequest(http.MethodDelete, wo.serverURL+"/api/v1/watch/directories?path="+url.QueryEscape(path), nil)
		if err != nil {
			return err
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()
		return expectStatus(resp, http.StatusOK, "remove")
	}
	return wo.editConfig(func(cfg *config.Config) {
		kept := cfg.Watch.Directories[:0]
		for _, d := range cfg.Watch.Directories {
			if d != path {
				kept = append(kept, d)
			}
		}
		cfg.Watch.Directories = kept
	})
}

func (wo *watchOptions) list() ([]string, error) {
	if wo.serverURL != "" {
		resp, err := http.Get(wo.serverURL + "/api/v1/watch/directories")
		if err != nil {
			return nil, fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()
		if err := expectStatus(resp, http.StatusOK, "list"); err != nil {
			return nil, err
		}
		var out struct {
			Directories []string `json:"directories"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		return out.Directories, nil
	}
	cfg, _, err := loadConfig(wo.root.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg.Watch.Directories, nil
}

func (wo *watchOptions) editConfig(edit func(*config.Config)) error {
	cfg, path, err := loadConfig(wo.root.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	edit(cfg)
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	return nil
}

func expectStatus(resp *http.Response, want int, action string) error {
	if resp.StatusCode == want {
		return nil
	}
	b, _ := io.ReadAll(resp.Body)
	var apiErr struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(b, &apiErr) == nil && apiErr.Error != "" {
		return fmt.Errorf("%s failed (%d): %s", action, resp.StatusCode, apiErr.Error)
	}
	return errors.New(action + " failed: " + resp.Status)
}
