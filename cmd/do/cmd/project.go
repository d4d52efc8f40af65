package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/templui/folio/internal/client"
	"github.com/templui/folio/internal/model"
)

type remoteFlags struct {
	url string
	pin string
}

func (f *remoteFlags) register(cmd *cobra.Command) {
	url := os.Getenv("FOLIO_URL")
	if url == "" {
		url = "http://localhost:8090"
	}
	cmd.PersistentFlags().StringVar(&f.url, "url", url, "server URL (env FOLIO_URL)")
	cmd.PersistentFlags().StringVar(&f.pin, "pin", os.Getenv("EDIT_PIN"), "editor PIN (env EDIT_PIN)")
}

// connect fetches the current document and, when a PIN is set, logs in.
func (f *remoteFlags) connect(ctx context.Context, login bool) (*client.Client, error) {
	c, err := client.New(f.url)
	if err != nil {
		return nil, err
	}
	c.FetchDocument(ctx)

	if login {
		if f.pin == "" {
			return nil, fmt.Errorf("--pin or EDIT_PIN is required")
		}
		err = c.Login(ctx, f.pin)
		if err != nil {
			return nil, fmt.Errorf("login failed: %w", err)
		}
	}
	return c, nil
}

func ProjectCmd() *cobra.Command {
	var remote remoteFlags

	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects on a running server",
	}
	remote.register(cmd)

	cmd.AddCommand(projectListCmd(&remote))
	cmd.AddCommand(projectAddCmd(&remote))
	cmd.AddCommand(projectRmCmd(&remote))
	return cmd
}

func projectListCmd(remote *remoteFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := remote.connect(cmd.Context(), false)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tYEAR\tTITLE\tTECH")
			for _, p := range c.Projects() {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", p.ID, p.Year, p.Title, p.Tech)
			}
			return tw.Flush()
		},
	}
}

func projectAddCmd(remote *remoteFlags) *cobra.Command {
	var p model.Project

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := remote.connect(cmd.Context(), true)
			if err != nil {
				return err
			}

			added, err := c.AddProject(cmd.Context(), p)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "added project %d\n", added.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&p.Title, "title", "", "project title (required)")
	cmd.Flags().StringVar(&p.Description, "description", "", "project description (required)")
	cmd.Flags().StringVar(&p.Tech, "tech", "", "comma separated technologies")
	cmd.Flags().StringVar(&p.KeyFeatures, "features", "", "newline separated key features")
	cmd.Flags().StringVar(&p.ImageURL, "image", "", "image URL")
	cmd.Flags().StringVar(&p.VideoURL, "video", "", "video URL, shown instead of the image")
	cmd.Flags().StringVar(&p.GitHubURL, "github", "", "repository URL")
	cmd.Flags().StringVar(&p.PDFURL, "pdf", "", "PDF URL")
	cmd.Flags().StringVar(&p.Year, "year", "", "year")
	return cmd
}

func projectRmCmd(remote *remoteFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid project id %q", args[0])
			}

			c, err := remote.connect(cmd.Context(), true)
			if err != nil {
				return err
			}

			err = c.DeleteProject(cmd.Context(), id)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "removed project %d\n", id)
			return nil
		},
	}
}

func UploadCmd() *cobra.Command {
	var remote remoteFlags

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a file to a running server and print its URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			c, err := remote.connect(cmd.Context(), true)
			if err != nil {
				return err
			}

			result, err := c.Upload(cmd.Context(), filepath.Base(args[0]), f)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), result.URL)
			return nil
		},
	}
	remote.register(cmd)
	return cmd
}
