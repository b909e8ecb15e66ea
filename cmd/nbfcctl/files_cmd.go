package main

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/nbfc/backoffice/internal/application/upload"
	"github.com/spf13/cobra"
)

func newFilesCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "files",
		Short: "Upload and manage documents",
	}
	cmd.AddCommand(newFilesUploadCmd(c), newFilesURLCmd(c), newFilesDeleteCmd(c))
	return cmd
}

func newFilesUploadCmd(c *cli) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "upload <path>...",
		Short: "Upload one or more documents concurrently",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.authed(cmd)
			if err != nil {
				return err
			}
			files := make([]upload.File, 0, len(args))
			for _, path := range args {
				f, err := os.Open(path)
				if err != nil {
					return err
				}
				defer f.Close()
				info, err := f.Stat()
				if err != nil {
					return err
				}
				files = append(files, upload.File{
					Name:        filepath.Base(path),
					Reader:      f,
					Size:        info.Size(),
					ContentType: mime.TypeByExtension(filepath.Ext(path)),
				})
			}
			results, err := svc.Uploads.UploadAll(cmd.Context(), files, category)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), results)
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "Document category (default general)")
	return cmd
}

func newFilesURLCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "url <id|path|url>",
		Short: "Resolve a stored document to its retrieval URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.authed(cmd)
			if err != nil {
				return err
			}
			u, err := svc.Uploads.FileURL(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), u)
			return nil
		},
	}
}

func newFilesDeleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.authed(cmd)
			if err != nil {
				return err
			}
			if err := svc.Uploads.DeleteFile(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}
