package cmd

import (
	"context"
	"fmt"

	"github.com/metal-toolbox/assetctl/internal/assets"
	"github.com/metal-toolbox/assetctl/internal/importer"
	"github.com/metal-toolbox/assetctl/internal/model"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List assets matching the filter flags",
	Args:  cobra.NoArgs,
	RunE: func(c *cobra.Command, _ []string) error {
		f := assetFilterFromFlags(c)

		return withSession(c.Context(), func(ctx context.Context, s *assets.Service) error {
			return result(s.List(ctx, f))
		})
	},
}

var getCmd = &cobra.Command{
	Use:   "get <asset-id>",
	Short: "Get one asset",
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		return withSession(c.Context(), func(ctx context.Context, s *assets.Service) error {
			return result(s.Get(ctx, id))
		})
	},
}

var logsCmd = &cobra.Command{
	Use:   "logs <asset-id>",
	Short: "List the audit log of an asset",
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		return withSession(c.Context(), func(ctx context.Context, s *assets.Service) error {
			return result(s.Logs(ctx, id))
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <asset-id>",
	Short: "Hide an asset, the message records the reason",
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		message, _ := c.Flags().GetString("message")

		return withSession(c.Context(), func(ctx context.Context, s *assets.Service) error {
			return result(s.Delete(ctx, id, message))
		})
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <asset-id>",
	Short: "Restore a hidden asset, the message records the reason",
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		message, _ := c.Flags().GetString("message")

		return withSession(c.Context(), func(ctx context.Context, s *assets.Service) error {
			return result(s.Restore(ctx, id, message))
		})
	},
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create assets in bulk from a CSV file",
	Long: "Create assets in bulk from a CSV file with a header row and the columns\n" +
		"serial, model_id, location_id, notes - notes are optional.",
	Args: cobra.NoArgs,
	RunE: func(c *cobra.Command, _ []string) error {
		csvFile, _ := c.Flags().GetString("csv")

		// the importer only logs at debug level, the app logger is not initialized yet
		logger := logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})

		imp, err := importer.New(csvFile, logger)
		if err != nil {
			return err
		}

		rows, err := imp.Assets(c.Context())
		if err != nil {
			return err
		}

		req := model.CreateRequest{Assets: rows}
		req.Description, _ = c.Flags().GetString("description")
		req.Content, _ = c.Flags().GetString("content")
		req.Notes = stringFlag(c, "notes")

		return withSession(c.Context(), func(ctx context.Context, s *assets.Service) error {
			return result(s.Create(ctx, req))
		})
	},
}

var patchCmd = &cobra.Command{
	Use:   "patch <asset-id>",
	Short: "Update the location, model or notes of an asset",
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		p := model.AssetPatch{
			LocationID: intFlag(c, "location-id"),
			ModelID:    intFlag(c, "model-id"),
			Notes:      stringFlag(c, "notes"),
		}

		return withSession(c.Context(), func(ctx context.Context, s *assets.Service) error {
			return result(s.Patch(ctx, id, p))
		})
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the assets matching the filter flags as a spreadsheet",
	Args:  cobra.NoArgs,
	RunE: func(c *cobra.Command, _ []string) error {
		f := assetFilterFromFlags(c)

		return withSession(c.Context(), func(ctx context.Context, s *assets.Service) error {
			path := s.Export(ctx, f)
			if path == "" {
				return errors.Wrap(errFailed, "export")
			}

			fmt.Println(path)

			return nil
		})
	},
}

func init() {
	addAssetFilterFlags(listCmd)
	addAssetFilterFlags(exportCmd)

	for _, c := range []*cobra.Command{deleteCmd, restoreCmd} {
		c.Flags().StringP("message", "m", "", "reason for the change")
		_ = c.MarkFlagRequired("message")
	}

	createCmd.Flags().String("csv", "", "CSV file listing the assets to create")
	createCmd.Flags().String("description", "", "description of the purchase or intake")
	createCmd.Flags().String("content", "", "supporting document content reference")
	createCmd.Flags().String("notes", "", "notes on the intake")
	_ = createCmd.MarkFlagRequired("csv")

	patchCmd.Flags().Int("location-id", 0, "new location identifier")
	patchCmd.Flags().Int("model-id", 0, "new model identifier")
	patchCmd.Flags().String("notes", "", "new notes")

	RootCmd.AddCommand(listCmd, getCmd, logsCmd, deleteCmd, restoreCmd, createCmd, patchCmd, exportCmd)
}
