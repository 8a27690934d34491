package cmd

import (
	"context"
	"strconv"

	"github.com/metal-toolbox/assetctl/internal/assets"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var specsCmd = &cobra.Command{
	Use:   "specs",
	Short: "Manage the specifications of an asset",
}

var specsListCmd = &cobra.Command{
	Use:   "list <asset-id>",
	Short: "List the specifications of an asset",
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		return withSession(c.Context(), func(ctx context.Context, s *assets.Service) error {
			return result(s.Specifications(ctx, id))
		})
	},
}

var specsAddCmd = &cobra.Command{
	Use:   "add <asset-id> <type-id> <value>",
	Short: "Set a specification value on an asset",
	Args:  cobra.ExactArgs(3),
	RunE: func(c *cobra.Command, args []string) error {
		id, typeID, err := parseSpecArgs(args)
		if err != nil {
			return err
		}

		return withSession(c.Context(), func(ctx context.Context, s *assets.Service) error {
			return result(s.AddSpecification(ctx, id, typeID, args[2]))
		})
	},
}

var specsRemoveCmd = &cobra.Command{
	Use:   "remove <asset-id> <type-id>",
	Short: "Remove a specification from an asset",
	Args:  cobra.ExactArgs(2),
	RunE: func(c *cobra.Command, args []string) error {
		id, typeID, err := parseSpecArgs(args)
		if err != nil {
			return err
		}

		return withSession(c.Context(), func(ctx context.Context, s *assets.Service) error {
			return result(s.RemoveSpecification(ctx, id, typeID))
		})
	},
}

func parseSpecArgs(args []string) (id, typeID int, err error) {
	id, err = parseID(args[0])
	if err != nil {
		return 0, 0, err
	}

	typeID, err = strconv.Atoi(args[1])
	if err != nil {
		return 0, 0, errors.Wrap(errParseCLIParam, "invalid specification type id: "+args[1])
	}

	return id, typeID, nil
}

func init() {
	specsCmd.AddCommand(specsListCmd, specsAddCmd, specsRemoveCmd)
	RootCmd.AddCommand(specsCmd)
}
