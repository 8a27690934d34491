package cmd

import (
	"context"

	"github.com/metal-toolbox/assetctl/internal/assets"
	"github.com/metal-toolbox/assetctl/internal/model"
	"github.com/spf13/cobra"
)

var maintenancesCmd = &cobra.Command{
	Use:   "maintenances <asset-id>",
	Short: "List the maintenance records of an asset",
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		f := model.MaintenanceFilter{
			Limit:     intFlag(c, "limit"),
			Page:      intFlag(c, "page"),
			Status:    stringFlag(c, "status"),
			Sort:      stringFlag(c, "sort"),
			Order:     stringFlag(c, "order"),
			StartDate: stringFlag(c, "start-date"),
			EndDate:   stringFlag(c, "end-date"),
		}

		return withSession(c.Context(), func(ctx context.Context, s *assets.Service) error {
			return result(s.Maintenances(ctx, id, f))
		})
	},
}

var geoCmd = &cobra.Command{
	Use:   "geo <asset-id>",
	Short: "List the geo alerts raised for an asset",
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		f := model.GeoAlertFilter{
			Limit:     intFlag(c, "limit"),
			Page:      intFlag(c, "page"),
			Type:      stringFlag(c, "type"),
			Sort:      stringFlag(c, "sort"),
			Order:     stringFlag(c, "order"),
			StartDate: stringFlag(c, "start-date"),
			EndDate:   stringFlag(c, "end-date"),
		}

		return withSession(c.Context(), func(ctx context.Context, s *assets.Service) error {
			return result(s.GeoAlerts(ctx, id, f))
		})
	},
}

var movementsCmd = &cobra.Command{
	Use:   "movements <asset-id>",
	Short: "List the movement history of an asset",
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		return withSession(c.Context(), func(ctx context.Context, s *assets.Service) error {
			return result(s.Movements(ctx, id, movementFilterFromFlags(c)))
		})
	},
}

func movementFilterFromFlags(c *cobra.Command) model.MovementFilter {
	return model.MovementFilter{
		Limit:        intFlag(c, "limit"),
		Page:         intFlag(c, "page"),
		Paranoid:     boolFlag(c, "paranoid"),
		Current:      boolFlag(c, "current"),
		All:          boolFlag(c, "all"),
		OrderType:    stringFlag(c, "order-type"),
		MovementType: stringFlag(c, "movement-type"),
		Location:     stringFlag(c, "location"),
		Group:        stringFlag(c, "group"),
		Serial:       stringFlag(c, "serial"),
		Category:     stringFlag(c, "category"),
		Model:        stringFlag(c, "model"),
		Brand:        stringFlag(c, "brand"),
		Sort:         stringFlag(c, "sort"),
		Order:        stringFlag(c, "order"),
		StartDate:    stringFlag(c, "start-date"),
		EndDate:      stringFlag(c, "end-date"),
	}
}

func init() {
	for _, c := range []*cobra.Command{maintenancesCmd, geoCmd, movementsCmd} {
		addPageFlags(c)
		addSortFlags(c)
	}

	maintenancesCmd.Flags().String("status", "", "filter by status")
	geoCmd.Flags().String("type", "", "filter by alert type")

	movementsCmd.Flags().Bool("paranoid", false, "include deleted movements")
	movementsCmd.Flags().Bool("current", false, "only the current movement")
	movementsCmd.Flags().Bool("all", false, "include movements of hidden assets")
	movementsCmd.Flags().String("order-type", "", "filter by order type")
	movementsCmd.Flags().String("movement-type", "", "filter by movement type")
	movementsCmd.Flags().String("location", "", "filter by location")
	movementsCmd.Flags().String("group", "", "filter by group")
	movementsCmd.Flags().String("serial", "", "filter by serial")
	movementsCmd.Flags().String("category", "", "filter by category")
	movementsCmd.Flags().String("model", "", "filter by model")
	movementsCmd.Flags().String("brand", "", "filter by brand")

	RootCmd.AddCommand(maintenancesCmd, geoCmd, movementsCmd)
}
