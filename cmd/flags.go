package cmd

import (
	"github.com/metal-toolbox/assetctl/internal/model"
	"github.com/spf13/cobra"
)

// flags left unset are returned as nil so they are not sent.

func stringFlag(c *cobra.Command, name string) *string {
	if !c.Flags().Changed(name) {
		return nil
	}

	v, _ := c.Flags().GetString(name)

	return &v
}

func boolFlag(c *cobra.Command, name string) *bool {
	if !c.Flags().Changed(name) {
		return nil
	}

	v, _ := c.Flags().GetBool(name)

	return &v
}

func intFlag(c *cobra.Command, name string) *int {
	if !c.Flags().Changed(name) {
		return nil
	}

	v, _ := c.Flags().GetInt(name)

	return &v
}

func addPageFlags(c *cobra.Command) {
	c.Flags().Int("page", 0, "page number, starting at 1")
	c.Flags().Int("limit", 0, "page size")
}

func addSortFlags(c *cobra.Command) {
	c.Flags().String("sort", "", "field to sort by")
	c.Flags().String("order", "", "sort order, one of ASC, DESC")
	c.Flags().String("start-date", "", "start of the date range")
	c.Flags().String("end-date", "", "end of the date range")
}

func addAssetFilterFlags(c *cobra.Command) {
	addPageFlags(c)
	addSortFlags(c)

	c.Flags().String("serial", "", "filter by serial")
	c.Flags().Bool("all", false, "include hidden assets")
	c.Flags().Bool("enabled", false, "filter by enabled state")
	c.Flags().String("type", "", "filter by type")
	c.Flags().String("group", "", "filter by group")
	c.Flags().String("status", "", "filter by status")
	c.Flags().String("location", "", "filter by location")
	c.Flags().String("model", "", "filter by model")
	c.Flags().String("brand", "", "filter by brand")
	c.Flags().String("category", "", "filter by category")
}

func assetFilterFromFlags(c *cobra.Command) model.AssetFilter {
	f := model.AssetFilter{
		Serial:    stringFlag(c, "serial"),
		Sort:      stringFlag(c, "sort"),
		Order:     stringFlag(c, "order"),
		All:       boolFlag(c, "all"),
		Enabled:   boolFlag(c, "enabled"),
		Type:      stringFlag(c, "type"),
		Group:     stringFlag(c, "group"),
		Status:    stringFlag(c, "status"),
		Location:  stringFlag(c, "location"),
		Model:     stringFlag(c, "model"),
		Brand:     stringFlag(c, "brand"),
		Category:  stringFlag(c, "category"),
		StartDate: stringFlag(c, "start-date"),
		EndDate:   stringFlag(c, "end-date"),
	}

	f.Limit, _ = c.Flags().GetInt("limit")
	f.Page, _ = c.Flags().GetInt("page")

	return f
}
