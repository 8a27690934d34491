package model

// Filter structures shape a single request and are discarded afterwards.
//
// Optional values are pointers, a nil pointer is an absent filter and is not
// transmitted while a pointer to false, 0 or "" is a filter value in its own right.

// AssetFilter filters the asset list and the asset export.
//
// Page is 1-indexed, the offset sent to the backend is computed from Page and Limit.
//
// nolint:govet // prefer readability over field alignment optimization for this case.
type AssetFilter struct {
	Limit     int     `mapstructure:"limit"`
	Page      int     `mapstructure:"page"`
	Serial    *string `mapstructure:"serial"`
	Sort      *string `mapstructure:"sort"`
	Order     *string `mapstructure:"order"`
	All       *bool   `mapstructure:"all"`
	Enabled   *bool   `mapstructure:"enabled"`
	Type      *string `mapstructure:"type"`
	Group     *string `mapstructure:"group"`
	Status    *string `mapstructure:"status"`
	Location  *string `mapstructure:"location"`
	Model     *string `mapstructure:"model"`
	Brand     *string `mapstructure:"brand"`
	Category  *string `mapstructure:"category"`
	StartDate *string `mapstructure:"startDate"`
	EndDate   *string `mapstructure:"endDate"`
}

// MovementFilter filters the movement history of an asset.
//
// nolint:govet // prefer readability over field alignment optimization for this case.
type MovementFilter struct {
	Limit        *int    `mapstructure:"limit"`
	Page         *int    `mapstructure:"page"`
	Paranoid     *bool   `mapstructure:"paranoid"`
	Current      *bool   `mapstructure:"current"`
	All          *bool   `mapstructure:"all"`
	OrderType    *string `mapstructure:"orderType"`
	MovementType *string `mapstructure:"movementType"`
	Location     *string `mapstructure:"location"`
	Group        *string `mapstructure:"group"`
	Serial       *string `mapstructure:"serial"`
	Category     *string `mapstructure:"category"`
	Model        *string `mapstructure:"model"`
	Brand        *string `mapstructure:"brand"`
	Sort         *string `mapstructure:"sort"`
	Order        *string `mapstructure:"order"`
	StartDate    *string `mapstructure:"startDate"`
	EndDate      *string `mapstructure:"endDate"`
}

// MaintenanceFilter filters the maintenance records of an asset.
type MaintenanceFilter struct {
	Limit     *int    `mapstructure:"limit"`
	Page      *int    `mapstructure:"page"`
	Status    *string `mapstructure:"status"`
	Sort      *string `mapstructure:"sort"`
	Order     *string `mapstructure:"order"`
	StartDate *string `mapstructure:"startDate"`
	EndDate   *string `mapstructure:"endDate"`
}

// GeoAlertFilter filters the geo alerts of an asset.
type GeoAlertFilter struct {
	Limit     *int    `mapstructure:"limit"`
	Page      *int    `mapstructure:"page"`
	Type      *string `mapstructure:"type"`
	Sort      *string `mapstructure:"sort"`
	Order     *string `mapstructure:"order"`
	StartDate *string `mapstructure:"startDate"`
	EndDate   *string `mapstructure:"endDate"`
}

// Ptr returns a pointer to the given value, for populating optional filter fields.
func Ptr[T any](v T) *T {
	return &v
}
