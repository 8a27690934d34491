package model

import (
	"time"
)

type (
	// LogLevel is the app verbose logging level.
	LogLevel string

	// NotifierKind identifies where user facing notifications are sent.
	NotifierKind string
)

const (
	AppName = "assetctl"

	// ProfilingEndpoint is the pprof endpoint enabled with the profile flag.
	ProfilingEndpoint = "localhost:9091"

	LogLevelInfo  LogLevel = "info"
	LogLevelDebug LogLevel = "debug"
	LogLevelTrace LogLevel = "trace"

	NotifierKindStdout NotifierKind = "stdout"
	NotifierKindLog    NotifierKind = "log"
	NotifierKindNats   NotifierKind = "nats"

	// DefaultLimit is the page size applied when a list call does not set one.
	DefaultLimit = 10

	// DefaultPage is the first page, pages are 1-indexed at the caller boundary.
	DefaultPage = 1
)

// Named is a backend catalog entry referenced by an asset, a brand, a category, a location etc.
type Named struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// AssetModel is the model of an asset along with its classification.
type AssetModel struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Brand    *Named `json:"brand,omitempty"`
	Category *Named `json:"category,omitempty"`
	Type     *Named `json:"type,omitempty"`
}

// Asset is a tracked physical item record as returned by the backend.
type Asset struct {
	ID        int         `json:"id"`
	Serial    string      `json:"serial"`
	Status    string      `json:"status,omitempty"`
	Enabled   bool        `json:"enabled"`
	Notes     string      `json:"notes,omitempty"`
	Model     *AssetModel `json:"model,omitempty"`
	Group     *Named      `json:"group,omitempty"`
	Location  *Named      `json:"location,omitempty"`
	CreatedAt time.Time   `json:"createdAt,omitempty"`
	UpdatedAt time.Time   `json:"updatedAt,omitempty"`
	DeletedAt *time.Time  `json:"deletedAt,omitempty"`
}

// NewAsset is the payload for an asset to be created.
type NewAsset struct {
	Serial     string `json:"serial"`
	ModelID    int    `json:"modelId,omitempty"`
	LocationID int    `json:"locationId,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// CreateRequest holds the parameters of a bulk asset create.
type CreateRequest struct {
	Assets      []NewAsset
	Description string
	// Notes is optional and not transmitted when nil.
	Notes   *string
	Content string
}

// CreateResult is returned by the backend on create, the request may partially succeed.
type CreateResult struct {
	Created []Asset `json:"created"`
	// Errors lists the assets that were rejected, duplicate serials.
	Errors []Asset `json:"errors"`
}

// AssetPatch holds the fields to be updated on an asset, nil fields are not sent.
type AssetPatch struct {
	LocationID *int    `mapstructure:"locationId"`
	ModelID    *int    `mapstructure:"modelId"`
	Notes      *string `mapstructure:"notes"`
}

// Specification is a typed attribute value attached to one asset.
type Specification struct {
	ID      int    `json:"id,omitempty"`
	AssetID int    `json:"assetId,omitempty"`
	TypeID  int    `json:"typeId"`
	Value   string `json:"value"`
	Type    *Named `json:"type,omitempty"`
}

// Maintenance is a maintenance record of an asset.
type Maintenance struct {
	ID          int        `json:"id"`
	AssetID     int        `json:"assetId"`
	Status      string     `json:"status,omitempty"`
	Description string     `json:"description,omitempty"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt,omitempty"`
}

// GeoAlert is raised by the backend when an asset is seen out of its expected zone.
type GeoAlert struct {
	ID        int       `json:"id"`
	AssetID   int       `json:"assetId"`
	Type      string    `json:"type,omitempty"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Message   string    `json:"message,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// Movement is a historical record of an asset location or owner change (assignment).
type Movement struct {
	ID        int        `json:"id"`
	AssetID   int        `json:"assetId"`
	Type      string     `json:"type,omitempty"`
	OrderType string     `json:"orderType,omitempty"`
	Current   bool       `json:"current"`
	Location  *Named     `json:"location,omitempty"`
	Asset     *Asset     `json:"asset,omitempty"`
	CreatedAt time.Time  `json:"createdAt,omitempty"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

// Log is an audit log entry for an asset.
type Log struct {
	ID        int       `json:"id"`
	AssetID   int       `json:"assetId"`
	Action    string    `json:"action,omitempty"`
	Message   string    `json:"message,omitempty"`
	User      *Named    `json:"user,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// List is the envelope returned by list endpoints.
type List[T any] struct {
	Rows  []T `json:"rows"`
	Total int `json:"total"`
}
