package fixtures

import (
	"time"

	"github.com/metal-toolbox/assetctl/internal/model"
)

var (
	createdAt = time.Date(2024, time.March, 4, 10, 0, 0, 0, time.UTC)

	// Laptop is an enabled asset with its full classification.
	Laptop = &model.Asset{
		ID:      1,
		Serial:  "SN-LAPTOP-0001",
		Status:  "available",
		Enabled: true,
		Notes:   "spare unit",
		Model: &model.AssetModel{
			ID:       7,
			Name:     "Latitude 5440",
			Brand:    &model.Named{ID: 2, Name: "Dell"},
			Category: &model.Named{ID: 3, Name: "Laptops"},
			Type:     &model.Named{ID: 4, Name: "Computer"},
		},
		Group:     &model.Named{ID: 5, Name: "IT"},
		Location:  &model.Named{ID: 6, Name: "Warehouse A"},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}

	// Scanner is a disabled asset with no notes.
	Scanner = &model.Asset{
		ID:        2,
		Serial:    "SN-SCANNER-0002",
		Status:    "maintenance",
		Enabled:   false,
		Model:     &model.AssetModel{ID: 8, Name: "TC52"},
		Location:  &model.Named{ID: 6, Name: "Warehouse A"},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}

	// AssetList is the list envelope of the asset fixtures.
	AssetList = &model.List[model.Asset]{
		Rows:  []model.Asset{*Laptop, *Scanner},
		Total: 42,
	}

	// Specifications is the list of specifications attached to the Laptop fixture.
	Specifications = &model.List[model.Specification]{
		Rows: []model.Specification{
			{ID: 1, AssetID: 1, TypeID: 10, Value: "16GB", Type: &model.Named{ID: 10, Name: "RAM"}},
			{ID: 2, AssetID: 1, TypeID: 11, Value: "512GB", Type: &model.Named{ID: 11, Name: "Disk"}},
		},
		Total: 2,
	}

	// Movements is the movement history of the Laptop fixture.
	Movements = &model.List[model.Movement]{
		Rows: []model.Movement{
			{ID: 1, AssetID: 1, Type: "transfer", Current: true, Location: &model.Named{ID: 6, Name: "Warehouse A"}, CreatedAt: createdAt},
		},
		Total: 1,
	}

	// Logs is the audit log of the Laptop fixture.
	Logs = &model.List[model.Log]{
		Rows: []model.Log{
			{ID: 1, AssetID: 1, Action: "create", Message: "bulk import", CreatedAt: createdAt},
			{ID: 2, AssetID: 1, Action: "update", Message: "moved to warehouse", CreatedAt: createdAt},
		},
		Total: 2,
	}

	// Maintenances is the maintenance history of the Scanner fixture.
	Maintenances = &model.List[model.Maintenance]{
		Rows: []model.Maintenance{
			{ID: 1, AssetID: 2, Status: "open", Description: "trigger replacement", CreatedAt: createdAt},
		},
		Total: 1,
	}

	// GeoAlerts is the list of geo alerts raised for the Laptop fixture.
	GeoAlerts = &model.List[model.GeoAlert]{
		Rows: []model.GeoAlert{
			{ID: 1, AssetID: 1, Type: "out_of_zone", Latitude: 19.43, Longitude: -99.13, CreatedAt: createdAt},
		},
		Total: 1,
	}
)
