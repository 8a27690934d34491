package assets

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/metal-toolbox/assetctl/internal/model"
	"github.com/metal-toolbox/assetctl/internal/notify"
	"github.com/metal-toolbox/assetctl/internal/transport"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	// exportSuffix is appended to the date in exported file names.
	exportSuffix = "historial.xlsx"

	exportFailedMessage = "Could not fetch the asset history, try again later"
)

// Service applies the notification policy on top of the Client.
//
// Service methods never return an error, a failed call emits exactly one error
// notification and returns nil. Callers that need to handle errors use the Client.
type Service struct {
	client    *Client
	notifier  notify.Notifier
	loader    notify.Loader
	queue     *notify.Queue
	exportDir string
	logger    *logrus.Entry
	now       func() time.Time
}

// NewService returns a Service, notifications for bulk results are paced through the queue.
func NewService(client *Client, notifier notify.Notifier, loader notify.Loader, queue *notify.Queue, exportDir string, logger *logrus.Logger) *Service {
	if exportDir == "" {
		exportDir = "."
	}

	return &Service{
		client:    client,
		notifier:  notifier,
		loader:    loader,
		queue:     queue,
		exportDir: exportDir,
		logger:    logger.WithField("component", "assets.service"),
		now:       time.Now,
	}
}

func (s *Service) success(ctx context.Context, title, message string) {
	s.notifier.Notify(ctx, notify.Notification{Kind: notify.KindSuccess, Title: title, Message: message})
}

// failed logs the error and emits the single error notification for a failed call.
func (s *Service) failed(ctx context.Context, operation, title string, err error) {
	s.logger.WithError(err).WithField("operation", operation).Warn(title)

	s.notifier.Notify(ctx, notify.Notification{Kind: notify.KindError, Title: title, Message: transport.Message(err)})
}

// List returns the assets matching the filter.
func (s *Service) List(ctx context.Context, f model.AssetFilter) *model.List[model.Asset] {
	list, err := s.client.List(ctx, f)
	if err != nil {
		s.failed(ctx, "list", "Error loading assets", err)
		return nil
	}

	return list
}

// Get returns one asset.
func (s *Service) Get(ctx context.Context, id int) *model.Asset {
	asset, err := s.client.Get(ctx, id)
	if err != nil {
		s.failed(ctx, "get", "Error fetching asset", err)
		return nil
	}

	return asset
}

// Logs returns the audit log of an asset.
func (s *Service) Logs(ctx context.Context, id int) *model.List[model.Log] {
	logs, err := s.client.Logs(ctx, id)
	if err != nil {
		s.failed(ctx, "logs", "Error fetching asset logs", err)
		return nil
	}

	return logs
}

// Delete hides an asset.
func (s *Service) Delete(ctx context.Context, id int, message string) *model.Asset {
	asset, err := s.client.Delete(ctx, id, message)
	if err != nil {
		s.failed(ctx, "delete", "Error hiding asset", err)
		return nil
	}

	s.success(ctx, "Asset hidden", "")

	return asset
}

// Restore restores a hidden asset.
func (s *Service) Restore(ctx context.Context, id int, message string) *model.Asset {
	asset, err := s.client.Restore(ctx, id, message)
	if err != nil {
		s.failed(ctx, "restore", "Error restoring asset", err)
		return nil
	}

	s.success(ctx, "Asset restored", "")

	return asset
}

// Create creates assets in bulk holding the loading indicator for the duration of the call.
//
// One notification is emitted per rejected and per created asset, paced by the queue.
func (s *Service) Create(ctx context.Context, req model.CreateRequest) *model.CreateResult {
	result, err := s.create(ctx, req)
	if err != nil {
		s.failed(ctx, "create", "Error creating assets", err)
		return nil
	}

	for _, asset := range result.Errors {
		s.queue.Enqueue(ctx, notify.Notification{
			Kind:   notify.KindError,
			Title:  "Duplicate asset serial: " + asset.Serial,
			Sticky: true,
		})
	}

	for _, asset := range result.Created {
		s.queue.Enqueue(ctx, notify.Notification{
			Kind:  notify.KindSuccess,
			Title: "Asset created, serial: " + asset.Serial,
		})
	}

	return result
}

func (s *Service) create(ctx context.Context, req model.CreateRequest) (*model.CreateResult, error) {
	release := s.loader.Busy(ctx, "Saving")
	defer release()

	return s.client.Create(ctx, req)
}

// Specifications returns the specifications of an asset.
func (s *Service) Specifications(ctx context.Context, id int) *model.List[model.Specification] {
	specs, err := s.client.Specifications(ctx, id)
	if err != nil {
		s.failed(ctx, "specifications", "Error loading asset specifications", err)
		return nil
	}

	return specs
}

// AddSpecification sets a specification value on an asset.
func (s *Service) AddSpecification(ctx context.Context, id, typeID int, value string) *model.Specification {
	spec, err := s.client.AddSpecification(ctx, id, typeID, value)
	if err != nil {
		s.failed(ctx, "specification_add", "Error adding specification", err)
		return nil
	}

	s.success(ctx, "Specification added", "")

	return spec
}

// RemoveSpecification removes a specification from an asset.
func (s *Service) RemoveSpecification(ctx context.Context, id, typeID int) *model.Specification {
	spec, err := s.client.RemoveSpecification(ctx, id, typeID)
	if err != nil {
		s.failed(ctx, "specification_remove", "Error removing specification", err)
		return nil
	}

	s.success(ctx, "Specification removed", "")

	return spec
}

// Maintenances returns the maintenance records of an asset.
func (s *Service) Maintenances(ctx context.Context, id int, f model.MaintenanceFilter) *model.List[model.Maintenance] {
	list, err := s.client.Maintenances(ctx, id, f)
	if err != nil {
		s.failed(ctx, "maintenances", "Error fetching asset maintenances", err)
		return nil
	}

	return list
}

// GeoAlerts returns the geo alerts of an asset.
func (s *Service) GeoAlerts(ctx context.Context, id int, f model.GeoAlertFilter) *model.List[model.GeoAlert] {
	list, err := s.client.GeoAlerts(ctx, id, f)
	if err != nil {
		s.failed(ctx, "geo_alerts", "Error fetching asset geo alerts", err)
		return nil
	}

	return list
}

// Movements returns the movement history of an asset.
func (s *Service) Movements(ctx context.Context, id int, f model.MovementFilter) *model.List[model.Movement] {
	list, err := s.client.Movements(ctx, id, f)
	if err != nil {
		s.failed(ctx, "movements", "Error fetching asset movements", err)
		return nil
	}

	return list
}

// ExportFilename returns the name an export taken at the given time is saved under.
func ExportFilename(t time.Time) string {
	return fmt.Sprintf("%d-%d-%d-%s", t.Day(), int(t.Month()), t.Year(), exportSuffix)
}

// Export downloads the spreadsheet of the assets matching the filter into the export directory
// and returns the path of the written file, or an empty string on failure.
//
// The failure notification carries no backend detail since the error payload is binary.
func (s *Service) Export(ctx context.Context, f model.AssetFilter) string {
	path, err := s.export(ctx, f)
	if err != nil {
		s.logger.WithError(err).WithField("operation", "export").Warn("export failed")

		s.notifier.Notify(ctx, notify.Notification{
			Kind:    notify.KindError,
			Title:   "Error exporting assets",
			Message: exportFailedMessage,
		})

		return ""
	}

	return path
}

func (s *Service) export(ctx context.Context, f model.AssetFilter) (string, error) {
	data, err := s.client.Export(ctx, f)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.exportDir, ExportFilename(s.now()))

	// nolint:gomnd // file permission is clear as is
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", errors.Wrap(ErrAssets, "error writing export file: "+err.Error())
	}

	return path, nil
}

// Patch updates the given fields of an asset.
func (s *Service) Patch(ctx context.Context, id int, p model.AssetPatch) *model.Asset {
	asset, err := s.client.Patch(ctx, id, p)
	if err != nil {
		s.failed(ctx, "patch", "Error updating asset", err)
		return nil
	}

	s.success(ctx, "Asset updated", asset.Serial)

	return asset
}
