// Package importer loads assets to be created in bulk from a CSV file.
package importer

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/metal-toolbox/assetctl/internal/model"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	// minimum number of columns, notes are optional.
	minColumns = 3
)

var (
	ErrCSVSource = errors.New("error in CSV")
)

type CSV struct {
	csvReader io.ReadCloser
	logger    *logrus.Entry
}

// New returns a CSV importer reading from the given file.
func New(csvFile string, logger *logrus.Logger) (*CSV, error) {
	fh, err := os.Open(csvFile)
	if err != nil {
		return nil, errors.Wrap(ErrCSVSource, err.Error())
	}

	return NewFromReader(fh, logger), nil
}

// NewFromReader returns a CSV importer reading from r, r is closed once the records are loaded.
func NewFromReader(r io.ReadCloser, logger *logrus.Logger) *CSV {
	return &CSV{
		csvReader: r,
		logger:    logger.WithField("component", "importer.csv"),
	}
}

// Assets returns the assets listed in the CSV.
//
// All invalid rows are reported in the returned error, no assets are returned when any row is invalid.
func (c *CSV) Assets(_ context.Context) ([]model.NewAsset, error) {
	defer c.csvReader.Close()

	reader := csv.NewReader(c.csvReader)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(ErrCSVSource, err.Error())
	}

	// the first record is the header
	if len(records) < 2 {
		return nil, errors.Wrap(ErrCSVSource, "no valid asset records found")
	}

	var merr *multierror.Error

	assets := make([]model.NewAsset, 0, len(records)-1)

	// csv is of the format
	// serial, model id, location id, notes
	for idx, rec := range records[1:] {
		// line numbers are 1-indexed and include the header
		line := idx + 2

		asset, err := parseRecord(rec)
		if err != nil {
			merr = multierror.Append(merr, errors.Wrap(err, "line "+strconv.Itoa(line)))
			continue
		}

		assets = append(assets, asset)
	}

	if err := merr.ErrorOrNil(); err != nil {
		return nil, errors.Wrap(ErrCSVSource, err.Error())
	}

	c.logger.WithField("count", len(assets)).Debug("assets loaded")

	return assets, nil
}

func parseRecord(rec []string) (model.NewAsset, error) {
	if len(rec) < minColumns {
		return model.NewAsset{}, errors.New("expected at least " + strconv.Itoa(minColumns) + " columns, got " + strconv.Itoa(len(rec)))
	}

	serial := strings.TrimSpace(rec[0])
	if serial == "" {
		return model.NewAsset{}, errors.New("invalid serial string")
	}

	modelID, err := parseID(rec[1])
	if err != nil {
		return model.NewAsset{}, errors.Wrap(err, "model id")
	}

	locationID, err := parseID(rec[2])
	if err != nil {
		return model.NewAsset{}, errors.Wrap(err, "location id")
	}

	asset := model.NewAsset{
		Serial:     serial,
		ModelID:    modelID,
		LocationID: locationID,
	}

	// nolint:gomnd // field 3 is the notes, and its optional.
	if len(rec) > 3 {
		asset.Notes = strings.TrimSpace(rec[3])
	}

	return asset, nil
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, errors.New("invalid identifier: " + s)
	}

	if id <= 0 {
		return 0, errors.New("identifier must be positive: " + s)
	}

	return id, nil
}
