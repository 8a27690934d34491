// Package assets is the data access layer for the asset management API.
//
// Client issues one request per operation and returns typed errors,
// Service wraps it with the notification policy for user facing callers.
package assets

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/metal-toolbox/assetctl/internal/filter"
	"github.com/metal-toolbox/assetctl/internal/model"
	"github.com/metal-toolbox/assetctl/internal/transport"
	"github.com/pkg/errors"
)

const (
	basePath = "/assets"
)

var (
	ErrAssets          = errors.New("assets client error")
	ErrInvalidID       = errors.New("invalid identifier")
	ErrMessageRequired = errors.New("a message is required")
	ErrEmptyPatch      = errors.New("no fields to update")
	ErrInvalidCreate   = errors.New("invalid create request")
)

// Transport issues requests to the asset API.
type Transport interface {
	Do(ctx context.Context, r *transport.Request) (*transport.Response, error)
}

// Client is a stateless client for the /assets resources.
type Client struct {
	transport Transport
}

// NewClient returns a Client issuing requests over the given transport.
func NewClient(t Transport) *Client {
	return &Client{transport: t}
}

func assetPath(id int, sub ...string) string {
	return strings.Join(append([]string{basePath, strconv.Itoa(id)}, sub...), "/")
}

func validateID(name string, id int) error {
	if id <= 0 {
		return errors.Wrap(ErrInvalidID, name+": "+strconv.Itoa(id))
	}

	return nil
}

// call issues the request and decodes the response into a new T.
//
// Responses to mutations may carry no body, in which case a zero T is returned.
func call[T any](ctx context.Context, t Transport, req *transport.Request) (*T, error) {
	resp, err := t.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	if len(resp.Body) == 0 && req.Method != http.MethodGet {
		return new(T), nil
	}

	v := new(T)
	if err := transport.DecodeJSON(resp, v); err != nil {
		return nil, err
	}

	return v, nil
}

// query builds the query values from a filter struct, converting page into an offset.
func query(f any, order *string, defaultLimit int) (url.Values, error) {
	if err := filter.ValidateOrder(order); err != nil {
		return nil, errors.Wrap(ErrAssets, err.Error())
	}

	params, err := filter.FromStruct(f)
	if err != nil {
		return nil, errors.Wrap(ErrAssets, err.Error())
	}

	filter.Paginate(params, defaultLimit)

	return filter.Values(params), nil
}

// List returns the assets matching the filter.
func (c *Client) List(ctx context.Context, f model.AssetFilter) (*model.List[model.Asset], error) {
	// the asset list is always paginated
	if f.Limit <= 0 {
		f.Limit = model.DefaultLimit
	}

	if f.Page <= 0 {
		f.Page = model.DefaultPage
	}

	q, err := query(f, f.Order, model.DefaultLimit)
	if err != nil {
		return nil, err
	}

	return call[model.List[model.Asset]](ctx, c.transport, &transport.Request{
		Operation: "list",
		Method:    http.MethodGet,
		Path:      basePath,
		Query:     q,
	})
}

// Get returns the asset identified by id.
func (c *Client) Get(ctx context.Context, id int) (*model.Asset, error) {
	if err := validateID("asset", id); err != nil {
		return nil, err
	}

	return call[model.Asset](ctx, c.transport, &transport.Request{
		Operation: "get",
		Method:    http.MethodGet,
		Path:      assetPath(id),
	})
}

// Logs returns the audit log of an asset.
func (c *Client) Logs(ctx context.Context, id int) (*model.List[model.Log], error) {
	if err := validateID("asset", id); err != nil {
		return nil, err
	}

	return call[model.List[model.Log]](ctx, c.transport, &transport.Request{
		Operation: "logs",
		Method:    http.MethodGet,
		Path:      assetPath(id, "logs"),
	})
}

func messageBody(message string) (map[string]any, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrMessageRequired
	}

	return map[string]any{"message": message}, nil
}

// Delete hides the asset, the message records the reason.
func (c *Client) Delete(ctx context.Context, id int, message string) (*model.Asset, error) {
	if err := validateID("asset", id); err != nil {
		return nil, err
	}

	body, err := messageBody(message)
	if err != nil {
		return nil, err
	}

	return call[model.Asset](ctx, c.transport, &transport.Request{
		Operation: "delete",
		Method:    http.MethodDelete,
		Path:      assetPath(id),
		Body:      body,
	})
}

// Restore restores a hidden asset, the message records the reason.
func (c *Client) Restore(ctx context.Context, id int, message string) (*model.Asset, error) {
	if err := validateID("asset", id); err != nil {
		return nil, err
	}

	body, err := messageBody(message)
	if err != nil {
		return nil, err
	}

	return call[model.Asset](ctx, c.transport, &transport.Request{
		Operation: "restore",
		Method:    http.MethodPatch,
		Path:      assetPath(id, "restore"),
		Body:      body,
	})
}

func validateCreate(req *model.CreateRequest) error {
	var merr *multierror.Error

	if len(req.Assets) == 0 {
		merr = multierror.Append(merr, errors.New("at least one asset is required"))
	}

	if strings.TrimSpace(req.Description) == "" {
		merr = multierror.Append(merr, errors.New("a description is required"))
	}

	if strings.TrimSpace(req.Content) == "" {
		merr = multierror.Append(merr, errors.New("content is required"))
	}

	for idx, asset := range req.Assets {
		if strings.TrimSpace(asset.Serial) == "" {
			merr = multierror.Append(merr, errors.New("asset "+strconv.Itoa(idx)+": a serial is required"))
		}
	}

	if err := merr.ErrorOrNil(); err != nil {
		return errors.Wrap(ErrInvalidCreate, err.Error())
	}

	return nil
}

// Create creates the given assets in bulk.
//
// The backend may partially succeed, assets with a duplicate serial are listed in the result errors.
func (c *Client) Create(ctx context.Context, req model.CreateRequest) (*model.CreateResult, error) {
	if err := validateCreate(&req); err != nil {
		return nil, err
	}

	body := filter.Clean(map[string]any{
		"assets":      req.Assets,
		"description": req.Description,
		"notes":       req.Notes,
		"content":     req.Content,
	})

	return call[model.CreateResult](ctx, c.transport, &transport.Request{
		Operation: "create",
		Method:    http.MethodPost,
		Path:      basePath,
		Body:      body,
	})
}

// Specifications returns the specifications attached to an asset.
func (c *Client) Specifications(ctx context.Context, id int) (*model.List[model.Specification], error) {
	if err := validateID("asset", id); err != nil {
		return nil, err
	}

	return call[model.List[model.Specification]](ctx, c.transport, &transport.Request{
		Operation: "specifications",
		Method:    http.MethodGet,
		Path:      assetPath(id, "specifications"),
	})
}

// AddSpecification sets the value of a specification type on an asset,
// a specification is keyed by its type so this replaces any existing value.
func (c *Client) AddSpecification(ctx context.Context, id, typeID int, value string) (*model.Specification, error) {
	if err := validateID("asset", id); err != nil {
		return nil, err
	}

	if err := validateID("specification type", typeID); err != nil {
		return nil, err
	}

	return call[model.Specification](ctx, c.transport, &transport.Request{
		Operation: "specification_add",
		Method:    http.MethodPatch,
		Path:      assetPath(id, "specifications"),
		Body:      map[string]any{"typeId": typeID, "value": value},
	})
}

// RemoveSpecification removes the specification of the given type from an asset.
//
// The type identifier is sent as a query parameter.
func (c *Client) RemoveSpecification(ctx context.Context, id, typeID int) (*model.Specification, error) {
	if err := validateID("asset", id); err != nil {
		return nil, err
	}

	if err := validateID("specification type", typeID); err != nil {
		return nil, err
	}

	return call[model.Specification](ctx, c.transport, &transport.Request{
		Operation: "specification_remove",
		Method:    http.MethodDelete,
		Path:      assetPath(id, "specifications"),
		Query:     filter.Values(map[string]any{"typeId": typeID}),
	})
}

// Maintenances returns the maintenance records of an asset.
func (c *Client) Maintenances(ctx context.Context, id int, f model.MaintenanceFilter) (*model.List[model.Maintenance], error) {
	if err := validateID("asset", id); err != nil {
		return nil, err
	}

	q, err := query(f, f.Order, model.DefaultLimit)
	if err != nil {
		return nil, err
	}

	return call[model.List[model.Maintenance]](ctx, c.transport, &transport.Request{
		Operation: "maintenances",
		Method:    http.MethodGet,
		Path:      assetPath(id, "maintenances"),
		Query:     q,
	})
}

// GeoAlerts returns the geo alerts raised for an asset.
func (c *Client) GeoAlerts(ctx context.Context, id int, f model.GeoAlertFilter) (*model.List[model.GeoAlert], error) {
	if err := validateID("asset", id); err != nil {
		return nil, err
	}

	q, err := query(f, f.Order, model.DefaultLimit)
	if err != nil {
		return nil, err
	}

	return call[model.List[model.GeoAlert]](ctx, c.transport, &transport.Request{
		Operation: "geo_alerts",
		Method:    http.MethodGet,
		Path:      assetPath(id, "geo"),
		Query:     q,
	})
}

// Movements returns the movement history of an asset.
func (c *Client) Movements(ctx context.Context, id int, f model.MovementFilter) (*model.List[model.Movement], error) {
	if err := validateID("asset", id); err != nil {
		return nil, err
	}

	q, err := query(f, f.Order, model.DefaultLimit)
	if err != nil {
		return nil, err
	}

	return call[model.List[model.Movement]](ctx, c.transport, &transport.Request{
		Operation: "movements",
		Method:    http.MethodGet,
		Path:      assetPath(id, "movements"),
		Query:     q,
	})
}

// Export returns the spreadsheet of the assets matching the filter.
func (c *Client) Export(ctx context.Context, f model.AssetFilter) ([]byte, error) {
	if f.Limit <= 0 {
		f.Limit = model.DefaultLimit
	}

	if f.Page <= 0 {
		f.Page = model.DefaultPage
	}

	q, err := query(f, f.Order, model.DefaultLimit)
	if err != nil {
		return nil, err
	}

	resp, err := c.transport.Do(ctx, &transport.Request{
		Operation: "export",
		Method:    http.MethodGet,
		Path:      basePath + "/excel",
		Query:     q,
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Body) == 0 {
		return nil, &transport.Error{Kind: transport.KindDecode, StatusCode: resp.StatusCode, Message: "empty export payload"}
	}

	return resp.Body, nil
}

// Patch updates the given fields of an asset, fields left nil are not sent.
func (c *Client) Patch(ctx context.Context, id int, p model.AssetPatch) (*model.Asset, error) {
	if err := validateID("asset", id); err != nil {
		return nil, err
	}

	body, err := filter.FromStruct(p)
	if err != nil {
		return nil, errors.Wrap(ErrAssets, err.Error())
	}

	if len(body) == 0 {
		return nil, ErrEmptyPatch
	}

	return call[model.Asset](ctx, c.transport, &transport.Request{
		Operation: "patch",
		Method:    http.MethodPatch,
		Path:      assetPath(id),
		Body:      body,
	})
}
