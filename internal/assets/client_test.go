package assets

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metal-toolbox/assetctl/internal/app"
	"github.com/metal-toolbox/assetctl/internal/fixtures"
	"github.com/metal-toolbox/assetctl/internal/model"
	"github.com/metal-toolbox/assetctl/internal/transport"
)

func testClientInstance(t *testing.T, mockURL string) *Client {
	t.Helper()

	cfg := &app.Configuration{
		Endpoint:     mockURL,
		OAuthOptions: &app.OAuthOptions{Disable: true},
	}

	tr, err := transport.New(context.TODO(), cfg, logrus.New())
	if err != nil {
		t.Fatal(err)
	}

	return NewClient(tr)
}

func readBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()

	b, err := io.ReadAll(r.Body)
	if err != nil {
		t.Fatal(err)
	}

	got := map[string]any{}
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatal(err)
	}

	return got
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(fixtures.JSON(v))
}

// failHandler fails the test when any request reaches the mock server.
func failHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request: %s %s", r.Method, r.URL.String())
	})
}

func Test_Client_List(t *testing.T) {
	handler := http.NewServeMux()
	handler.HandleFunc(
		"/assets",
		func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				expected := url.Values{
					"limit":   {"10"},
					"offset":  {"20"},
					"serial":  {"SN-LAPTOP"},
					"enabled": {"false"},
					"order":   {"DESC"},
				}

				assert.Equal(t, expected, r.URL.Query())

				writeJSON(w, fixtures.AssetList)
			default:
				t.Fatal("expected GET request, got: " + r.Method)
			}
		},
	)

	mock := httptest.NewServer(handler)
	defer mock.Close()

	c := testClientInstance(t, mock.URL)

	got, err := c.List(context.TODO(), model.AssetFilter{
		Limit:   10,
		Page:    3,
		Serial:  model.Ptr("SN-LAPTOP"),
		Enabled: model.Ptr(false),
		Order:   model.Ptr("DESC"),
	})
	require.NoError(t, err)

	if diff := cmp.Diff(fixtures.AssetList, got); diff != "" {
		t.Fatal(diff)
	}
}

func Test_Client_ListDefaultPagination(t *testing.T) {
	mock := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, url.Values{"limit": {"10"}, "offset": {"0"}}, r.URL.Query())
		writeJSON(w, &model.List[model.Asset]{})
	}))
	defer mock.Close()

	c := testClientInstance(t, mock.URL)

	got, err := c.List(context.TODO(), model.AssetFilter{})
	require.NoError(t, err)
	assert.Equal(t, 0, got.Total)
}

func Test_Client_ListInvalidOrder(t *testing.T) {
	mock := httptest.NewServer(failHandler(t))
	defer mock.Close()

	c := testClientInstance(t, mock.URL)

	_, err := c.List(context.TODO(), model.AssetFilter{Order: model.Ptr("up")})
	assert.ErrorIs(t, err, ErrAssets)
}

func Test_Client_GetAndLogs(t *testing.T) {
	handler := http.NewServeMux()
	handler.HandleFunc("/assets/1", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, fixtures.Laptop)
	})
	handler.HandleFunc("/assets/1/logs", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, fixtures.Logs)
	})

	mock := httptest.NewServer(handler)
	defer mock.Close()

	c := testClientInstance(t, mock.URL)

	asset, err := c.Get(context.TODO(), 1)
	require.NoError(t, err)

	if diff := cmp.Diff(fixtures.Laptop, asset); diff != "" {
		t.Fatal(diff)
	}

	logs, err := c.Logs(context.TODO(), 1)
	require.NoError(t, err)

	if diff := cmp.Diff(fixtures.Logs, logs); diff != "" {
		t.Fatal(diff)
	}
}

func Test_Client_InvalidID(t *testing.T) {
	mock := httptest.NewServer(failHandler(t))
	defer mock.Close()

	c := testClientInstance(t, mock.URL)

	_, err := c.Get(context.TODO(), 0)
	assert.ErrorIs(t, err, ErrInvalidID)

	_, err = c.Movements(context.TODO(), -1, model.MovementFilter{})
	assert.ErrorIs(t, err, ErrInvalidID)

	_, err = c.RemoveSpecification(context.TODO(), 1, 0)
	assert.ErrorIs(t, err, ErrInvalidID)
}

func Test_Client_DeleteRestore(t *testing.T) {
	handler := http.NewServeMux()
	handler.HandleFunc(
		"/assets/1",
		func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodDelete:
				assert.Equal(t, map[string]any{"message": "lost in transit"}, readBody(t, r))
				w.WriteHeader(http.StatusNoContent)
			default:
				t.Fatal("expected DELETE request, got: " + r.Method)
			}
		},
	)
	handler.HandleFunc(
		"/assets/1/restore",
		func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPatch:
				assert.Equal(t, map[string]any{"message": "found"}, readBody(t, r))
				writeJSON(w, fixtures.Laptop)
			default:
				t.Fatal("expected PATCH request, got: " + r.Method)
			}
		},
	)

	mock := httptest.NewServer(handler)
	defer mock.Close()

	c := testClientInstance(t, mock.URL)

	deleted, err := c.Delete(context.TODO(), 1, "lost in transit")
	require.NoError(t, err)
	assert.NotNil(t, deleted)

	restored, err := c.Restore(context.TODO(), 1, "found")
	require.NoError(t, err)
	assert.Equal(t, fixtures.Laptop.Serial, restored.Serial)

	// the message is required, no request is made without it
	_, err = c.Delete(context.TODO(), 1, "  ")
	assert.ErrorIs(t, err, ErrMessageRequired)

	_, err = c.Restore(context.TODO(), 1, "")
	assert.ErrorIs(t, err, ErrMessageRequired)
}

func Test_Client_Specifications(t *testing.T) {
	handler := http.NewServeMux()
	handler.HandleFunc(
		"/assets/1/specifications",
		func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				writeJSON(w, fixtures.Specifications)
			case http.MethodPatch:
				assert.Equal(t, map[string]any{"typeId": float64(10), "value": "32GB"}, readBody(t, r))
				writeJSON(w, &model.Specification{TypeID: 10, Value: "32GB"})
			case http.MethodDelete:
				// the type identifier is a query parameter, never a path segment
				assert.Equal(t, "/assets/1/specifications", r.URL.Path)
				assert.Equal(t, url.Values{"typeId": {"10"}}, r.URL.Query())
				writeJSON(w, &model.Specification{TypeID: 10})
			default:
				t.Fatal("unexpected request method: " + r.Method)
			}
		},
	)

	mock := httptest.NewServer(handler)
	defer mock.Close()

	c := testClientInstance(t, mock.URL)

	specs, err := c.Specifications(context.TODO(), 1)
	require.NoError(t, err)
	assert.Equal(t, fixtures.Specifications, specs)

	added, err := c.AddSpecification(context.TODO(), 1, 10, "32GB")
	require.NoError(t, err)
	assert.Equal(t, "32GB", added.Value)

	removed, err := c.RemoveSpecification(context.TODO(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 10, removed.TypeID)
}

func Test_Client_SubLists(t *testing.T) {
	handler := http.NewServeMux()
	handler.HandleFunc("/assets/1/movements", func(w http.ResponseWriter, r *http.Request) {
		expected := url.Values{
			"limit":   {"5"},
			"offset":  {"5"},
			"current": {"false"},
			"serial":  {""},
		}

		assert.Equal(t, expected, r.URL.Query())
		writeJSON(w, fixtures.Movements)
	})
	handler.HandleFunc("/assets/2/maintenances", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, url.Values{"status": {"open"}}, r.URL.Query())
		writeJSON(w, fixtures.Maintenances)
	})
	handler.HandleFunc("/assets/1/geo", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, url.Values{"startDate": {"2024-01-01"}, "endDate": {"2024-02-01"}}, r.URL.Query())
		writeJSON(w, fixtures.GeoAlerts)
	})

	mock := httptest.NewServer(handler)
	defer mock.Close()

	c := testClientInstance(t, mock.URL)

	movements, err := c.Movements(context.TODO(), 1, model.MovementFilter{
		Limit:   model.Ptr(5),
		Page:    model.Ptr(2),
		Current: model.Ptr(false),
		Serial:  model.Ptr(""),
	})
	require.NoError(t, err)

	if diff := cmp.Diff(fixtures.Movements, movements); diff != "" {
		t.Fatal(diff)
	}

	maintenances, err := c.Maintenances(context.TODO(), 2, model.MaintenanceFilter{Status: model.Ptr("open")})
	require.NoError(t, err)
	assert.Equal(t, 1, maintenances.Total)

	alerts, err := c.GeoAlerts(context.TODO(), 1, model.GeoAlertFilter{
		StartDate: model.Ptr("2024-01-01"),
		EndDate:   model.Ptr("2024-02-01"),
	})
	require.NoError(t, err)
	assert.Equal(t, "out_of_zone", alerts.Rows[0].Type)
}

func Test_Client_Create(t *testing.T) {
	handler := http.NewServeMux()
	handler.HandleFunc(
		"/assets",
		func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost:
				got := readBody(t, r)

				// notes were not given and are not sent
				assert.NotContains(t, got, "notes")
				assert.Equal(t, "purchase order 42", got["description"])
				assert.Equal(t, "application/pdf", got["content"])
				assert.Len(t, got["assets"], 2)

				writeJSON(w, &model.CreateResult{
					Created: []model.Asset{{ID: 10, Serial: "SN-A"}},
					Errors:  []model.Asset{{Serial: "SN-B"}},
				})
			default:
				t.Fatal("expected POST request, got: " + r.Method)
			}
		},
	)

	mock := httptest.NewServer(handler)
	defer mock.Close()

	c := testClientInstance(t, mock.URL)

	got, err := c.Create(context.TODO(), model.CreateRequest{
		Assets:      []model.NewAsset{{Serial: "SN-A", ModelID: 7}, {Serial: "SN-B", ModelID: 7}},
		Description: "purchase order 42",
		Content:     "application/pdf",
	})
	require.NoError(t, err)
	assert.Len(t, got.Created, 1)
	assert.Len(t, got.Errors, 1)
}

func Test_Client_CreateValidation(t *testing.T) {
	mock := httptest.NewServer(failHandler(t))
	defer mock.Close()

	c := testClientInstance(t, mock.URL)

	_, err := c.Create(context.TODO(), model.CreateRequest{
		Assets: []model.NewAsset{{Serial: ""}},
	})
	require.ErrorIs(t, err, ErrInvalidCreate)

	// every validation error is reported
	assert.Contains(t, err.Error(), "a description is required")
	assert.Contains(t, err.Error(), "content is required")
	assert.Contains(t, err.Error(), "asset 0: a serial is required")
}

func Test_Client_Patch(t *testing.T) {
	handler := http.NewServeMux()
	handler.HandleFunc(
		"/assets/1",
		func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPatch:
				// only the given fields are sent, a zero id is a value
				assert.Equal(t, map[string]any{"locationId": float64(0), "notes": "desk 4"}, readBody(t, r))
				writeJSON(w, fixtures.Laptop)
			default:
				t.Fatal("expected PATCH request, got: " + r.Method)
			}
		},
	)

	mock := httptest.NewServer(handler)
	defer mock.Close()

	c := testClientInstance(t, mock.URL)

	got, err := c.Patch(context.TODO(), 1, model.AssetPatch{LocationID: model.Ptr(0), Notes: model.Ptr("desk 4")})
	require.NoError(t, err)
	assert.Equal(t, fixtures.Laptop.Serial, got.Serial)

	_, err = c.Patch(context.TODO(), 1, model.AssetPatch{})
	assert.ErrorIs(t, err, ErrEmptyPatch)
}

func Test_Client_Export(t *testing.T) {
	payload := []byte("PK\x03\x04 spreadsheet")

	handler := http.NewServeMux()
	handler.HandleFunc("/assets/excel", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, url.Values{"limit": {"50"}, "offset": {"50"}, "brand": {"Dell"}}, r.URL.Query())

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		_, _ = w.Write(payload)
	})

	mock := httptest.NewServer(handler)
	defer mock.Close()

	c := testClientInstance(t, mock.URL)

	got, err := c.Export(context.TODO(), model.AssetFilter{Limit: 50, Page: 2, Brand: model.Ptr("Dell")})
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func Test_Client_ExportEmptyPayload(t *testing.T) {
	mock := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer mock.Close()

	c := testClientInstance(t, mock.URL)

	_, err := c.Export(context.TODO(), model.AssetFilter{})

	te, ok := transport.AsError(err)
	require.True(t, ok)
	assert.Equal(t, transport.KindDecode, te.Kind)
}
