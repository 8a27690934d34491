package transport

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metal-toolbox/assetctl/internal/app"
)

func testClient(t *testing.T, mockURL string) *Client {
	t.Helper()

	cfg := &app.Configuration{
		Endpoint:      mockURL,
		AuthToken:     "hunter2",
		CustomHeaders: map[string]string{"X-Tenant": "acme"},
		OAuthOptions:  &app.OAuthOptions{Disable: true},
	}

	c, err := New(context.TODO(), cfg, logrus.New())
	if err != nil {
		t.Fatal(err)
	}

	return c
}

func Test_Do_Success(t *testing.T) {
	handler := http.NewServeMux()
	handler.HandleFunc(
		"/assets/1",
		func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPatch:
				assert.Equal(t, "Bearer hunter2", r.Header.Get("Authorization"))
				assert.Equal(t, "acme", r.Header.Get("X-Tenant"))
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				assert.NotEmpty(t, r.Header.Get(RequestIDHeader))
				assert.Equal(t, "yes", r.URL.Query().Get("dry"))

				b, err := io.ReadAll(r.Body)
				if err != nil {
					t.Fatal(err)
				}

				got := map[string]any{}
				if err := json.Unmarshal(b, &got); err != nil {
					t.Fatal(err)
				}

				assert.Equal(t, map[string]any{"notes": "moved"}, got)

				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"id":1,"serial":"SN-1"}`))
			default:
				t.Fatal("expected PATCH request, got: " + r.Method)
			}
		},
	)

	mock := httptest.NewServer(handler)
	defer mock.Close()

	c := testClient(t, mock.URL)

	resp, err := c.Do(context.TODO(), &Request{
		Operation: "patch",
		Method:    http.MethodPatch,
		Path:      "/assets/1",
		Query:     url.Values{"dry": {"yes"}},
		Body:      map[string]any{"notes": "moved"},
	})
	require.NoError(t, err)

	got := struct {
		ID     int    `json:"id"`
		Serial string `json:"serial"`
	}{}

	require.NoError(t, DecodeJSON(resp, &got))
	assert.Equal(t, 1, got.ID)
	assert.Equal(t, "SN-1", got.Serial)
}

func Test_Do_HTTPErrors(t *testing.T) {
	testcases := []struct {
		name            string
		status          int
		body            string
		expectedMessage string
	}{
		{
			"message field is extracted",
			http.StatusBadRequest,
			`{"message":"serial already exists"}`,
			"serial already exists",
		},
		{
			"validation message list is joined",
			http.StatusUnprocessableEntity,
			`{"message":["serial must be a string","modelId must be a number"],"error":"Unprocessable Entity"}`,
			"serial must be a string, modelId must be a number",
		},
		{
			"error field is the fallback",
			http.StatusNotFound,
			`{"error":"Not Found"}`,
			"Not Found",
		},
		{
			"non JSON body gets a generic message",
			http.StatusBadGateway,
			`<html>bad gateway</html>`,
			"request failed: 502 Bad Gateway",
		},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			var hits int32

			mock := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				atomic.AddInt32(&hits, 1)
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer mock.Close()

			c := testClient(t, mock.URL)

			resp, err := c.Do(context.TODO(), &Request{Operation: "get", Method: http.MethodGet, Path: "/assets/1"})
			assert.Nil(t, resp)

			te, ok := AsError(err)
			require.True(t, ok)
			assert.Equal(t, KindHTTP, te.Kind)
			assert.Equal(t, tc.status, te.StatusCode)
			assert.Equal(t, tc.expectedMessage, te.Message)

			// a failed request is never repeated
			assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
		})
	}
}

func Test_Do_NetworkError(t *testing.T) {
	mock := httptest.NewServer(http.NotFoundHandler())
	mockURL := mock.URL
	mock.Close()

	c := testClient(t, mockURL)

	_, err := c.Do(context.TODO(), &Request{Operation: "list", Method: http.MethodGet, Path: "/assets"})

	te, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindNetwork, te.Kind)
	assert.Equal(t, "unable to reach the asset API", Message(err))
}

func Test_DecodeJSON(t *testing.T) {
	v := map[string]any{}

	err := DecodeJSON(&Response{StatusCode: http.StatusOK}, &v)
	te, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindDecode, te.Kind)

	err = DecodeJSON(&Response{StatusCode: http.StatusOK, Body: []byte(`{"rows":`)}, &v)
	te, ok = AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindDecode, te.Kind)
}

func Test_New_NilConfig(t *testing.T) {
	_, err := New(context.TODO(), nil, logrus.New())
	assert.ErrorIs(t, err, ErrConfig)
}
