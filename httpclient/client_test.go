package httpclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jrsteele09/go-assoc-admin/httpclient"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestNewValidatesBaseURL(t *testing.T) {
	for _, raw := range []string{"", "   ", "localhost", "://bad", "/api"} {
		_, err := httpclient.New(raw)
		require.Error(t, err, raw)
	}
	c, err := httpclient.New("https://api.example.com/")
	require.NoError(t, err)
	require.Equal(t, "https://api.example.com", c.BaseURL())
}

func TestBearerAttachedOnlyWithCredential(t *testing.T) {
	var gotAuth atomic.Value
	server := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	c, err := httpclient.New(server.URL)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, c.DoJSON(ctx, http.MethodGet, "/api/vendors", nil, nil))
	require.Equal(t, "", gotAuth.Load())

	c.SetCredential("abc.def.ghi")
	require.True(t, c.HasCredential())
	var out struct {
		OK bool `json:"ok"`
	}
	require.NoError(t, c.DoJSON(ctx, http.MethodGet, "api/vendors", nil, &out))
	require.Equal(t, "Bearer abc.def.ghi", gotAuth.Load())
	require.True(t, out.OK)

	require.NoError(t, c.DoJSON(ctx, http.MethodPost, "/api/auth/login", map[string]string{"email": "x"}, nil, httpclient.WithoutCredential()))
	require.Equal(t, "", gotAuth.Load())

	c.ClearCredential()
	require.False(t, c.HasCredential())
	require.NoError(t, c.DoJSON(ctx, http.MethodGet, "/api/vendors", nil, nil))
	require.Equal(t, "", gotAuth.Load())
}

func TestCredentialSourceDecidesEachRequest(t *testing.T) {
	var gotAuth atomic.Value
	server := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	})

	c, err := httpclient.New(server.URL)
	require.NoError(t, err)
	ctx := context.Background()

	var live atomic.Value
	live.Store("live.token.one")
	c.SetCredential("pushed.token")
	c.SetCredentialSource(func() string { return live.Load().(string) })

	require.NoError(t, c.DoJSON(ctx, http.MethodGet, "/api/vendors", nil, nil))
	require.Equal(t, "Bearer live.token.one", gotAuth.Load())

	live.Store("")
	require.False(t, c.HasCredential())
	require.NoError(t, c.DoJSON(ctx, http.MethodGet, "/api/vendors", nil, nil))
	require.Equal(t, "", gotAuth.Load())
}

func TestUnauthorizedHandlerRunsOncePerCredentialedRequest(t *testing.T) {
	var requests int32
	server := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"jwt expired"}`))
	})

	var calls int32
	c, err := httpclient.New(server.URL, httpclient.WithUnauthorizedHandler(func(string) {
		atomic.AddInt32(&calls, 1)
	}))
	require.NoError(t, err)
	ctx := context.Background()

	err = c.DoJSON(ctx, http.MethodGet, "/api/events", nil, nil)
	require.Error(t, err)
	require.Equal(t, int32(0), atomic.LoadInt32(&calls), "no credential, nothing to tear down")

	c.SetCredential("token")
	err = c.DoJSON(ctx, http.MethodGet, "/api/events", nil, nil)
	require.Equal(t, http.StatusUnauthorized, httpclient.StatusCode(err))
	require.Equal(t, int32(1), atomic.LoadInt32(&calls))
	require.Equal(t, int32(2), atomic.LoadInt32(&requests), "no retry")

	err = c.DoJSON(ctx, http.MethodPost, "/api/auth/login", nil, nil, httpclient.WithoutCredential())
	require.Error(t, err)
	require.Equal(t, int32(1), atomic.LoadInt32(&calls))

	var reqErr *httpclient.RequestError
	require.ErrorAs(t, err, &reqErr)
	require.Equal(t, "jwt expired", reqErr.Message)
}

func TestOtherStatusesPassThrough(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{name: "validation", status: http.StatusBadRequest, body: `{"message":"email is required"}`, message: "email is required"},
		{name: "forbidden", status: http.StatusForbidden, body: `{"error":"forbidden"}`, message: "forbidden"},
		{name: "server error", status: http.StatusInternalServerError, body: ``, message: "Internal Server Error"},
		{name: "plain text", status: http.StatusBadGateway, body: `upstream down`, message: "upstream down"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			var calls int32
			c, err := httpclient.New(server.URL, httpclient.WithUnauthorizedHandler(func(string) { atomic.AddInt32(&calls, 1) }))
			require.NoError(t, err)
			c.SetCredential("token")

			err = c.DoJSON(context.Background(), http.MethodGet, "/x", nil, nil)
			var reqErr *httpclient.RequestError
			require.ErrorAs(t, err, &reqErr)
			require.Equal(t, tt.status, reqErr.StatusCode)
			require.Equal(t, tt.message, reqErr.Message)
			require.Equal(t, int32(0), atomic.LoadInt32(&calls))
			require.True(t, c.HasCredential())
		})
	}
}

func TestTransportTimeout(t *testing.T) {
	server := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(150 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	})
	c, err := httpclient.New(server.URL, httpclient.WithTimeout(20*time.Millisecond))
	require.NoError(t, err)

	err = c.DoJSON(context.Background(), http.MethodGet, "/slow", nil, nil)
	require.Error(t, err)
	require.Equal(t, 0, httpclient.StatusCode(err))
}

func TestDecodeErrorReported(t *testing.T) {
	server := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})
	c, err := httpclient.New(server.URL)
	require.NoError(t, err)

	var out map[string]any
	err = c.DoJSON(context.Background(), http.MethodGet, "/x", nil, &out)
	require.Error(t, err)
	require.Equal(t, http.StatusOK, httpclient.StatusCode(err))
}
