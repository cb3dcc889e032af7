package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/study-assistant/internal/api/shared"
)

// newRequest builds a request with an optional JSON body, authenticated as
// userID unless it is uuid.Nil, with the given chi URL params.
func newRequest(
	t *testing.T,
	method, target string,
	body any,
	userID uuid.UUID,
	params map[string]string,
) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, target, &buf)
	ctx := shared.SetTraceID(req.Context())
	if userID != uuid.Nil {
		ctx = shared.WithUserID(ctx, userID)
	}
	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return req.WithContext(ctx)
}

// successBody is the success envelope with data left raw.
type successBody struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Timestamp string          `json:"timestamp"`
}

func decodeSuccess(t *testing.T, w *httptest.ResponseRecorder, data any) successBody {
	t.Helper()

	var body successBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	require.True(t, body.Success, w.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(body.Data, data))
	}
	return body
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) shared.ErrorBody {
	t.Helper()

	var body shared.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	require.False(t, body.Success)
	require.Equal(t, w.Code, body.Error.Status)
	return body.Error
}
