package handler

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskdeck/backend/domain"
	"github.com/taskdeck/backend/internal/infrastructure/prefstore"
	"github.com/taskdeck/backend/pkg/httpcontext"
	prefsUC "github.com/taskdeck/backend/usecase/prefs"
)

func newPrefsHandler(t *testing.T) *PrefsHandler {
	t.Helper()
	st, err := prefstore.Open(filepath.Join(t.TempDir(), "prefs.db"), "")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	uc := prefsUC.New(st, zap.NewNop())
	return NewPrefsHandler(uc, httpcontext.NewAdapter(time.Second), zap.NewNop())
}

func TestGetPreferencesDefaults(t *testing.T) {
	h := newPrefsHandler(t)

	ctx := doRequest(fasthttp.MethodGet, "/api/v1/preferences", nil)
	h.GetPreferences(ctx)

	require.Equal(t, http.StatusOK, ctx.Response.StatusCode())
	env := decode(t, ctx)

	var prefs domain.Preferences
	require.NoError(t, json.Unmarshal(env.Data, &prefs))
	assert.Equal(t, domain.DefaultPreferences(), prefs)
}

func TestUpdateThenGetPreferences(t *testing.T) {
	h := newPrefsHandler(t)

	put := doRequest(fasthttp.MethodPut, "/api/v1/preferences", []byte(`{"dark_mode": true, "font": "mono"}`))
	h.UpdatePreferences(put)
	require.Equal(t, http.StatusOK, put.Response.StatusCode())

	get := doRequest(fasthttp.MethodGet, "/api/v1/preferences", nil)
	h.GetPreferences(get)

	env := decode(t, get)
	var prefs domain.Preferences
	require.NoError(t, json.Unmarshal(env.Data, &prefs))
	assert.True(t, prefs.DarkMode)
	assert.Equal(t, "mono", prefs.Font)
}

func TestUpdatePreferencesRejectsUnknownFont(t *testing.T) {
	h := newPrefsHandler(t)

	ctx := doRequest(fasthttp.MethodPut, "/api/v1/preferences", []byte(`{"font": "wingdings"}`))
	h.UpdatePreferences(ctx)

	assert.Equal(t, http.StatusBadRequest, ctx.Response.StatusCode())
	env := decode(t, ctx)
	assert.Equal(t, string(domain.ErrCodeInvalid), env.Code)
}
