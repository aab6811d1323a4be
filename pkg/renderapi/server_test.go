// Copyright 2024 The Chartfold Authors.
// SPDX-License-Identifier: Apache-2.0

package renderapi_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chartfold.dev/chartfold/pkg/renderapi"
)

func postRender(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	mux := renderapi.NewServer(renderapi.ServerOpts{}).Mux()
	req := httptest.NewRequest(http.MethodPost, "/render", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestRenderEndpoint(t *testing.T) {
	rec := postRender(t, `{
		"templates": {"cm.yaml": "name: {{ .Values.name | default \"anon\" }}"},
		"values": {"name": "web"},
		"release_name": "demo"
	}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Rendered []struct {
			Name   string `json:"name"`
			Output string `json:"output"`
		} `json:"rendered"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Rendered, 1)
	assert.Equal(t, "cm.yaml", resp.Rendered[0].Name)
	assert.Equal(t, "name: web", resp.Rendered[0].Output)
}

func TestRenderEndpointTemplatesRenderInNameOrder(t *testing.T) {
	rec := postRender(t, `{
		"templates": {
			"b.yaml": "second",
			"a.yaml": "first"
		}
	}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Rendered []struct {
			Name string `json:"name"`
		} `json:"rendered"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Rendered, 2)
	assert.Equal(t, "a.yaml", resp.Rendered[0].Name)
	assert.Equal(t, "b.yaml", resp.Rendered[1].Name)
}

func TestRenderEndpointSurfacesEngineErrors(t *testing.T) {
	rec := postRender(t, `{
		"templates": {"cm.yaml": "{{ required \"name is required\" .Values.name }}"}
	}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Error struct {
			Kind     string `json:"kind"`
			Msg      string `json:"msg"`
			Position string `json:"position"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "RequiredValueError", resp.Error.Kind)
	assert.Equal(t, "name is required", resp.Error.Msg)
	assert.Contains(t, resp.Error.Position, "cm.yaml:1")
}

func TestRenderEndpointRejectsBadRequests(t *testing.T) {
	rec := postRender(t, `{"templates": {}}`)
	assert.Contains(t, rec.Body.String(), "at least one template")

	rec = postRender(t, `not json`)
	assert.Contains(t, rec.Body.String(), "Unmarshaling request")
}

func TestRenderEndpointMethodNotAllowed(t *testing.T) {
	mux := renderapi.NewServer(renderapi.ServerOpts{}).Mux()
	req := httptest.NewRequest(http.MethodGet, "/render", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	mux := renderapi.NewServer(renderapi.ServerOpts{}).Mux()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
