// Copyright 2024 The Chartfold Authors.
// SPDX-License-Identifier: Apache-2.0

package renderapi

import (
	"encoding/json"
	"fmt"
	"sort"

	"chartfold.dev/chartfold/pkg/orderedmap"
	"chartfold.dev/chartfold/pkg/render"
	"chartfold.dev/chartfold/pkg/template"
	"chartfold.dev/chartfold/pkg/values"
)

type renderRequest struct {
	Templates map[string]string `json:"templates"`
	Values    json.RawMessage   `json:"values"`

	ReleaseName string `json:"release_name"`
	Namespace   string `json:"namespace"`

	ChartName    string `json:"chart_name"`
	ChartVersion string `json:"chart_version"`
	AppVersion   string `json:"app_version"`

	KubeVersion string   `json:"kube_version"`
	APIVersions []string `json:"api_versions"`
}

type renderResponse struct {
	Rendered []renderedTemplate `json:"rendered"`
}

type renderedTemplate struct {
	Name   string `json:"name"`
	Output string `json:"output"`
}

type errorResponse struct {
	Error errorDetails `json:"error"`
}

type errorDetails struct {
	Kind     string `json:"kind"`
	Msg      string `json:"msg"`
	Position string `json:"position,omitempty"`
}

// RenderJSON evaluates a JSON render request and returns the response
// body. Engine errors come back as a marshaled error envelope with a
// nil error so callers can relay them verbatim.
func RenderJSON(data []byte) ([]byte, error) {
	var req renderRequest

	err := json.Unmarshal(data, &req)
	if err != nil {
		return nil, fmt.Errorf("Unmarshaling request: %s", err)
	}
	if len(req.Templates) == 0 {
		return nil, fmt.Errorf("Expected at least one template")
	}

	vals, err := decodeValues(req.Values)
	if err != nil {
		return nil, err
	}

	ctx, err := values.NewContext(vals,
		values.ReleaseOptions{Name: req.ReleaseName, Namespace: req.Namespace, IsInstall: true},
		values.ChartMeta{Name: req.ChartName, Version: req.ChartVersion, AppVersion: req.AppVersion},
		values.Capabilities{KubeVersion: req.KubeVersion, APIVersions: req.APIVersions},
	)
	if err != nil {
		return nil, err
	}

	// map iteration order is not stable; render in name order
	names := make([]string, 0, len(req.Templates))
	for name := range req.Templates {
		names = append(names, name)
	}
	sort.Strings(names)

	srcs := make([]render.Source, 0, len(names))
	for _, name := range names {
		srcs = append(srcs, render.Source{Name: name, Data: req.Templates[name]})
	}

	engine := render.NewEngine(render.EngineOpts{})

	rendered, err := engine.RenderSources(srcs, ctx)
	if err != nil {
		return ErrorJSON(err)
	}

	resp := renderResponse{Rendered: []renderedTemplate{}}
	for _, r := range rendered {
		resp.Rendered = append(resp.Rendered, renderedTemplate{Name: r.Name, Output: r.Output})
	}

	return json.Marshal(resp)
}

func decodeValues(raw json.RawMessage) (*orderedmap.Map, error) {
	if len(raw) == 0 {
		return orderedmap.NewMap(), nil
	}

	decoded, err := values.UnmarshalJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("Unmarshaling values: %s", err)
	}

	vals, ok := decoded.(*orderedmap.Map)
	if !ok {
		return nil, fmt.Errorf("Expected values to be a JSON object")
	}
	return vals, nil
}

func errorBody(err error) errorDetails {
	engineErr := template.AsEngineErr(err, template.ParseError)

	details := errorDetails{Kind: string(engineErr.Kind), Msg: engineErr.Msg}
	if engineErr.Position.IsKnown() {
		details.Position = engineErr.Position.AsCompactString()
	}
	return details
}
