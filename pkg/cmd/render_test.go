// Copyright 2024 The Chartfold Authors.
// SPDX-License-Identifier: Apache-2.0

package cmd_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chartfold.dev/chartfold/pkg/cmd"
)

func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0700))
	require.NoError(t, os.WriteFile(path, []byte(data), 0600))
	return path
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	tplPath := writeFile(t, dir, "cm.yaml", "name: {{ .Values.name }}\nns: {{ .Release.Namespace }}\n")
	valuesPath := writeFile(t, dir, "values.yaml", "name: web\n")
	outPath := filepath.Join(dir, "out.yaml")

	opts := cmd.NewRenderOptions()
	opts.FilePaths = []string{tplPath}
	opts.ValuesPaths = []string{valuesPath}
	opts.OutputPath = outPath
	opts.ReleaseName = "demo"
	opts.Namespace = "prod"

	require.NoError(t, opts.Run())

	out, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "---\n# Source: "+tplPath+"\nname: web\nns: prod\n", string(out))
}

func TestRenderCommandWalksDirectories(t *testing.T) {
	dir := t.TempDir()
	chartDir := filepath.Join(dir, "chart")
	writeFile(t, chartDir, "templates/_helpers.tpl", `{{ define "name" }}demo-app{{ end }}`)
	writeFile(t, chartDir, "templates/cm.yaml", `name: {{ include "name" . }}`)
	outPath := filepath.Join(dir, "out.yaml")

	opts := cmd.NewRenderOptions()
	opts.FilePaths = []string{chartDir}
	opts.OutputPath = outPath

	require.NoError(t, opts.Run())

	out, err := os.ReadFile(outPath)
	require.NoError(t, err)
	// the helpers file renders to nothing and is omitted from output
	assert.Equal(t, "---\n# Source: templates/cm.yaml\nname: demo-app\n", string(out))
}

func TestRenderCommandLayersValues(t *testing.T) {
	dir := t.TempDir()
	tplPath := writeFile(t, dir, "cm.yaml", "tag: {{ .Values.image.tag }}\nrepo: {{ .Values.image.repository }}\n")
	basePath := writeFile(t, dir, "values.yaml", "image:\n  repository: nginx\n  tag: stable\n")
	overridePath := writeFile(t, dir, "values-prod.yaml", "image:\n  tag: v1.2.3\n")
	outPath := filepath.Join(dir, "out.yaml")

	opts := cmd.NewRenderOptions()
	opts.FilePaths = []string{tplPath}
	opts.ValuesPaths = []string{basePath, overridePath}
	opts.OutputPath = outPath

	require.NoError(t, opts.Run())

	out, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(out), "tag: v1.2.3")
	assert.Contains(t, string(out), "repo: nginx")
}

func TestRenderCommandRequiresTemplates(t *testing.T) {
	opts := cmd.NewRenderOptions()
	err := opts.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one template")
}

func TestRenderCommandLookupManifests(t *testing.T) {
	dir := t.TempDir()
	tplPath := writeFile(t, dir, "cm.yaml",
		`{{ $cm := lookup "v1" "ConfigMap" "default" "conf" }}region: {{ $cm.data.region }}`)
	manifestPath := writeFile(t, dir, "snapshot.yaml", `
apiVersion: v1
kind: ConfigMap
metadata:
  name: conf
  namespace: default
data:
  region: eu-west-1
`)
	outPath := filepath.Join(dir, "out.yaml")

	opts := cmd.NewRenderOptions()
	opts.FilePaths = []string{tplPath}
	opts.LookupManifests = manifestPath
	opts.OutputPath = outPath

	require.NoError(t, opts.Run())

	out, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(out), "region: eu-west-1")
}
