// Copyright 2024 The Chartfold Authors.
// SPDX-License-Identifier: Apache-2.0

package values

import (
	"fmt"
	"strconv"
	"strings"

	goversion "github.com/hashicorp/go-version"

	"chartfold.dev/chartfold/pkg/orderedmap"
)

const (
	defaultReleaseService = "Chartfold"
	defaultKubeVersion    = "1.28.0"
)

// ReleaseOptions describes the release a render belongs to; it surfaces
// to templates as .Release.
type ReleaseOptions struct {
	Name      string
	Namespace string
	Revision  int
	IsInstall bool
	IsUpgrade bool
}

// ChartMeta surfaces as .Chart.
type ChartMeta struct {
	Name       string
	Version    string
	AppVersion string
}

// Capabilities surfaces as .Capabilities. KubeVersion must parse as a
// semantic version (a leading "v" is tolerated).
type Capabilities struct {
	KubeVersion string
	APIVersions []string
}

// Context is the full input tree for one render: user-supplied values
// plus built-in metadata. It is immutable for the duration of a render.
type Context struct {
	root *orderedmap.Map
}

// NewContext assembles the render context. The vals tree is used as-is
// (callers coalesce layers first), so it must not be mutated afterwards.
func NewContext(vals *orderedmap.Map, rel ReleaseOptions, chart ChartMeta, caps Capabilities) (*Context, error) {
	if vals == nil {
		vals = orderedmap.NewMap()
	}
	if rel.Revision == 0 {
		rel.Revision = 1
	}
	if caps.KubeVersion == "" {
		caps.KubeVersion = defaultKubeVersion
	}

	kubeVer, err := goversion.NewVersion(strings.TrimPrefix(caps.KubeVersion, "v"))
	if err != nil {
		return nil, fmt.Errorf("parsing capabilities kube version: %s", err)
	}
	segments := kubeVer.Segments()

	releaseMap := orderedmap.NewMap()
	releaseMap.Set("Name", rel.Name)
	releaseMap.Set("Namespace", rel.Namespace)
	releaseMap.Set("Service", defaultReleaseService)
	releaseMap.Set("Revision", int64(rel.Revision))
	releaseMap.Set("IsInstall", rel.IsInstall)
	releaseMap.Set("IsUpgrade", rel.IsUpgrade)

	chartMap := orderedmap.NewMap()
	chartMap.Set("Name", chart.Name)
	chartMap.Set("Version", chart.Version)
	chartMap.Set("AppVersion", chart.AppVersion)

	kubeVersionMap := orderedmap.NewMap()
	kubeVersionMap.Set("Version", "v"+kubeVer.String())
	kubeVersionMap.Set("Major", strconv.Itoa(segments[0]))
	kubeVersionMap.Set("Minor", strconv.Itoa(segments[1]))

	var apiVersions []interface{}
	for _, apiVersion := range caps.APIVersions {
		apiVersions = append(apiVersions, apiVersion)
	}

	capsMap := orderedmap.NewMap()
	capsMap.Set("KubeVersion", kubeVersionMap)
	capsMap.Set("APIVersions", apiVersions)

	root := orderedmap.NewMap()
	root.Set("Values", vals)
	root.Set("Release", releaseMap)
	root.Set("Chart", chartMap)
	root.Set("Capabilities", capsMap)

	return &Context{root: root}, nil
}

// NewContextFromTree wraps an already-assembled root mapping; used by the
// tpl function where the template author supplies the whole context.
func NewContextFromTree(root *orderedmap.Map) *Context {
	if root == nil {
		root = orderedmap.NewMap()
	}
	return &Context{root: root}
}

// Root returns the context tree. Callers must treat it as read-only.
func (c *Context) Root() *orderedmap.Map { return c.root }

// RootForTemplate returns a root with .Template.Name/.Template.BasePath
// bound for the given source, leaving the shared tree untouched.
func (c *Context) RootForTemplate(name string) *orderedmap.Map {
	templateMap := orderedmap.NewMap()
	templateMap.Set("Name", name)
	basePath := ""
	if idx := strings.LastIndexByte(name, '/'); idx >= 0 {
		basePath = name[:idx]
	}
	templateMap.Set("BasePath", basePath)

	root := orderedmap.NewMap()
	c.root.Iterate(func(k string, v interface{}) {
		root.Set(k, v)
	})
	root.Set("Template", templateMap)
	return root
}
