// Copyright 2024 The Chartfold Authors.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	cmdui "chartfold.dev/chartfold/pkg/cmd/ui"
	"chartfold.dev/chartfold/pkg/cluster"
	"chartfold.dev/chartfold/pkg/orderedmap"
	"chartfold.dev/chartfold/pkg/render"
	"chartfold.dev/chartfold/pkg/values"
)

type RenderOptions struct {
	Debug bool

	FilePaths       []string
	ValuesPaths     []string
	OutputPath      string
	LookupManifests string

	ReleaseName  string
	Namespace    string
	ChartName    string
	ChartVersion string
	AppVersion   string
	KubeVersion  string
	APIVersions  []string
}

func NewRenderOptions() *RenderOptions {
	return &RenderOptions{}
}

func NewRenderCmd(o *RenderOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "render",
		Aliases: []string{"r"},
		Short:   "Render templates against value files",
		RunE:    func(_ *cobra.Command, _ []string) error { return o.Run() },
	}
	cmd.Flags().StringSliceVarP(&o.FilePaths, "file", "f", nil, "Template file or directory (can be specified multiple times)")
	cmd.Flags().StringSliceVar(&o.ValuesPaths, "values", nil, "Values YAML file; later files override earlier ones (can be specified multiple times)")
	cmd.Flags().StringVarP(&o.OutputPath, "output", "o", "", "Write rendered output to file instead of stdout")
	cmd.Flags().StringVar(&o.LookupManifests, "lookup-manifests", "", "Serve lookup queries from a multi-document manifest file instead of answering not-found")
	cmd.Flags().BoolVar(&o.Debug, "debug", false, "Enable debug output")

	cmd.Flags().StringVar(&o.ReleaseName, "release-name", "release", "Release name surfaced as .Release.Name")
	cmd.Flags().StringVar(&o.Namespace, "namespace", "default", "Namespace surfaced as .Release.Namespace")
	cmd.Flags().StringVar(&o.ChartName, "chart-name", "", "Chart name surfaced as .Chart.Name")
	cmd.Flags().StringVar(&o.ChartVersion, "chart-version", "", "Chart version surfaced as .Chart.Version")
	cmd.Flags().StringVar(&o.AppVersion, "app-version", "", "App version surfaced as .Chart.AppVersion")
	cmd.Flags().StringVar(&o.KubeVersion, "kube-version", "", "Capabilities kube version (defaults to a recent stable)")
	cmd.Flags().StringSliceVar(&o.APIVersions, "api-versions", nil, "Capabilities API versions (can be specified multiple times)")
	return cmd
}

func (o *RenderOptions) Run() error {
	ui := cmdui.NewTTY(o.Debug)
	t1 := time.Now()

	defer func() {
		ui.Debugf("total: %s\n", time.Since(t1))
	}()

	if len(o.FilePaths) == 0 {
		return fmt.Errorf("expected at least one template file (specify via -f)")
	}

	srcs, err := o.collectSources(ui)
	if err != nil {
		return err
	}

	vals, err := o.loadValues(ui)
	if err != nil {
		return err
	}

	ctx, err := values.NewContext(vals,
		values.ReleaseOptions{Name: o.ReleaseName, Namespace: o.Namespace, IsInstall: true},
		values.ChartMeta{Name: o.ChartName, Version: o.ChartVersion, AppVersion: o.AppVersion},
		values.Capabilities{KubeVersion: o.KubeVersion, APIVersions: o.APIVersions},
	)
	if err != nil {
		return err
	}

	resolver, err := o.buildResolver()
	if err != nil {
		return err
	}

	engine := render.NewEngine(render.EngineOpts{Resolver: resolver})
	rendered, err := engine.RenderSources(srcs, ctx)
	if err != nil {
		return err
	}

	return o.writeOutput(rendered, ui)
}

func (o *RenderOptions) collectSources(ui cmdui.UI) ([]render.Source, error) {
	var srcs []render.Source
	for _, filePath := range o.FilePaths {
		info, err := os.Stat(filePath)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			src, err := readSource(filePath, filePath)
			if err != nil {
				return nil, err
			}
			srcs = append(srcs, src)
			continue
		}

		err = filepath.WalkDir(filePath, func(walkedPath string, entry fs.DirEntry, err error) error {
			if err != nil || entry.IsDir() {
				return err
			}
			relPath, err := filepath.Rel(filePath, walkedPath)
			if err != nil {
				return err
			}
			src, err := readSource(walkedPath, filepath.ToSlash(relPath))
			if err != nil {
				return err
			}
			srcs = append(srcs, src)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	for _, src := range srcs {
		ui.Debugf("template: %s\n", src.Name)
	}
	return srcs, nil
}

func readSource(filePath, name string) (render.Source, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return render.Source{}, err
	}
	return render.Source{Name: name, Data: string(data)}, nil
}

func (o *RenderOptions) loadValues(ui cmdui.UI) (*orderedmap.Map, error) {
	var layers []*orderedmap.Map
	for _, valuesPath := range o.ValuesPaths {
		data, err := os.ReadFile(valuesPath)
		if err != nil {
			return nil, err
		}
		layer, err := values.ParseMapping(data)
		if err != nil {
			return nil, fmt.Errorf("parsing values file %s: %s", valuesPath, err)
		}
		ui.Debugf("values: %s\n", valuesPath)
		layers = append(layers, layer)
	}
	return values.CoalesceLayers(layers...), nil
}

func (o *RenderOptions) buildResolver() (cluster.Resolver, error) {
	if o.LookupManifests == "" {
		return cluster.NewNoopResolver(), nil
	}
	data, err := os.ReadFile(o.LookupManifests)
	if err != nil {
		return nil, err
	}
	return cluster.NewStaticResolver(data)
}

func (o *RenderOptions) writeOutput(rendered []render.RenderedSource, ui cmdui.UI) error {
	var out strings.Builder
	for _, r := range rendered {
		if strings.TrimSpace(r.Output) == "" {
			// sources holding only defines produce nothing
			continue
		}
		out.WriteString(fmt.Sprintf("---\n# Source: %s\n", r.Name))
		out.WriteString(strings.TrimLeft(r.Output, "\n"))
		if !strings.HasSuffix(r.Output, "\n") {
			out.WriteString("\n")
		}
	}

	if o.OutputPath != "" {
		ui.Debugf("writing %s\n", o.OutputPath)
		return os.WriteFile(o.OutputPath, []byte(out.String()), 0600)
	}
	ui.Printf("%s", out.String())
	return nil
}
