// Copyright 2024 The Chartfold Authors.
// SPDX-License-Identifier: Apache-2.0

package funclib

import (
	"bytes"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"chartfold.dev/chartfold/pkg/orderedmap"
	"chartfold.dev/chartfold/pkg/template"
	"chartfold.dev/chartfold/pkg/values"
)

func (l *Library) registerSerialization() {
	// toYaml: block style, 2-space indent, no trailing newline so the
	// result composes with indent/nindent.
	l.Register(Func{Name: "toYaml", MinArgs: 1, MaxArgs: 1, Impl: func(args []interface{}) (interface{}, error) {
		node, err := values.AsYAMLNode(args[0])
		if err != nil {
			return nil, template.NewErrorf(template.InvalidArgumentError, "toYaml: %s", err)
		}
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(node); err != nil {
			return nil, template.NewErrorf(template.InvalidArgumentError, "toYaml: %s", err)
		}
		if err := enc.Close(); err != nil {
			return nil, template.NewErrorf(template.InvalidArgumentError, "toYaml: %s", err)
		}
		return strings.TrimSuffix(buf.String(), "\n"), nil
	}})

	l.Register(Func{Name: "fromYaml", MinArgs: 1, MaxArgs: 1, Impl: func(args []interface{}) (interface{}, error) {
		val, err := stringArg("fromYaml", args, 0)
		if err != nil {
			return nil, err
		}
		tree, err := values.ParseTree([]byte(val))
		if err != nil {
			return nil, template.NewErrorf(template.DecodeError, "fromYaml: %s", err)
		}
		return tree, nil
	}})

	l.Register(Func{Name: "toJson", MinArgs: 1, MaxArgs: 1, Impl: func(args []interface{}) (interface{}, error) {
		bs, err := values.MarshalJSON(args[0])
		if err != nil {
			return nil, template.NewErrorf(template.InvalidArgumentError, "toJson: %s", err)
		}
		return string(bs), nil
	}})

	l.Register(Func{Name: "fromJson", MinArgs: 1, MaxArgs: 1, Impl: func(args []interface{}) (interface{}, error) {
		val, err := stringArg("fromJson", args, 0)
		if err != nil {
			return nil, err
		}
		tree, err := values.UnmarshalJSON([]byte(val))
		if err != nil {
			return nil, template.NewErrorf(template.DecodeError, "fromJson: %s", err)
		}
		return tree, nil
	}})

	l.Register(Func{Name: "toToml", MinArgs: 1, MaxArgs: 1, Impl: func(args []interface{}) (interface{}, error) {
		m, err := mapArg("toToml", args, 0)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		plain := orderedmap.Conversion{Object: m}.AsUnorderedStringMaps()
		if err := toml.NewEncoder(&buf).Encode(plain); err != nil {
			return nil, template.NewErrorf(template.InvalidArgumentError, "toToml: %s", err)
		}
		return buf.String(), nil
	}})
}
