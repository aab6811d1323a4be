// Copyright 2024 The Chartfold Authors.
// SPDX-License-Identifier: Apache-2.0

package funclib

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"chartfold.dev/chartfold/pkg/template"
)

func (l *Library) registerEncoding() {
	l.Register(Func{Name: "b64enc", MinArgs: 1, MaxArgs: 1, Impl: func(args []interface{}) (interface{}, error) {
		val, err := stringArg("b64enc", args, 0)
		if err != nil {
			return nil, err
		}
		return base64.StdEncoding.EncodeToString([]byte(val)), nil
	}})

	l.Register(Func{Name: "b64dec", MinArgs: 1, MaxArgs: 1, Impl: func(args []interface{}) (interface{}, error) {
		val, err := stringArg("b64dec", args, 0)
		if err != nil {
			return nil, err
		}
		decoded, err := base64.StdEncoding.DecodeString(val)
		if err != nil {
			return nil, template.NewErrorf(template.DecodeError, "b64dec: %s", err)
		}
		return string(decoded), nil
	}})

	l.Register(Func{Name: "sha256sum", MinArgs: 1, MaxArgs: 1, Impl: func(args []interface{}) (interface{}, error) {
		val, err := stringArg("sha256sum", args, 0)
		if err != nil {
			return nil, err
		}
		return fmt.Sprintf("%x", sha256.Sum256([]byte(val))), nil
	}})
}
