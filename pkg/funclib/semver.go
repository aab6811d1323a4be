// Copyright 2024 The Chartfold Authors.
// SPDX-License-Identifier: Apache-2.0

package funclib

import (
	"strings"

	goversion "github.com/hashicorp/go-version"

	"chartfold.dev/chartfold/pkg/orderedmap"
	"chartfold.dev/chartfold/pkg/template"
)

func (l *Library) registerSemver() {
	// semverCompare ">= 1.20.0" version
	l.Register(Func{Name: "semverCompare", MinArgs: 2, MaxArgs: 2, Impl: func(args []interface{}) (interface{}, error) {
		constraintStr, err := stringArg("semverCompare", args, 0)
		if err != nil {
			return nil, err
		}
		versionStr, err := stringArg("semverCompare", args, 1)
		if err != nil {
			return nil, err
		}
		constraint, err := goversion.NewConstraint(constraintStr)
		if err != nil {
			return nil, template.NewErrorf(template.VersionParseError, "semverCompare: bad constraint %q: %s", constraintStr, err)
		}
		version, err := goversion.NewVersion(strings.TrimPrefix(versionStr, "v"))
		if err != nil {
			return nil, template.NewErrorf(template.VersionParseError, "semverCompare: bad version %q: %s", versionStr, err)
		}
		return constraint.Check(version), nil
	}})

	// semver parses a version string into its parts.
	l.Register(Func{Name: "semver", MinArgs: 1, MaxArgs: 1, Impl: func(args []interface{}) (interface{}, error) {
		versionStr, err := stringArg("semver", args, 0)
		if err != nil {
			return nil, err
		}
		version, err := goversion.NewVersion(strings.TrimPrefix(versionStr, "v"))
		if err != nil {
			return nil, template.NewErrorf(template.VersionParseError, "semver: bad version %q: %s", versionStr, err)
		}
		segments := version.Segments()
		result := orderedmap.NewMap()
		result.Set("Major", int64(segments[0]))
		result.Set("Minor", int64(segments[1]))
		result.Set("Patch", int64(segments[2]))
		result.Set("Prerelease", version.Prerelease())
		result.Set("Metadata", version.Metadata())
		result.Set("Original", versionStr)
		return result, nil
	}})

}
