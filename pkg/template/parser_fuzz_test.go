// Copyright 2024 The Chartfold Authors.
// SPDX-License-Identifier: Apache-2.0

package template_test

import (
	"math/rand"
	"strings"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/require"

	"chartfold.dev/chartfold/pkg/template"
)

// Parsing arbitrary input must either succeed or fail with a ParseError;
// it must never panic or return a non-engine error.
func TestParseArbitraryInputNeverPanics(t *testing.T) {
	randSource := rand.NewSource(1955)

	fuzzTemplateText := fuzz.New().RandSource(randSource).Funcs(func(s *string, c fuzz.Continue) {
		pieces := []string{
			"{{", "}}", "{{-", "-}}", "{{ if ", "{{ end }}", "{{ range ",
			"{{ else }}", "|", "$", ".", "\"", "(", ")", ":=", "\n", "plain text ",
		}
		var b strings.Builder
		for i := 0; i < c.Intn(30); i++ {
			if c.RandBool() {
				b.WriteString(pieces[c.Intn(len(pieces))])
			} else {
				b.WriteString(c.RandString())
			}
		}
		*s = b.String()
	})

	parser := template.NewParser()
	for i := 0; i < 500; i++ {
		var input string
		fuzzTemplateText.Fuzz(&input)

		nodes, err := parser.Parse([]byte(input), "fuzz.yaml")
		if err != nil {
			engineErr := template.AsEngineErr(err, "unexpected")
			require.Equal(t, template.ParseError, engineErr.Kind, "input: %q", input)
			continue
		}
		_ = nodes
	}
}
