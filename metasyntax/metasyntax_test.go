/* SPDX-License-Identifier: AGPL-3.0-only
 * Copyright (c) Benedict Schlueter
 */

package metasyntax

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func concat(spans []Span, drop func(Span) bool) string {
	var sb strings.Builder
	for _, s := range spans {
		if drop != nil && drop(s) {
			continue
		}
		sb.WriteString(s.Text)
	}
	return sb.String()
}

func TestParseRoundTrip(t *testing.T) {
	defer goleak.VerifyNone(t)
	testCases := map[string]struct {
		input     string
		extension string
	}{
		"plain java": {
			input:     "public class Foo {\n    int x;\n}\n",
			extension: "java",
		},
		"unknown extension with tags": {
			input:     "// BEGIN SOLUTION\nsecret\n// END SOLUTION\n",
			extension: "dat",
		},
		"crlf terminators": {
			input:     "line one\r\nline two\r\n",
			extension: "java",
		},
		"no trailing newline": {
			input:     "alpha\nbeta",
			extension: "py",
		},
		"empty file": {
			input:     "",
			extension: "java",
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			spans, err := Parse(strings.NewReader(tc.input), tc.extension)
			require.NoError(err)
			assert.Equal(tc.input, concat(spans, nil))
		})
	}
}

func TestParseSolutionBlock(t *testing.T) {
	defer goleak.VerifyNone(t)
	assert := assert.New(t)
	require := require.New(t)

	input := "public int foo() {\n" +
		"    // BEGIN SOLUTION\n" +
		"    return 42;\n" +
		"    // END SOLUTION\n" +
		"    // STUB: return 0;\n" +
		"}\n"
	spans, err := Parse(strings.NewReader(input), "java")
	require.NoError(err)

	// stub generation drops solutions, solution generation drops stubs
	stub := concat(spans, func(s Span) bool { return s.Kind == Solution })
	assert.Equal("public int foo() {\n    return 0;\n}\n", stub)
	assert.NotContains(stub, "return 42;")

	solution := concat(spans, func(s Span) bool { return s.Kind == Stub })
	assert.Equal("public int foo() {\n    return 42;\n}\n", solution)
	assert.NotContains(solution, "return 0;")
}

func TestParseStubBlockComment(t *testing.T) {
	defer goleak.VerifyNone(t)
	assert := assert.New(t)
	require := require.New(t)

	input := "int bar() {\n" +
		"    /* BEGIN SOLUTION */\n" +
		"    return 3;\n" +
		"    /* END SOLUTION */\n" +
		"    /* STUB: return -1; */\n" +
		"}\n"
	spans, err := Parse(strings.NewReader(input), "c")
	require.NoError(err)

	stub := concat(spans, func(s Span) bool { return s.Kind == Solution })
	assert.Equal("int bar() {\n    return -1;\n}\n", stub)
}

func TestParseHashComments(t *testing.T) {
	defer goleak.VerifyNone(t)
	assert := assert.New(t)
	require := require.New(t)

	input := "def foo():\n" +
		"    # BEGIN SOLUTION\n" +
		"    return 42\n" +
		"    # END SOLUTION\n" +
		"    # STUB: pass\n"
	spans, err := Parse(strings.NewReader(input), "py")
	require.NoError(err)

	stub := concat(spans, func(s Span) bool { return s.Kind == Solution })
	assert.Equal("def foo():\n    pass\n", stub)
}

func TestParseSolutionFileMarker(t *testing.T) {
	defer goleak.VerifyNone(t)
	testCases := map[string]struct {
		input      string
		wantMarker bool
	}{
		"marker first": {
			input:      "// SOLUTION FILE\nclass Secret {}\n",
			wantMarker: true,
		},
		"marker after other directive": {
			input:      "// STUB: x\n// SOLUTION FILE\n",
			wantMarker: false,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			spans, err := Parse(strings.NewReader(tc.input), "java")
			require.NoError(err)
			found := false
			for _, s := range spans {
				if s.Kind == SolutionFileMarker {
					found = true
				}
			}
			assert.Equal(tc.wantMarker, found)
		})
	}
}

func TestParseHiddenBlock(t *testing.T) {
	defer goleak.VerifyNone(t)
	assert := assert.New(t)
	require := require.New(t)

	input := "visible\n// BEGIN HIDDEN\nhidden test\n// END HIDDEN\ntail\n"
	spans, err := Parse(strings.NewReader(input), "java")
	require.NoError(err)

	visible := concat(spans, func(s Span) bool { return s.Kind == Hidden })
	assert.Equal("visible\ntail\n", visible)
	assert.Equal("visible\nhidden test\ntail\n", concat(spans, nil))
}

func TestParseUnbalancedTags(t *testing.T) {
	defer goleak.VerifyNone(t)
	testCases := map[string]struct {
		input string
		line  int
	}{
		"end without begin": {
			input: "foo\n// END SOLUTION\n",
			line:  2,
		},
		"nested begin": {
			input: "// BEGIN SOLUTION\n// BEGIN SOLUTION\n// END SOLUTION\n",
			line:  2,
		},
		"unterminated at eof": {
			input: "x\n// BEGIN SOLUTION\ny\n",
			line:  2,
		},
		"end hidden closes solution": {
			input: "// BEGIN SOLUTION\n// END HIDDEN\n",
			line:  2,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			_, err := Parse(strings.NewReader(tc.input), "java")
			require.Error(err)
			var tagErr *UnbalancedTagError
			require.ErrorAs(err, &tagErr)
			assert.Equal(tc.line, tagErr.Line)
		})
	}
}

func TestParsePreservesCRLFInStub(t *testing.T) {
	defer goleak.VerifyNone(t)
	assert := assert.New(t)
	require := require.New(t)

	input := "head\r\n    // STUB: return 0;\r\ntail\r\n"
	spans, err := Parse(strings.NewReader(input), "java")
	require.NoError(err)
	assert.Equal("head\r\n    return 0;\r\ntail\r\n", concat(spans, nil))
}
