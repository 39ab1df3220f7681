/* SPDX-License-Identifier: AGPL-3.0-only
 * Copyright (c) Benedict Schlueter
 */

package submission

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestParamsValidation(t *testing.T) {
	defer goleak.VerifyNone(t)
	testCases := map[string]struct {
		key       string
		value     string
		expectErr bool
	}{
		"simple":              {key: "param_one", value: "value_one"},
		"dash in value":       {key: "param", value: "some-value"},
		"empty key":           {key: "", value: "x", expectErr: true},
		"empty value":         {key: "key", value: "", expectErr: true},
		"digit in key":        {key: "key1", value: "x", expectErr: true},
		"digit in value":      {key: "key", value: "x1", expectErr: true},
		"dash in key":         {key: "key-name", value: "x", expectErr: true},
		"punctuation":         {key: "key", value: "a;rm -rf", expectErr: true},
		"space in value":      {key: "key", value: "a b", expectErr: true},
		"dollar in value":     {key: "key", value: "$HOME", expectErr: true},
		"underscore is valid": {key: "_KEY_", value: "_va-lue_"},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			params := NewParams()
			err := params.InsertString(tc.key, tc.value)
			if tc.expectErr {
				var paramErr *InvalidParamError
				assert.ErrorAs(err, &paramErr)
			} else {
				assert.NoError(err)
			}
		})
	}
}

func TestParamsArrayValidation(t *testing.T) {
	defer goleak.VerifyNone(t)
	assert := assert.New(t)

	params := NewParams()
	assert.NoError(params.InsertArray("param_two", []string{"value_two", "value_three"}))
	assert.Error(params.InsertArray("param_two", []string{"ok", "not ok"}))
	assert.Error(params.InsertArray("bad key", []string{"ok"}))
	assert.Error(params.InsertArray("param", []string{""}))
}

func TestParamsWrite(t *testing.T) {
	defer goleak.VerifyNone(t)
	assert := assert.New(t)
	require := require.New(t)

	params := NewParams()
	require.NoError(params.InsertString("param_one", "value_one"))
	require.NoError(params.InsertArray("param_two", []string{"value_two", "value_three"}))

	var sb strings.Builder
	require.NoError(params.Write(&sb))
	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	assert.Len(lines, 2)
	assert.Contains(lines, "export param_one=value_one")
	assert.Contains(lines, "export param_two=( value_two value_three )")
}
