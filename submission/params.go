/* SPDX-License-Identifier: AGPL-3.0-only
 * Copyright (c) Benedict Schlueter
 */

package submission

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// InvalidParamError reports a parameter key or value that failed
// validation.
type InvalidParamError struct {
	Value string
}

func (e *InvalidParamError) Error() string {
	return fmt.Sprintf("invalid parameter value: %q", e.Value)
}

// Params collects validated key/value pairs for the .tmcparams file. Keys
// must match [A-Za-z_]+ and values [A-Za-z_-]+; anything else is rejected
// before output is written.
type Params struct {
	scalars map[string]string
	arrays  map[string][]string
}

// NewParams creates an empty parameter set.
func NewParams() *Params {
	return &Params{
		scalars: make(map[string]string),
		arrays:  make(map[string][]string),
	}
}

// InsertString adds a scalar parameter.
func (p *Params) InsertString(key, value string) error {
	if !validKey(key) {
		return &InvalidParamError{Value: key}
	}
	if !validValue(value) {
		return &InvalidParamError{Value: value}
	}
	delete(p.arrays, key)
	p.scalars[key] = value
	return nil
}

// InsertArray adds a list parameter.
func (p *Params) InsertArray(key string, values []string) error {
	if !validKey(key) {
		return &InvalidParamError{Value: key}
	}
	for _, v := range values {
		if !validValue(v) {
			return &InvalidParamError{Value: v}
		}
	}
	delete(p.scalars, key)
	p.arrays[key] = append([]string{}, values...)
	return nil
}

// Write emits one export line per parameter, sorted by key for stable
// output.
func (p *Params) Write(w io.Writer) error {
	keys := make([]string, 0, len(p.scalars)+len(p.arrays))
	for k := range p.scalars {
		keys = append(keys, k)
	}
	for k := range p.arrays {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		var line string
		if value, ok := p.scalars[key]; ok {
			line = fmt.Sprintf("export %s=%s\n", key, shellEscape(value))
		} else {
			escaped := make([]string, 0, len(p.arrays[key]))
			for _, v := range p.arrays[key] {
				escaped = append(escaped, shellEscape(v))
			}
			line = fmt.Sprintf("export %s=( %s )\n", key, strings.Join(escaped, " "))
		}
		if _, err := io.WriteString(w, line); err != nil {
			return fmt.Errorf("failed to write params: %w", err)
		}
	}
	return nil
}

func validKey(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if !isASCIILetter(c) && c != '_' {
			return false
		}
	}
	return true
}

func validValue(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if !isASCIILetter(c) && c != '_' && c != '-' {
			return false
		}
	}
	return true
}

func isASCIILetter(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// shellEscape quotes a value when it contains characters outside the
// validated set. The validation rules make this a no-op in practice.
func shellEscape(s string) string {
	safe := true
	for _, c := range s {
		if !isASCIILetter(c) && !(c >= '0' && c <= '9') && c != '_' && c != '-' {
			safe = false
			break
		}
	}
	if safe {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
