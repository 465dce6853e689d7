/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package placeholder substitutes {token} markers in text widget content.
// Tokens such as {break-end} or {time-remaining} are replaced from the
// supplied value map at render time; the editing engine itself stores the raw
// text untouched. Unknown tokens pass through verbatim so a design keeps
// rendering when a value source is missing.
package placeholder

import "strings"

// Substitute replaces every {token} in s whose name appears in values.
// Unknown tokens and unbalanced braces are left as-is.
func Substitute(s string, values map[string]string) string {
	if len(values) == 0 || !strings.ContainsRune(s, '{') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for {
		open := strings.IndexByte(s, '{')
		if open < 0 {
			b.WriteString(s)
			return b.String()
		}
		end := strings.IndexByte(s[open:], '}')
		if end < 0 {
			b.WriteString(s)
			return b.String()
		}
		end += open
		name := s[open+1 : end]
		if v, ok := values[name]; ok {
			b.WriteString(s[:open])
			b.WriteString(v)
		} else {
			b.WriteString(s[:end+1])
		}
		s = s[end+1:]
	}
}

// Tokens returns the distinct token names referenced in s, in order of first
// appearance.
func Tokens(s string) []string {
	var out []string
	seen := map[string]bool{}
	for {
		open := strings.IndexByte(s, '{')
		if open < 0 {
			return out
		}
		end := strings.IndexByte(s[open:], '}')
		if end < 0 {
			return out
		}
		end += open
		name := s[open+1 : end]
		if name != "" && !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
		s = s[end+1:]
	}
}
