/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed design.schema.json
var designSchemaJSON []byte

// ValidateDesignBytes checks raw design JSON against the embedded schema.
// Returns nil when the document conforms, or an error listing every
// violation.
func ValidateDesignBytes(b []byte) error {
	schema := gojsonschema.NewBytesLoader(designSchemaJSON)
	doc := gojsonschema.NewBytesLoader(b)
	res, err := gojsonschema.Validate(schema, doc)
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	if res.Valid() {
		return nil
	}
	var sb strings.Builder
	sb.WriteString("design does not conform to schema:")
	for _, e := range res.Errors() {
		sb.WriteString("\n  - ")
		sb.WriteString(e.String())
	}
	return fmt.Errorf("%s", sb.String())
}
