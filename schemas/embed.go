// Package schemas holds the JSON Schema documents for assessment projects and score results.
package schemas

import _ "embed"

// Project is the JSON Schema for a Project document
//
//go:embed project.schema.json
var Project string

// ScoreResult is the JSON Schema for a ScoreResult document
//
//go:embed score_result.schema.json
var ScoreResult string
