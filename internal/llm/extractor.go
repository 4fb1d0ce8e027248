// Package llm - extractor.go builds prompts that pin the model to a JSON
// response contract.
package llm

import (
	"fmt"
	"strings"
)

// ResponseContract describes the JSON object a prompt must return.
type ResponseContract struct {
	Name   string
	Fields []ContractField
}

// ContractField is one key of the expected JSON object.
type ContractField struct {
	Name        string // JSON field name
	Type        string // Type hint: "string", "[string]"
	Description string
	Required    bool
}

// BuildJSONPrompt appends the response contract to a task prompt.
func BuildJSONPrompt(contract ResponseContract, task string) string {
	var sb strings.Builder
	sb.WriteString(strings.TrimSpace(task))
	sb.WriteString("\n\nReturn ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range contract.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = "string"
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		sb.WriteString(fmt.Sprintf("  \"%s\": %s%s", field.Name, typeHint, requiredHint))
		if field.Description != "" {
			sb.WriteString(fmt.Sprintf(" // %s", field.Description))
		}
		if i < len(contract.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n")
	sb.WriteString("Return ONLY the JSON object, no markdown, no explanation.\n")
	return sb.String()
}

// CopyVariantContract is the response shape of one copy variant.
func CopyVariantContract() ResponseContract {
	return ResponseContract{
		Name: "CopyVariant",
		Fields: []ContractField{
			{Name: "headline", Type: `"string"`, Description: "at most 60 characters", Required: true},
			{Name: "subline", Type: `"string"`, Description: "one complete sentence ending with punctuation", Required: true},
			{Name: "benefits", Type: `["string"]`, Description: "2 to 3 complete short phrases", Required: true},
			{Name: "cta", Type: `"string"`, Description: "imperative, at most 25 characters", Required: true},
		},
	}
}

// ImageAnalysisContract is the response shape of a base image analysis.
func ImageAnalysisContract() ResponseContract {
	return ResponseContract{
		Name: "ImageAnalysis",
		Fields: []ContractField{
			{Name: "avoid_zones", Type: `["position"]`, Description: "grid positions text must not cover", Required: true},
			{Name: "main_subject", Type: `"string"`},
			{Name: "main_subject_position", Type: `"position"`},
			{Name: "light_areas", Type: `["position"]`},
			{Name: "dark_areas", Type: `["position"]`},
		},
	}
}
