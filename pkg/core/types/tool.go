package types

// Tool describes a callable tool the way it is published to the LLM
// controller during the live handshake.
type Tool struct {
	Type        string      `json:"type"`
	Name        string      `json:"name,omitempty"`
	Description string      `json:"description,omitempty"`
	InputSchema *JSONSchema `json:"input_schema,omitempty"`
}

const ToolTypeFunction = "function"

// JSONSchema is the subset of JSON Schema used for tool inputs.
type JSONSchema struct {
	Type                 string                `json:"type"`
	Properties           map[string]JSONSchema `json:"properties,omitempty"`
	Required             []string              `json:"required,omitempty"`
	Description          string                `json:"description,omitempty"`
	Enum                 []string              `json:"enum,omitempty"`
	Items                *JSONSchema           `json:"items,omitempty"`
	AdditionalProperties *bool                 `json:"additionalProperties,omitempty"`
}

// NewFunctionTool creates a new function tool definition.
func NewFunctionTool(name, description string, schema *JSONSchema) Tool {
	return Tool{
		Type:        ToolTypeFunction,
		Name:        name,
		Description: description,
		InputSchema: schema,
	}
}

// ObjectSchema builds an object schema from property name/schema pairs.
func ObjectSchema(properties map[string]JSONSchema, required ...string) *JSONSchema {
	return &JSONSchema{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}
}

// StringSchema builds a string property schema.
func StringSchema(description string) JSONSchema {
	return JSONSchema{Type: "string", Description: description}
}

// IntegerSchema builds an integer property schema.
func IntegerSchema(description string) JSONSchema {
	return JSONSchema{Type: "integer", Description: description}
}

// StringListSchema builds an array-of-strings property schema.
func StringListSchema(description string) JSONSchema {
	return JSONSchema{
		Type:        "array",
		Description: description,
		Items:       &JSONSchema{Type: "string"},
	}
}
