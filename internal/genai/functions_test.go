package genai

import (
	"strings"
	"testing"
)

func TestBuildToolFunctions(t *testing.T) {
	t.Parallel()
	funcs := BuildToolFunctions()

	if len(funcs) != len(ToolParamsMap) {
		t.Errorf("BuildToolFunctions() returned %d functions, want %d", len(funcs), len(ToolParamsMap))
	}

	seen := make(map[string]bool)
	for _, fd := range funcs {
		if fd.Name == "" {
			t.Error("function with empty name")
			continue
		}
		if seen[fd.Name] {
			t.Errorf("duplicate function name: %s", fd.Name)
		}
		seen[fd.Name] = true

		if fd.Description == "" {
			t.Errorf("function %s has no description", fd.Name)
		}
		if fd.Parameters == nil {
			t.Errorf("function %s has nil parameters", fd.Name)
			continue
		}

		// Every declared parameter must be listed in ToolParamsMap and required
		params, ok := ToolParamsMap[fd.Name]
		if !ok {
			t.Errorf("function %s missing from ToolParamsMap", fd.Name)
			continue
		}
		if len(fd.Parameters.Properties) != len(params) {
			t.Errorf("function %s declares %d properties, ToolParamsMap lists %d",
				fd.Name, len(fd.Parameters.Properties), len(params))
		}
		for _, key := range params {
			if _, ok := fd.Parameters.Properties[key]; !ok {
				t.Errorf("function %s missing property %q", fd.Name, key)
			}
		}
		if len(fd.Parameters.Required) != len(params) {
			t.Errorf("function %s requires %d params, want %d", fd.Name, len(fd.Parameters.Required), len(params))
		}
	}
}

func TestIsKnownTool(t *testing.T) {
	t.Parallel()
	for name := range ToolParamsMap {
		if !IsKnownTool(name) {
			t.Errorf("IsKnownTool(%q) = false, want true", name)
		}
	}
	if IsKnownTool("launch_rockets") {
		t.Error("IsKnownTool should reject unknown names")
	}
}

func TestBuildFilterSelectionFunction(t *testing.T) {
	t.Parallel()
	fd := BuildFilterSelectionFunction()

	if fd.Name != FilterSelectionFunctionName {
		t.Errorf("Name = %q, want %q", fd.Name, FilterSelectionFunctionName)
	}
	for _, key := range []string{"groups", "categories"} {
		prop, ok := fd.Parameters.Properties[key]
		if !ok {
			t.Errorf("missing property %q", key)
			continue
		}
		if prop.Items == nil {
			t.Errorf("property %q should be an array with items", key)
		}
	}
	if len(fd.Parameters.Required) != 2 {
		t.Errorf("Required = %v, want both groups and categories", fd.Parameters.Required)
	}
}

func TestBuildOpenAITools(t *testing.T) {
	t.Parallel()
	tools := buildOpenAITools()

	if len(tools) != len(ToolParamsMap) {
		t.Fatalf("buildOpenAITools() returned %d tools, want %d", len(tools), len(ToolParamsMap))
	}

	for _, tool := range tools {
		fn := tool.OfFunction
		if fn == nil {
			t.Fatal("tool is not a function tool")
		}
		name := fn.Function.Name
		if !IsKnownTool(name) {
			t.Errorf("unexpected tool name: %s", name)
		}

		properties, ok := fn.Function.Parameters["properties"].(map[string]any)
		if !ok {
			t.Errorf("tool %s has no properties map", name)
			continue
		}
		for propName, raw := range properties {
			prop, ok := raw.(map[string]any)
			if !ok {
				t.Errorf("tool %s property %s is not a schema map", name, propName)
				continue
			}
			// JSON Schema requires lowercase type names
			typeStr, _ := prop["type"].(string)
			if typeStr != strings.ToLower(typeStr) {
				t.Errorf("tool %s property %s has non-lowercase type %q", name, propName, typeStr)
			}
		}
	}
}

func TestConvertSchema_Array(t *testing.T) {
	t.Parallel()
	out := convertSchema(BuildFilterSelectionFunction().Parameters.Properties["groups"])

	if out["type"] != "array" {
		t.Errorf("type = %v, want array", out["type"])
	}
	items, ok := out["items"].(map[string]any)
	if !ok {
		t.Fatal("items missing")
	}
	if items["type"] != "string" {
		t.Errorf("items type = %v, want string", items["type"])
	}
}
