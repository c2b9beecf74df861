package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	js "github.com/santhosh-tekuri/jsonschema/v5"
	"stonefire/internal/model"
)

// Checker validates incoming field-definition documents against a JSON
// Schema before the domain integrity rules run. Compiled schemas are cached
// per form.
type Checker struct {
	cache *expirable.LRU[string, *js.Schema]
}

// NewChecker creates a shape checker with a bounded compile cache
func NewChecker(maxSize int) *Checker {
	return &Checker{
		cache: expirable.NewLRU[string, *js.Schema](maxSize, nil, time.Hour),
	}
}

// Check validates the raw JSON field array for a form. It reports only shape
// problems (wrong types, unknown properties, missing members); semantic rules
// are ValidateIntegrity's job.
func (c *Checker) Check(form model.FormName, raw []byte) error {
	compiled, err := c.compiled(form)
	if err != nil {
		return err
	}

	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("invalid schema document: %w", err)
	}
	if err := compiled.Validate(doc); err != nil {
		return fmt.Errorf("schema document rejected: %w", err)
	}
	return nil
}

func (c *Checker) compiled(form model.FormName) (*js.Schema, error) {
	key := string(form)
	if s, ok := c.cache.Get(key); ok {
		return s, nil
	}

	doc, err := json.Marshal(shapeDocument(form))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal shape document: %w", err)
	}

	compiler := js.NewCompiler()
	resourceURL := fmt.Sprintf("mem://schema/%s.json", key)
	if err := compiler.AddResource(resourceURL, bytes.NewReader(doc)); err != nil {
		return nil, fmt.Errorf("failed to add resource: %w", err)
	}
	compiled, err := compiler.Compile(resourceURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile shape document: %w", err)
	}

	c.cache.Add(key, compiled)
	return compiled, nil
}

// shapeDocument builds the JSON Schema for one form's field array. The job
// form carries location restrictions but no conditional visibility; the
// catering form is the reverse.
func shapeDocument(form model.FormName) map[string]interface{} {
	types := []interface{}{"text", "textarea", "select", "radio", "multiselect", "date", "time"}
	props := map[string]interface{}{
		"key":      map[string]interface{}{"type": "string", "minLength": 1},
		"label":    map[string]interface{}{"type": "string"},
		"enabled":  map[string]interface{}{"type": "boolean"},
		"required": map[string]interface{}{"type": "boolean"},
		"order":    map[string]interface{}{"type": "integer"},
		"options": map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"type": "string"},
		},
	}

	if form == model.FormJobApplication {
		types = []interface{}{"text", "textarea", "select", "availability", "date"}
		props["locations"] = map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"type": "string"},
		}
	} else {
		props["showWhen"] = map[string]interface{}{
			"type":     "object",
			"required": []interface{}{"field", "equals"},
			"properties": map[string]interface{}{
				"field":  map[string]interface{}{"type": "string"},
				"equals": map[string]interface{}{"type": "string"},
			},
			"additionalProperties": false,
		}
	}
	props["type"] = map[string]interface{}{"enum": types}

	return map[string]interface{}{
		"type": "array",
		"items": map[string]interface{}{
			"type":                 "object",
			"required":             []interface{}{"key", "label", "enabled", "required", "order", "type"},
			"properties":           props,
			"additionalProperties": false,
		},
	}
}
