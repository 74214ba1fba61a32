package llm

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// compiledSchemas caches compiled schemas by name and definition hash, so
// a schema that changes under the same name is recompiled.
var compiledSchemas sync.Map // map[string]*jsonschema.Schema

// validateResponse checks raw against schema. A nil schema accepts
// anything. Failures are *ErrInvalidResponse.
func validateResponse(schema *Schema, raw json.RawMessage) error {
	if schema == nil {
		return nil
	}
	invalid := func(err error) error {
		return &ErrInvalidResponse{Content: raw, Err: err}
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return invalid(errors.New("empty response"))
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return invalid(fmt.Errorf("invalid JSON: %w", err))
	}

	compiled, err := compileSchema(schema)
	if err != nil {
		return invalid(fmt.Errorf("compile schema %q: %w", schema.Name, err))
	}
	if err := compiled.Validate(doc); err != nil {
		return invalid(fmt.Errorf("schema validation failed: %w", err))
	}
	return nil
}

func compileSchema(schema *Schema) (*jsonschema.Schema, error) {
	def, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	sum := sha256.Sum256(def)
	key := schema.Name + "-" + hex.EncodeToString(sum[:8])

	if cached, ok := compiledSchemas.Load(key); ok {
		return cached.(*jsonschema.Schema), nil
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(def))
	if err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}
	url := "schema://" + key + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, err
	}

	compiledSchemas.Store(key, compiled)
	return compiled, nil
}
