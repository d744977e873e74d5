package rules

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	invopop "github.com/invopop/jsonschema"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "tileworld-rules.schema.json"

var (
	schemaOnce     sync.Once
	schemaJSON     []byte
	schemaCompiled *jsonschema.Schema
	schemaErr      error
)

// Schema returns the JSON schema of Document, indented.
func Schema() ([]byte, error) {
	loadSchema()
	return schemaJSON, schemaErr
}

func buildSchema() *invopop.Schema {
	reflector := invopop.Reflector{
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
	}
	schema := reflector.Reflect(&Document{})
	schema.Title = "Tileworld Rule Catalog"
	schema.Description = "Kinds and declarative neighborhood rules evaluated each round."
	return schema
}

func loadSchema() {
	schemaOnce.Do(func() {
		data, err := json.MarshalIndent(buildSchema(), "", "  ")
		if err != nil {
			schemaErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		schemaJSON = append(data, '\n')

		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		schemaCompiled, schemaErr = compiler.Compile(schemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile schema: %w", schemaErr)
		}
	})
}

// validate checks a JSON document against the catalog schema.
func validate(doc []byte) error {
	loadSchema()
	if schemaErr != nil {
		return schemaErr
	}
	dec := json.NewDecoder(bytes.NewReader(doc))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("%w: %v", ErrSchema, err)
	}
	if err := schemaCompiled.Validate(v); err != nil {
		return fmt.Errorf("%w: %v", ErrSchema, err)
	}
	return nil
}
