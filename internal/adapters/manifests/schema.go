package manifests

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	jsonschemav6 "github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/jsamuelsen11/uishell/internal/domain"
)

const schemaURL = "https://uishell.dev/schemas/manifest.json"

//go:embed manifest.schema.json
var schemaSource string

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(schemaURL, strings.NewReader(schemaSource)); err != nil {
		return nil, fmt.Errorf("adding manifest schema: %w", err)
	}
	return c.Compile(schemaURL)
})

// checkShape validates a decoded YAML document against the manifest schema.
// Violations are reported per instance location, "/actions/0/order" style.
func checkShape(doc any) error {
	schema, err := compiledSchema()
	if err != nil {
		return err
	}

	// Round trip through JSON so numbers and maps take the forms the
	// validator expects.
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	v, err := jsonschemav6.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	err = schema.Validate(v)
	var ve *jsonschema.ValidationError
	if errors.As(err, &ve) {
		fields := make(map[string]string)
		collectLeaves(ve, fields)
		return &domain.ValidationError{Fields: fields}
	}
	return err
}

func collectLeaves(ve *jsonschema.ValidationError, fields map[string]string) {
	if len(ve.Causes) == 0 {
		loc := ve.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		fields[loc] = ve.Message
		return
	}
	for _, c := range ve.Causes {
		collectLeaves(c, fields)
	}
}
