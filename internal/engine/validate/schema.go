package validate

import (
	_ "embed"
	"encoding/json"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed chunk_metadata.schema.json
var metadataSchemaJSON string

var (
	schemaOnce sync.Once
	schemaVal  *jsonschema.Schema
	schemaErr  error
)

func metadataSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource("chunk_metadata.schema.json", strings.NewReader(metadataSchemaJSON)); err != nil {
			schemaErr = err
			return
		}
		schemaVal, schemaErr = c.Compile("chunk_metadata.schema.json")
	})
	return schemaVal, schemaErr
}

// MetadataDocument validates a raw metadata document from the storage
// boundary before it is decoded into a chunk.Metadata.
func MetadataDocument(raw []byte) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return errf(ErrBadMetadata, "json", "%v", err)
	}
	s, err := metadataSchema()
	if err != nil {
		return errf(ErrBadMetadata, "schema", "%v", err)
	}
	if err := s.Validate(v); err != nil {
		return errf(ErrBadMetadata, "schema", "%v", err)
	}
	return nil
}
