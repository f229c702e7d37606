package main

import (
	"encoding/json"
	"log"
	"os"

	"github.com/grovetools/gradlever/pkg/patchconfig"
	"github.com/invopop/jsonschema"
)

func main() {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		ExpandedStruct:            true,
		FieldNameTag:              "yaml",
	}

	schema := r.Reflect(&patchconfig.Config{})
	schema.Title = "gradlever Configuration"
	schema.Description = "Schema for the 'gradlever' extension in grove.yml and for .gradlever.toml."

	// Every setting has a default
	schema.Required = nil

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		log.Fatalf("Error marshaling schema: %v", err)
	}

	if err := os.WriteFile("gradlever.schema.json", data, 0644); err != nil {
		log.Fatalf("Error writing schema file: %v", err)
	}

	log.Printf("Successfully generated config schema at gradlever.schema.json")
}
