package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/gitscribe/gitscribe/config"
)

// Regenerates the embedded configuration schema. Run after changing
// any config struct:
//
//	go run ./tools/schema-generator
func main() {
	schemaBytes, err := config.GenerateSchema()
	if err != nil {
		log.Fatalf("Error generating schema: %v", err)
	}

	outputPath := filepath.Join("schema", "gitscribe.embedded.schema.json")
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		log.Fatalf("Error creating schema directory: %v", err)
	}
	if err := os.WriteFile(outputPath, schemaBytes, 0644); err != nil {
		log.Fatalf("Error writing schema file: %v", err)
	}

	log.Printf("Successfully generated schema at %s", outputPath)
}
