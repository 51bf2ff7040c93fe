package config

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// jobSchema describes the job file format.
var jobSchema = jsonschema.Reflect(&Job{})

// Schema returns the JSON schema of job files, indented for reading.
func Schema() ([]byte, error) {
	return json.MarshalIndent(jobSchema, "", "  ")
}
