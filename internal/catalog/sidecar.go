package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/skillfoundry/skillcat/pkg/safeio"
	"github.com/skillfoundry/skillcat/pkg/schema"
)

// SidecarName is the machine-authored descriptor that accompanies a skill.
const SidecarName = "metadata.json"

// loadSidecar reads and schema-checks the sidecar descriptor next to doc.
// An absent sidecar returns (nil, nil): it is optional. A malformed or
// schema-violating sidecar returns the findings to attribute to this
// document; the fields that did parse are still returned so the record
// stays as complete as possible.
func loadSidecar(doc Document) (map[string]interface{}, []Finding) {
	path := filepath.Join(doc.Dir, SidecarName)
	relPath := doc.RelDir + "/" + SidecarName

	data, err := safeio.ReadFileContained(doc.Dir, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, []Finding{{
			Severity: SeverityError,
			Rule:     RuleSidecar,
			Path:     relPath,
			Message:  fmt.Sprintf("cannot read sidecar: %v", err),
		}}
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, []Finding{{
			Severity: SeverityError,
			Rule:     RuleSidecar,
			Path:     relPath,
			Message:  fmt.Sprintf("malformed JSON: %v", err),
		}}
	}

	var findings []Finding
	if res, err := schema.Validate(schema.Sidecar, data); err == nil && !res.Valid {
		for _, ve := range res.Errors {
			findings = append(findings, Finding{
				Severity: SeverityError,
				Rule:     RuleSidecar,
				Path:     relPath,
				Message:  fmt.Sprintf("%s: %s", ve.Path, ve.Message),
			})
		}
	}
	return fields, findings
}
