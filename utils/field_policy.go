package utils

import "fmt"

// Mutation types with a fixed allow-list of updatable fields. Updates are
// built through FilterUpdateFields so a caller can never smuggle extra
// fields into a persisted document.
const (
	MutationProspectStage = "prospect.stage"
)

var allowedUpdateFields = map[string]map[string]bool{
	MutationProspectStage: {
		"stage":     true,
		"updatedAt": true,
	},
}

// FilterUpdateFields validates that every field of an update is permitted
// for the given mutation type. Pure function; returns the fields unchanged
// on success.
func FilterUpdateFields(mutation string, fields map[string]interface{}) (map[string]interface{}, error) {
	allowed, ok := allowedUpdateFields[mutation]
	if !ok {
		return nil, NewValidationError(fmt.Sprintf("unknown mutation type %q", mutation))
	}

	out := make(map[string]interface{}, len(fields))
	for name, value := range fields {
		if !allowed[name] {
			return nil, NewValidationError(fmt.Sprintf("field %q is not updatable for %s", name, mutation))
		}
		out[name] = value
	}
	return out, nil
}
