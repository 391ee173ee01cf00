package pipeline

import (
	"fmt"
	"strings"

	"retail-insights/internal/domain"
	"retail-insights/internal/model"
)

// ValidateHeader checks that header carries every column src requires.
func ValidateHeader(src model.Source, header []string) error {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}

	var missing []string
	for _, field := range src.RequiredFields {
		if !present[field] {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return domain.NewInputError(src.Name,
			fmt.Sprintf("missing required field(s): %s", strings.Join(missing, ", ")), nil)
	}
	return nil
}
