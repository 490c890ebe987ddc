package catalog

import (
	"fmt"

	"github.com/gosimple/slug"
)

// ProductSlug derives the URL-safe slug for a listing. The result is
// deterministic for a given name and SKU: lowercase, non-alphanumeric runs
// collapsed to single hyphens, trimmed.
func ProductSlug(name, sku string) string {
	return slug.Make(fmt.Sprintf("%s %s", name, sku))
}
