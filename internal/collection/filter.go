package collection

import (
	"strings"

	"github.com/justestif/go-vinyl-collection/internal/discogs"
)

// quoteReplacer folds the typographic double quotes Discogs users enter into
// the plain ASCII quote used in size tokens such as 12".
var quoteReplacer = strings.NewReplacer(
	"\u201c", `"`,
	"\u201d", `"`,
	"\u2033", `"`,
)

// Qualifies reports whether a release with the given formats is a vinyl
// disc worth fetching track detail for. Any descriptor naming vinyl, or any
// description naming vinyl or the 12" size, qualifies the release.
func Qualifies(formats []discogs.Format) bool {
	for _, f := range formats {
		if containsFold(f.Name, "vinyl") {
			return true
		}
		for _, d := range f.Descriptions {
			if containsFold(d, "vinyl") || strings.Contains(quoteReplacer.Replace(d), `12"`) {
				return true
			}
		}
	}
	return false
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}
