package collection

import (
	"strings"

	"github.com/justestif/go-vinyl-collection/internal/discogs"
)

// ResolveCredits returns the producer and remixer names for a track.
// Track-level credits win; each list falls back to the release-level credits
// independently when the track has none of that kind. A name in the final
// remixers is never also listed as a producer.
func ResolveCredits(trackExtra, releaseExtra []discogs.ExtraArtist) (producers, remixers []string) {
	producers, remixers = classifyCredits(trackExtra)

	if len(producers) == 0 || len(remixers) == 0 {
		releaseProducers, releaseRemixers := classifyCredits(releaseExtra)
		if len(producers) == 0 {
			producers = releaseProducers
		}
		if len(remixers) == 0 {
			remixers = releaseRemixers
		}
		producers = withoutNames(producers, remixers)
	}

	return producers, remixers
}

// withoutNames returns names with every entry of exclude removed.
func withoutNames(names, exclude []string) []string {
	if len(names) == 0 || len(exclude) == 0 {
		return names
	}
	drop := make(map[string]struct{}, len(exclude))
	for _, n := range exclude {
		drop[n] = struct{}{}
	}
	var out []string
	for _, n := range names {
		if _, ok := drop[n]; !ok {
			out = append(out, n)
		}
	}
	return out
}

// classifyCredits splits extra artists by role. A name credited as a remixer
// is never also credited as a producer within the same list.
func classifyCredits(extra []discogs.ExtraArtist) (producers, remixers []string) {
	remixerNames := make(map[string]struct{})
	for _, ea := range extra {
		if containsFold(ea.Role, "remix") {
			remixers = append(remixers, ea.Name)
			remixerNames[ea.Name] = struct{}{}
		}
	}

	for _, ea := range extra {
		if !strings.EqualFold(strings.TrimSpace(ea.Role), "producer") {
			continue
		}
		if _, isRemixer := remixerNames[ea.Name]; isRemixer {
			continue
		}
		producers = append(producers, ea.Name)
	}

	return producers, remixers
}

// JoinCredits joins credit names in source order.
func JoinCredits(names []string) string {
	return strings.Join(names, ", ")
}
