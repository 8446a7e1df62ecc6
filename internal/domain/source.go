// Package domain defines core data structures used throughout the monitor.
package domain

import "fmt"

// Source identifies the upstream provider that produced a value.
type Source string

const (
	// SourceAPI is the structured JSON bonds endpoint.
	SourceAPI Source = "api"
	// SourceRava is the scraped Rava Bursátil profile page.
	SourceRava Source = "rava"
	// SourceIOL is the scraped InvertirOnline quote page.
	SourceIOL Source = "iol"
	// SourceManual is a user-supplied fixed price.
	SourceManual Source = "manual"
	// SourceCustom is a user-supplied URL put through generic extraction.
	SourceCustom Source = "custom"
	// SourceNone marks the absence of any answering provider.
	SourceNone Source = "none"
)

// Preference names a configured walk order over the fetchable sources.
type Preference string

const (
	PreferenceAuto    Preference = "auto"
	PreferenceAPI     Preference = "api"
	PreferenceRava    Preference = "rava"
	PreferenceIOL     Preference = "iol"
	PreferenceManual  Preference = "manual"
	PreferenceCustom  Preference = "custom"
)

// chainSources are the providers that participate in the fallback chain.
// Manual and custom bypass the chain entirely.
var chainSources = []Source{SourceAPI, SourceRava, SourceIOL}

// Orderings maps every chain preference to a total ordering over the
// fetchable sources. The preferred provider goes first, the rest keep
// their relative default order so a failing favourite always degrades
// to the remaining two.
var Orderings = map[Preference][]Source{
	PreferenceAuto: {SourceAPI, SourceRava, SourceIOL},
	PreferenceAPI:  {SourceAPI, SourceRava, SourceIOL},
	PreferenceRava: {SourceRava, SourceAPI, SourceIOL},
	PreferenceIOL:  {SourceIOL, SourceAPI, SourceRava},
}

// ParsePreference validates a user-supplied preference name.
func ParsePreference(s string) (Preference, error) {
	switch Preference(s) {
	case PreferenceAuto, PreferenceAPI, PreferenceRava, PreferenceIOL,
		PreferenceManual, PreferenceCustom:
		return Preference(s), nil
	}
	return "", fmt.Errorf("unknown source preference %q", s)
}

// Bypass reports whether the preference skips the fallback chain.
func (p Preference) Bypass() bool {
	return p == PreferenceManual || p == PreferenceCustom
}

// ValidateOrderings checks that every chain preference maps to a total
// ordering: each fetchable source appears exactly once. Run at startup so
// a misconfigured table cannot silently drop a provider from the chain.
func ValidateOrderings() error {
	for pref, order := range Orderings {
		if len(order) != len(chainSources) {
			return fmt.Errorf("preference %q orders %d sources, want %d", pref, len(order), len(chainSources))
		}
		seen := make(map[Source]bool, len(order))
		for _, src := range order {
			if seen[src] {
				return fmt.Errorf("preference %q lists source %q twice", pref, src)
			}
			seen[src] = true
		}
		for _, src := range chainSources {
			if !seen[src] {
				return fmt.Errorf("preference %q omits source %q", pref, src)
			}
		}
	}
	return nil
}
