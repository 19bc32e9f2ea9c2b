package versions

import "github.com/Masterminds/semver/v3"

// IsNewer reports whether a is a strictly newer release than b. Both must be
// strict SemVer MAJOR.MINOR.PATCH strings; when either is not, it falls back
// to lexicographic comparison rather than failing, since callers use this
// for presentation ordering only.
func IsNewer(a, b string) bool {
	av, errA := semver.StrictNewVersion(a)
	bv, errB := semver.StrictNewVersion(b)

	if errA != nil || errB != nil {
		return a > b
	}

	return av.GreaterThan(bv)
}
