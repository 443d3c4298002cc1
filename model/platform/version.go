package platform

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Version identifies a protocol revision the network must agree on.
type Version uint32

// CompatibilityMap maps a protocol version to the oldest version that is still
// considered compatible with it. It is loaded once from configuration and
// treated as immutable afterwards.
type CompatibilityMap map[Version]Version

// MinCompatible returns the oldest version compatible with v.
func (m CompatibilityMap) MinCompatible(v Version) (Version, bool) {
	min, ok := m[v]
	return min, ok
}

// Latest returns the highest version that has an entry in the map.
func (m CompatibilityMap) Latest() Version {
	var latest Version
	for v := range m {
		if v > latest {
			latest = v
		}
	}
	return latest
}

// Complete checks that every version from 1 up to and including latest has an
// entry, that no entry names a minimum above its own version and that there is
// no entry beyond latest. All problems are reported, not only the first one.
func (m CompatibilityMap) Complete(latest Version) error {
	var result *multierror.Error
	for v := Version(1); v <= latest; v++ {
		min, ok := m[v]
		if !ok {
			result = multierror.Append(result, fmt.Errorf("no compatibility entry for version %d", v))
			continue
		}
		if min > v {
			result = multierror.Append(result, fmt.Errorf("version %d names minimal compatible version %d above itself", v, min))
		}
	}
	if highest := m.Latest(); highest > latest {
		result = multierror.Append(result, fmt.Errorf("compatibility entry for version %d above latest known version %d", highest, latest))
	}
	return result.ErrorOrNil()
}

// Copy returns an independent copy of the map.
func (m CompatibilityMap) Copy() CompatibilityMap {
	cp := make(CompatibilityMap, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}
