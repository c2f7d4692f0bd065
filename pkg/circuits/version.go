package circuits

import "fmt"

// Version identifies the serialization format of the library.
type Version struct {
	Major int `json:"major" msgpack:"major"`
	Minor int `json:"minor" msgpack:"minor"`
	Patch int `json:"patch" msgpack:"patch"`
}

// CurrentVersion is the version written into serialized documents.
var CurrentVersion = Version{Major: 1, Minor: 1, Patch: 0}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// less orders versions lexicographically on (major, minor, patch).
func (v Version) less(o Version) bool {
	if v.Major != o.Major {
		return v.Major < o.Major
	}
	if v.Minor != o.Minor {
		return v.Minor < o.Minor
	}
	return v.Patch < o.Patch
}

// maxVersion returns the larger of two versions.
func maxVersion(a, b Version) Version {
	if a.less(b) {
		return b
	}
	return a
}

// VersionMismatchError reports serialized data that this library version
// cannot read.
type VersionMismatchError struct {
	Library Version
	Data    Version
}

func (e *VersionMismatchError) Error() string {
	return fmt.Sprintf("data written by version %s cannot be read by library version %s", e.Data, e.Library)
}

// CheckVersion verifies that data serialized by the given version can be
// read by this library. Before 1.0 the minor versions must match exactly;
// from 1.0 on the major versions must match and the library minor version
// must be at least the data minor version.
func CheckVersion(data Version) error {
	return checkVersionAgainst(CurrentVersion, data)
}

func checkVersionAgainst(library, data Version) error {
	if library.Major == 0 || data.Major == 0 {
		if library.Major != data.Major || library.Minor != data.Minor {
			return &VersionMismatchError{Library: library, Data: data}
		}
		return nil
	}
	if library.Major != data.Major || library.Minor < data.Minor {
		return &VersionMismatchError{Library: library, Data: data}
	}
	return nil
}
