package release

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a four-component major.minor.build.revision version, the same
// shape NuGet/Squirrel-style packages use. Missing trailing components
// default to zero (spec.md §3).
type Version struct {
	Major, Minor, Build, Revision int
}

// ParseVersion parses a dot-separated version string of 1 to 4 non-negative
// integer components. Extra or missing components are an error or default
// per spec.md §4.2: up to 4 components are accepted, trailing ones default
// to 0.
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(s, ".")
	if len(parts) == 0 || len(parts) > 4 {
		return Version{}, fmt.Errorf("version %q must have 1 to 4 components", s)
	}
	var nums [4]int
	for i, part := range parts {
		if part == "" {
			return Version{}, fmt.Errorf("version %q has an empty component", s)
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("version %q has a non-numeric or negative component %q", s, part)
		}
		nums[i] = n
	}
	return Version{Major: nums[0], Minor: nums[1], Build: nums[2], Revision: nums[3]}, nil
}

// String renders the version back to its canonical 4-component form.
func (this Version) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", this.Major, this.Minor, this.Build, this.Revision)
}

// Compare returns -1, 0 or 1 as this is less than, equal to, or greater than
// other, ordering strictly by the 4-tuple (spec.md §4.2).
func (this Version) Compare(other Version) int {
	if d := this.Major - other.Major; d != 0 {
		return sign(d)
	}
	if d := this.Minor - other.Minor; d != 0 {
		return sign(d)
	}
	if d := this.Build - other.Build; d != 0 {
		return sign(d)
	}
	if d := this.Revision - other.Revision; d != 0 {
		return sign(d)
	}
	return 0
}

func (this Version) Less(other Version) bool { return this.Compare(other) < 0 }
func (this Version) Equal(other Version) bool { return this.Compare(other) == 0 }

func sign(d int) int {
	if d < 0 {
		return -1
	}
	return 1
}
