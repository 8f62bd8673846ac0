package index

import "strings"

// Path returns the location of a package's file inside a sparse index.
//
// The name is lower-cased first, so lookups are case-insensitive even though
// index records keep the name's original case. Path returns "" for an empty
// name; callers are expected to reject empty names before getting here.
func Path(name string) string {
	name = strings.ToLower(name)
	switch len(name) {
	case 0:
		return ""
	case 1:
		return "1/" + name
	case 2:
		return "2/" + name
	case 3:
		return "3/" + name[:1] + "/" + name
	default:
		return name[:2] + "/" + name[2:4] + "/" + name
	}
}
