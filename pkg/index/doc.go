// Package index reads Cargo-style sparse registry index files.
//
// # Overview
//
// A registry index stores one file per package. Each line of the file is a
// JSON object describing one published release, oldest first:
//
//	{"name":"libc","vers":"0.1.8","deps":[],"cksum":"…","features":{},"yanked":false}
//	{"name":"libc","vers":"0.1.12","deps":[],"cksum":"…","features":{},"yanked":false}
//
// [Parse] turns such a file into a [Package] whose releases keep that file
// order. The order matters: [Package.Latest] is simply the last line, and
// [Package.Matching] scans from the newest line backwards so it returns the
// highest release satisfying a requirement.
//
// # Index Paths
//
// [Path] maps a package name to its location inside the index:
//
//	Path("a")     // "1/a"
//	Path("ab")    // "2/ab"
//	Path("ice")   // "3/i/ice"
//	Path("Cargo") // "ca/rg/cargo"
//
// # Version Requirements
//
// [VersionReq] understands Cargo requirement syntax, where a bare version
// such as "0.1.0" means "^0.1.0". Matching is delegated to
// github.com/Masterminds/semver/v3.
//
// # Yanked Releases
//
// Nothing in this package filters yanked releases. The flag is exposed on
// [Release] and callers decide what to do with it.
package index
