// Package version carries the build version, overridden at link time via
// -ldflags "-X .../internal/version.Version=v1.2.3".
// Package version 保存构建版本，可在链接时通过 -ldflags 覆盖。
package version

// Version is the f5ctl build version.
var Version = "dev"
