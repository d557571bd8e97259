package domain

import "go.trai.ch/zerr"

// Platform identifies the target platform a build invocation produces
// artifacts for.
type Platform string

// Known target platforms.
const (
	PlatformAndroidArm   Platform = "android-arm"
	PlatformAndroidArm64 Platform = "android-arm64"
	PlatformAndroidX64   Platform = "android-x64"
	PlatformIOS          Platform = "ios"
	PlatformLinuxX64     Platform = "linux-x64"
	PlatformDarwinX64    Platform = "darwin-x64"
	PlatformWindowsX64   Platform = "windows-x64"
	PlatformWeb          Platform = "web"
)

// Mode identifies the build mode of an invocation.
type Mode string

// Known build modes.
const (
	ModeDebug   Mode = "debug"
	ModeProfile Mode = "profile"
	ModeRelease Mode = "release"
)

// Environment is the read-only configuration bag for one build
// invocation. It is created once by the caller, passed by pointer
// through every resolution and invocation call, and never mutated by
// the engine. All directory fields are absolute paths.
type Environment struct {
	// ProjectDir is the root directory of the project being built.
	ProjectDir string

	// BuildDir is the directory build steps write intermediate and
	// final artifacts into.
	BuildDir string

	// CacheDir is the directory stamp files are persisted in.
	CacheDir string

	// CopyDir is the directory finished artifacts are copied to.
	CopyDir string

	// Platform is the target platform. Empty means no platform was
	// selected for this invocation.
	Platform Platform

	// Mode is the build mode. Empty means no mode was selected.
	Mode Mode
}

// PlatformName returns the platform's name for stamp keying and token
// substitution. An unset platform reports "none" so that stamp slots
// for platform-less builds never collide with platform builds.
func (e *Environment) PlatformName() string {
	if e.Platform == "" {
		return "none"
	}
	return string(e.Platform)
}

// ModeName returns the build mode's name for stamp keying and token
// substitution. An unset mode reports "none".
func (e *Environment) ModeName() string {
	if e.Mode == "" {
		return "none"
	}
	return string(e.Mode)
}

// ParsePlatform validates a platform name. An empty string is valid and
// means "no platform".
func ParsePlatform(s string) (Platform, error) {
	switch p := Platform(s); p {
	case "", PlatformAndroidArm, PlatformAndroidArm64, PlatformAndroidX64,
		PlatformIOS, PlatformLinuxX64, PlatformDarwinX64, PlatformWindowsX64, PlatformWeb:
		return p, nil
	default:
		return "", zerr.With(ErrUnknownPlatform, "platform", s)
	}
}

// ParseMode validates a build mode name. An empty string is valid and
// means "no mode".
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case "", ModeDebug, ModeProfile, ModeRelease:
		return m, nil
	default:
		return "", zerr.With(ErrUnknownMode, "mode", s)
	}
}
