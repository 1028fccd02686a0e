// Package types defines the shared data structures for the content workflow pipeline.
package types

// Platform identifies one of the three derived-content targets.
type Platform string

// Platform constants name the derived-content targets by format rather than
// by vendor; DisplayName maps them to the social network they are posted on.
const (
	// PlatformShortVideo is the ~60 second spoken video script format.
	PlatformShortVideo Platform = "short_video"
	// PlatformProfessional is the formal long-caption post format.
	PlatformProfessional Platform = "professional"
	// PlatformCasual is the conversational short-caption format.
	PlatformCasual Platform = "casual"
)

// AllPlatforms lists every platform in pipeline order. Repurposing and
// publishing iterate this slice so output ordering is deterministic.
var AllPlatforms = []Platform{PlatformShortVideo, PlatformProfessional, PlatformCasual}

// DisplayName returns the social network name used in page properties and
// calendar event titles.
func (p Platform) DisplayName() string {
	switch p {
	case PlatformShortVideo:
		return "TikTok"
	case PlatformProfessional:
		return "LinkedIn"
	case PlatformCasual:
		return "Instagram"
	default:
		return string(p)
	}
}

// Valid reports whether p is one of the three known platforms.
func (p Platform) Valid() bool {
	switch p {
	case PlatformShortVideo, PlatformProfessional, PlatformCasual:
		return true
	}
	return false
}
