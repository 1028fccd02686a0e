package types

import "strings"

// PlatformPost is one derived short-form artifact. When generation for a
// platform fails, the post carries an Err marker instead of content; it is
// never dropped from the bundle.
type PlatformPost struct {
	Platform     Platform `json:"platform"`
	Hook         string   `json:"hook"`
	Body         string   `json:"body"`
	CallToAction string   `json:"call_to_action"`
	Hashtags     []string `json:"hashtags,omitempty"`
	Err          string   `json:"error,omitempty"`
}

// Failed reports whether the post carries a failure marker.
func (p PlatformPost) Failed() bool {
	return p.Err != ""
}

// ContentText renders the post as plain text for storage and calendar
// descriptions: hook, body, call to action, then hashtags on one line.
func (p *PlatformPost) ContentText() string {
	var sb strings.Builder
	if p.Hook != "" {
		sb.WriteString(p.Hook)
		sb.WriteString("\n\n")
	}
	sb.WriteString(p.Body)
	if p.CallToAction != "" {
		sb.WriteString("\n\n")
		sb.WriteString(p.CallToAction)
	}
	if len(p.Hashtags) > 0 {
		sb.WriteString("\n\n")
		sb.WriteString(strings.Join(p.Hashtags, " "))
	}
	return sb.String()
}

// SocialBundle holds the three derived posts for an approved draft. Posts
// always contains an entry for every platform in AllPlatforms, whether it
// succeeded or failed.
type SocialBundle struct {
	Topic string                    `json:"topic"`
	Posts map[Platform]PlatformPost `json:"posts"`
}

// Complete reports whether every platform produced content (no failure
// markers).
func (b *SocialBundle) Complete() bool {
	if b == nil || len(b.Posts) != len(AllPlatforms) {
		return false
	}
	for _, p := range AllPlatforms {
		post, ok := b.Posts[p]
		if !ok || post.Failed() {
			return false
		}
	}
	return true
}

// FailedPlatforms returns the platforms whose posts carry failure markers,
// in pipeline order.
func (b *SocialBundle) FailedPlatforms() []Platform {
	var failed []Platform
	for _, p := range AllPlatforms {
		if post, ok := b.Posts[p]; !ok || post.Failed() {
			failed = append(failed, p)
		}
	}
	return failed
}
