// Package repurpose adapts an approved draft into platform-specific posts.
// Each platform is generated independently so one failure never blocks the
// others.
package repurpose

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Ikein-Sarah/content-workflow-agent/internal/llm"
	"github.com/Ikein-Sarah/content-workflow-agent/internal/prompts"
	"github.com/Ikein-Sarah/content-workflow-agent/internal/schemas"
	"github.com/Ikein-Sarah/content-workflow-agent/internal/types"
)

// ErrPartialFailure indicates at least one platform post could not be
// generated. The returned bundle still carries the successful posts.
var ErrPartialFailure = errors.New("some platform posts failed")

// hashtagLimits caps hashtags per platform. Zero means no cap.
var hashtagLimits = map[types.Platform]int{
	types.PlatformShortVideo:   5,
	types.PlatformProfessional: 5,
	types.PlatformCasual:       10,
}

// Repurposer generates platform posts from a draft.
type Repurposer struct {
	client llm.Client
}

// NewRepurposer creates a Repurposer backed by the given LLM client.
func NewRepurposer(client llm.Client) *Repurposer {
	return &Repurposer{client: client}
}

type postResponse struct {
	Hook         string   `json:"hook"`
	Body         string   `json:"body"`
	CallToAction string   `json:"call_to_action"`
	Hashtags     []string `json:"hashtags"`
}

// Repurpose adapts the draft for every platform. The returned bundle always
// has an entry per platform; failed ones carry their error. When any
// platform fails the error wraps ErrPartialFailure and names the platforms.
func (r *Repurposer) Repurpose(ctx context.Context, topic string, draft *types.Draft) (*types.SocialBundle, error) {
	bundle := &types.SocialBundle{
		Topic: topic,
		Posts: make(map[types.Platform]types.PlatformPost, len(types.AllPlatforms)),
	}

	var failed []string
	for _, platform := range types.AllPlatforms {
		post, err := r.generate(ctx, platform, topic, draft)
		if err != nil {
			bundle.Posts[platform] = types.PlatformPost{
				Platform: platform,
				Err:      err.Error(),
			}
			failed = append(failed, string(platform))
			continue
		}
		bundle.Posts[platform] = *post
	}

	if len(failed) > 0 {
		return bundle, fmt.Errorf("%w: %s", ErrPartialFailure, strings.Join(failed, ", "))
	}
	return bundle, nil
}

func (r *Repurposer) generate(ctx context.Context, platform types.Platform, topic string, draft *types.Draft) (*types.PlatformPost, error) {
	template, err := prompts.Get("social.json", string(platform))
	if err != nil {
		return nil, fmt.Errorf("load %s prompt: %w", platform, err)
	}

	prompt := prompts.Format(template, map[string]string{
		"Topic": topic,
		"Body":  draft.Body,
	})

	raw, err := r.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, fmt.Errorf("generate %s post: %w", platform, err)
	}

	if err := schemas.Validate(schemas.SocialPost, raw); err != nil {
		return nil, fmt.Errorf("%s post invalid: %w", platform, err)
	}

	var resp postResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, fmt.Errorf("parse %s post: %w", platform, err)
	}

	return &types.PlatformPost{
		Platform:     platform,
		Hook:         strings.TrimSpace(resp.Hook),
		Body:         strings.TrimSpace(resp.Body),
		CallToAction: strings.TrimSpace(resp.CallToAction),
		Hashtags:     normalizeHashtags(resp.Hashtags, hashtagLimits[platform]),
	}, nil
}

// normalizeHashtags trims, deduplicates, prefixes with # where missing, and
// caps the list at limit.
func normalizeHashtags(tags []string, limit int) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || tag == "#" {
			continue
		}
		if !strings.HasPrefix(tag, "#") {
			tag = "#" + tag
		}
		key := strings.ToLower(tag)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, tag)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
