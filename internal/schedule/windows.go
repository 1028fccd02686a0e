// Package schedule finds posting slots per platform and books them on a
// calendar. Each platform has engagement windows on weekdays; a post is
// scheduled at the start of the next window after the current time.
package schedule

import (
	"time"

	"github.com/Ikein-Sarah/content-workflow-agent/internal/types"
)

// Window is a daily posting window in local hours, [Start, End).
type Window struct {
	Start int
	End   int
}

// platformWindows holds the weekday engagement windows per platform, in the
// audience timezone. Windows are sorted by start hour.
var platformWindows = map[types.Platform][]Window{
	types.PlatformShortVideo:   {{Start: 8, End: 10}, {Start: 18, End: 20}},
	types.PlatformProfessional: {{Start: 7, End: 9}, {Start: 17, End: 18}},
	types.PlatformCasual:       {{Start: 11, End: 14}, {Start: 19, End: 21}},
}

// Windows returns the engagement windows for a platform.
func Windows(platform types.Platform) []Window {
	return platformWindows[platform]
}

// NextSlot returns the start of the earliest engagement window for the
// platform that is strictly after now, skipping weekends. The result is in
// now's location.
func NextSlot(now time.Time, platform types.Platform) time.Time {
	windows := platformWindows[platform]
	if len(windows) == 0 {
		return now.Add(24 * time.Hour)
	}

	loc := now.Location()
	for day := 0; day <= 14; day++ {
		date := now.AddDate(0, 0, day)
		if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		for _, w := range windows {
			slot := time.Date(date.Year(), date.Month(), date.Day(), w.Start, 0, 0, 0, loc)
			if slot.After(now) {
				return slot
			}
		}
	}
	// Unreachable with non-empty windows; two weeks always contain weekdays.
	return now.Add(24 * time.Hour)
}
