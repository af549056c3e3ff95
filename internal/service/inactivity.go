package service

import (
	"fmt"
	"time"

	"poap2rss/internal/domain"
)

const week = 7 * 24 * time.Hour

const inactivePageBase = "https://www.poap2rss.com/inactive.html"

// inactivityWeek quantizes the elapsed time past the threshold into a
// 1-based week index. The index advances every full week past the
// threshold, so crossing into a new week yields a new guid while the
// guid stays stable within a week.
func inactivityWeek(now, lastActivity time.Time, threshold time.Duration) (int, bool) {
	elapsed := now.Sub(lastActivity)
	if elapsed < threshold {
		return 0, false
	}
	return int((elapsed-threshold)/week) + 1, true
}

// inactivityEntry synthesizes the dormant-feed notice, or reports false
// when the feed is still active. query identifies the feed on the
// dormant-feed reference page ("event=123" or "address=0x..."). A zero
// lastActivity (an address feed with no collected items) pins the
// notice at week 1: there is no instant to escalate from.
func inactivityEntry(now, lastActivity time.Time, threshold time.Duration, query string) (domain.FeedEntry, bool) {
	var (
		index int
		title string
		last  string
	)

	if lastActivity.IsZero() {
		index = 1
		title = "No claim activity for this feed"
		last = "<p><em>No claims have been recorded for this feed.</em></p>"
	} else {
		idx, ok := inactivityWeek(now, lastActivity, threshold)
		if !ok {
			return domain.FeedEntry{}, false
		}
		index = idx

		// The title counts whole weeks since the last claim; the guid's
		// index is threshold-relative, so at the threshold the title
		// reads "last N weeks" while the guid carries week=1.
		totalWeeks := int(now.Sub(lastActivity) / week)
		if index == 1 {
			title = fmt.Sprintf("No POAP claims in the last %d weeks", totalWeeks)
		} else {
			title = fmt.Sprintf("%d weeks with no claims", totalWeeks)
		}
		last = fmt.Sprintf("<p><em>Last claim was on %s</em></p>",
			lastActivity.UTC().Format("2006-01-02 15:04:05 UTC"))
	}

	link := fmt.Sprintf("%s?%s&week=%d", inactivePageBase, query, index)

	body := "<p>There have been no new POAP claims for this feed recently.</p>" +
		"<p>The event may be over. Consider unsubscribing from this feed if no further activity is expected.</p>" +
		last

	return domain.FeedEntry{
		GUID:        link,
		PermaLink:   true,
		Title:       title,
		Link:        link,
		Body:        body,
		PublishedAt: now,
	}, true
}
