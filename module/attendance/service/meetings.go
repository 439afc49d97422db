package service

import (
	"context"
	"sort"

	"AProject/module/attendance/model"
)

// MeetingsPage splits recently-active meetings into live and ended groups.
type MeetingsPage struct {
	Org    string                 `json:"org,omitempty"`
	Active []model.MeetingSummary `json:"active"`
	Ended  []model.MeetingSummary `json:"ended"`
	Days   int                    `json:"days"`
}

// MeetingsView groups the last numDays of ledger records by meeting and sums
// participation counters into a live-participant count per meeting.
func (s *Attendance) MeetingsView(ctx context.Context, numDays int) (*MeetingsPage, error) {
	if numDays <= 0 {
		numDays = 7
	}
	since := s.clock().AddDate(0, 0, -numDays)
	records, err := s.store.RecentRecords(ctx, since)
	if err != nil {
		return nil, err
	}

	byMeeting := make(map[string]*model.MeetingSummary)
	for _, rec := range records {
		sum, ok := byMeeting[rec.MeetingID]
		if !ok {
			sum = &model.MeetingSummary{
				MeetingID:        rec.MeetingID,
				MeetingStartTime: rec.MeetingStartTime,
			}
			byMeeting[rec.MeetingID] = sum
		}
		sum.MeetingTitle = rec.MeetingTitle
		sum.MeetingDuration = rec.MeetingDuration
		sum.ParticipantCount++
		sum.CurrentCount += rec.ParticipationCount
		if rec.LastUpdatedAt.After(sum.LastUpdatedAt) {
			sum.LastUpdatedAt = rec.LastUpdatedAt
		}
		if rec.MeetingStartTime.Before(sum.MeetingStartTime) {
			sum.MeetingStartTime = rec.MeetingStartTime
		}
	}

	page := &MeetingsPage{Org: s.org, Days: numDays}
	for _, sum := range byMeeting {
		if sum.CurrentCount > 0 {
			page.Active = append(page.Active, *sum)
		} else {
			page.Ended = append(page.Ended, *sum)
		}
	}
	// newest first within each group
	sort.Slice(page.Active, func(i, j int) bool {
		return page.Active[i].MeetingStartTime.After(page.Active[j].MeetingStartTime)
	})
	sort.Slice(page.Ended, func(i, j int) bool {
		return page.Ended[i].MeetingStartTime.After(page.Ended[j].MeetingStartTime)
	})
	return page, nil
}

// SitemapEntries lists every known meeting page with its freshness, for the
// sitemap endpoint.
func (s *Attendance) SitemapEntries(ctx context.Context) ([]model.MeetingSummary, error) {
	// a year back is effectively "everything the store still holds"
	page, err := s.MeetingsView(ctx, 365)
	if err != nil {
		return nil, err
	}
	entries := append(append([]model.MeetingSummary{}, page.Active...), page.Ended...)
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].LastUpdatedAt.After(entries[j].LastUpdatedAt)
	})
	return entries, nil
}
