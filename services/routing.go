package services

import "strings"

// ChannelRouter maps an order's declared branch label to the review
// channel that should receive it. The mapping is total: anything that does
// not name the Derezlik branch goes to the primary channel.
type ChannelRouter struct {
	PrimaryChannelID  int64
	DerezlikChannelID int64
}

// ChannelFor returns the review channel for the branch label. Matching is
// a case-insensitive substring check ("derezli" also covers the common
// misspelling without the trailing k).
func (r ChannelRouter) ChannelFor(branch string) int64 {
	if branch == "" || r.DerezlikChannelID == 0 {
		return r.PrimaryChannelID
	}
	lower := strings.ToLower(branch)
	if strings.Contains(lower, "derezlik") || strings.Contains(lower, "derezli") {
		return r.DerezlikChannelID
	}
	return r.PrimaryChannelID
}
