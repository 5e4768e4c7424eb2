package services

import (
	"fmt"
	"time"
)

const (
	kib = 1024
	mib = 1024 * kib
	gib = 1024 * mib

	shortHashLen = 10
)

// FormatSize renders a byte count: plain bytes below 1 KB, otherwise one
// decimal in the largest unit up to GB.
func FormatSize(n int64) string {
	switch {
	case n < kib:
		return fmt.Sprintf("%d B", n)
	case n < mib:
		return fmt.Sprintf("%.1f KB", float64(n)/kib)
	case n < gib:
		return fmt.Sprintf("%.1f MB", float64(n)/mib)
	default:
		return fmt.Sprintf("%.1f GB", float64(n)/gib)
	}
}

// FormatAge renders the time since t in its coarsest whole unit, e.g.
// "42s ago" or "3d ago". Timestamps in the future count as "0s ago".
func FormatAge(t, now time.Time) string {
	d := now.Sub(t)
	if d < 0 {
		d = 0
	}

	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int64(d/time.Second))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int64(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int64(d/time.Hour))
	default:
		return fmt.Sprintf("%dd ago", int64(d/(24*time.Hour)))
	}
}

// ShortHash abbreviates a content hash for listings.
func ShortHash(h string) string {
	if len(h) <= shortHashLen {
		return h
	}
	return h[:shortHashLen] + "..."
}
