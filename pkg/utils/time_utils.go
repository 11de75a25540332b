package utils

import "time"

// Korea Standard Time (+09:00). All billing dates are KST calendar days.
var kstLoc = func() *time.Location {
	if loc, err := time.LoadLocation("Asia/Seoul"); err == nil {
		return loc
	}
	return time.FixedZone("KST", 9*3600)
}()

func KST() *time.Location { return kstLoc }

func NowKST() time.Time { return time.Now().In(kstLoc) }

// Today returns the current KST calendar date at midnight.
func Today() time.Time {
	return DateOnly(NowKST())
}

// DateOnly truncates t to its KST calendar date.
func DateOnly(t time.Time) time.Time {
	t = t.In(kstLoc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, kstLoc)
}

// EndOfDayUnix is 23:59:59 of the given date, as unix seconds.
// Used for membership expiry stamps.
func EndOfDayUnix(d time.Time) int64 {
	d = DateOnly(d)
	return time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 0, kstLoc).Unix()
}

func SameDate(a, b time.Time) bool {
	return DateOnly(a).Equal(DateOnly(b))
}

func NowUnixSeconds() int64 { return time.Now().Unix() }

func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(kstLoc).Format("2006-01-02")
}

func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, kstLoc)
}
