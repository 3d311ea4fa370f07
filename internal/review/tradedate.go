package review

import "time"

// marketCloseHour is when the A-share session ends.
const marketCloseHour = 15

// ResolveTradeDate maps wall-clock time to the trade date under review.
// 周末回退到上周五；工作日收盘前回退到上一个交易日。
func ResolveTradeDate(now time.Time) string {
	d := now
	weekend := isWeekend(d)
	for isWeekend(d) {
		d = d.AddDate(0, 0, -1)
	}

	// 收盘前当日数据不完整，只在交易日当天需要回退。
	if !weekend && now.Hour() < marketCloseHour {
		d = d.AddDate(0, 0, -1)
		for isWeekend(d) {
			d = d.AddDate(0, 0, -1)
		}
	}
	return d.Format("2006-01-02")
}

func isWeekend(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
