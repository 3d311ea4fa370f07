package commands

import (
	"fmt"
	"time"
)

// 所有命令共用同一套终端输出样式。

const headerRule = "═══════════════════════════════════════════════════════════"
const subRule = "───────────────────────────────────────────────────────────"

// printRunHeader prints the banner for a manual review run.
func printRunHeader(date string) {
	if date == "" {
		date = "自动推算"
	}
	fmt.Println()
	fmt.Println(headerRule)
	fmt.Println("  A股打板复盘")
	fmt.Println(subRule)
	fmt.Printf("  交易日   : %s\n", date)
	fmt.Printf("  触发时间 : %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Println(subRule)
}

// printServiceHeader prints the banner for a long-running service command.
func printServiceHeader(name string, fields [][2]string) {
	fmt.Println()
	fmt.Println(headerRule)
	fmt.Printf("  %s\n", name)
	fmt.Println(subRule)
	for _, f := range fields {
		fmt.Printf("  %-8s : %s\n", f[0], f[1])
	}
	fmt.Println(subRule)
}
