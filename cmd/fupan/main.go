package main

import (
	"os"

	"github.com/zhenqiu/fupan/cmd/fupan/commands"
)

// 统一 CLI 入口：go run ./cmd/fupan [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
