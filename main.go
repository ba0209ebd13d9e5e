package main

import (
	"github.com/shouni/go-paper-scraper/cmd"
)

func main() {
	cmd.Execute()
}
