package main

import (
	"os"

	"github.com/meenagpt/chat-service/chatservice"
)

func main() {
	if err := chatservice.Run(); err != nil {
		os.Exit(1)
	}
}
