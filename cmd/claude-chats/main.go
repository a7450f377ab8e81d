package main

import "github.com/strrl/claude-chats/cmd/claude-chats/commands"

func main() {
	commands.Execute()
}
