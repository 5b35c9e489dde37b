package main

import (
	"context"

	"brotherowl-backend/cmd/owlstats/commands"
)

func main() {
	commands.ExecuteContext(context.Background())
}
