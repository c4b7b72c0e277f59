package main

import "github.com/marcuslira2/task-manager-front/internal/cli"

func main() {
	cli.Execute()
}
