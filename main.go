package main

import "github.com/peopledesk/leave-management/cmd"

func main() {
	cmd.Execute()
}
