package main

import "github.com/oshokin/alarm-scheduler/cmd/alarm-replay/cmd"

func main() {
	cmd.Execute()
}
