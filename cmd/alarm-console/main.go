package main

import "github.com/oshokin/alarm-scheduler/cmd/alarm-console/cmd"

func main() {
	cmd.Execute()
}
