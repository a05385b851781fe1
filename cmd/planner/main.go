// Command planner maps workflows onto execution sites.
package main

import "github.com/swarmourr/pegasus-sub001/cmd"

func main() {
	cmd.Execute()
}
