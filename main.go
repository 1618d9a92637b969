// Package main is the entry point for rally-metrics, which scrapes the Major
// League Pickleball standings and keeps the player_statistic table current.
package main

import "rally-metrics/cmd"

func main() {
	cmd.Execute()
}
