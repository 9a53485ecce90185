/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/tristendillon/exvite/cmd"

func main() {
	cmd.Execute()
}
