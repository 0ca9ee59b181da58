package main

import "github.com/frahmantamala/onboarding-tracker/cmd"

func main() {
	cmd.Execute()
}
