package main

import "github.com/df07/go-scene-raytracer/cmd"

func main() {
	cmd.Execute()
}
