// Command navmeshgen builds navigation meshes from OBJ level geometry.
package main

import "github.com/arl-navgen/navmesh/cmd/navmeshgen/cmd"

func main() {
	cmd.Execute()
}
