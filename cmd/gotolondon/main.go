// Command gotolondon ranks the ways of reaching configured London destinations
// using live TfL arrivals.
package main

func main() {
	Execute()
}
