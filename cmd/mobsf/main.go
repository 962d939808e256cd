// Command mobsf is a command-line client for the MobSF mobile application
// security scanning service.
package main

func main() {
	Execute()
}
