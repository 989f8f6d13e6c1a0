// Command nvctl inspects and initializes EEPROM images laid out by nvkit.
package main

func main() {
	execute()
}
