package main

import "pushrelay/server"

func main() {
	server.Main()
}
