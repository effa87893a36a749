//go:build windows

package main

import "syscall"

// manageConsole detaches from the console unless debug output is wanted, so
// a build launched from Explorer does not keep a console window open.
func manageConsole(debug bool) {
	if debug {
		return
	}
	syscall.NewLazyDLL("kernel32.dll").NewProc("FreeConsole").Call()
}
