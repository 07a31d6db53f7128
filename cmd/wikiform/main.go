// Command wikiform fetches parameter documentation from a MediaWiki API and
// renders it as GPUI form markup.
package main

func main() {
	Execute()
}
