// Package main provides the entry point for the sitemapper CLI.
//
// Sitemapper crawls a single web domain, rendering pages that depend on
// client-side script execution, and writes a sitemaps.org 0.9 sitemap of
// every page it discovered.
//
// Usage:
//
//	sitemapper generate <seed-url>
//	sitemapper validate <sitemap-file>
//
// See --help for all available options.
package main

// main is the entry point for sitemapper.
func main() {
	Execute()
}
