// Package config provides configuration structures and utilities for
// sitemapper. It defines the crawl, render, and sitemap generation options
// and the loader for the optional .sitemapper YAML configuration file.
package config
