// Package model defines the data structures shared across the crawler,
// the sitemap generator, the history database, and the report writers.
package model
