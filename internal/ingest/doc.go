// Package ingest turns raw scraper exports into catalog records.
//
// Exports arrive as CSV with a header row or as a JSON array of objects.
// Every cell is a display string ("$9.99", "Free to Play", "Nov 16, 2004",
// "(12,345)", "N/A"); the cleaners parse those into typed fields, drop
// duplicate rows, and report values that are present but unusable as
// catalog.FieldIssue entries instead of failing the batch.
package ingest
