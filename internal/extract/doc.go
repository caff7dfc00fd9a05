// Package extract reads saved storefront pages into ingest rows.
//
// It works on HTML already on disk; nothing here performs network requests.
// Selectors follow the markup of the Metacritic PC browse listing and detail
// pages and of Steam app and search pages.
package extract
