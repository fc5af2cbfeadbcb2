// Package gridscrape scrapes module listings from a modular synthesizer
// catalog. It walks paginated list pages, follows links to module detail
// pages, and extracts structured module fields with CSS selectors.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, http/, sqlite/).
package gridscrape
