// Package domfetch extracts elements from HTML documents with CSS selectors.
// Documents can come from a URL, a local file, in-memory markup, or a
// JavaScript-rendered page loaded in a headless browser. Matched elements
// are returned as live element handles, serialized markup, or detached
// breakdown records.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, rod/, http/).
package domfetch
