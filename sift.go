// Package sift turns a search query into a small set of cleaned web
// documents. It resolves candidate URLs through a search provider, renders
// each page in a headless browser, dismisses consent banners, extracts the
// main content and normalizes it to markdown-flavoured text suitable as
// language model context.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, goquery/, htmltomarkdown/).
package sift
