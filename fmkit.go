// Package fmkit provides a local companion utility for Football Manager
// players. It counts face image assets in configured folders and maintains
// a browsable directory of nations scraped from sortitoutsi.net.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, rod/, sqlite/).
package fmkit
