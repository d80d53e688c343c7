// Package sigrokdev holds shared metadata for the sigrokdev toolkit.
package sigrokdev

// Version is the sigrokdev release version.
const Version = "0.2.0"
