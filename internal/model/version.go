package model

// Version is the launcher version, overridden at build time with -ldflags.
var Version = "0.3.0"
