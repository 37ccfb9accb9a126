package ir

// ToolVersion is the fluxactions release reported by --version.
const ToolVersion = "0.1.0"
