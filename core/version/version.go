package version

// Version is overridden at build time with -ldflags "-X github.com/tristendillon/exvite/core/version.Version=...".
var Version = "dev"
