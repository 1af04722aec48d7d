package build

// Version is set at build time with -ldflags "-X github.com/integrail/askgpt/internal/build.Version=..."
var Version = "dev"
