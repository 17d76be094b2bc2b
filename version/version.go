package version

// Version is the current version of mymake
// This can be set at build time using:
//   go build -ldflags "-X github.com/trikdhar/mymake/version.Version=x.y.z"
var Version = "dev"
