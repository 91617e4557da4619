// Package version holds build identity, overridable at link time:
//
//	go build -ldflags "-X github.com/franswap/bot-discord-immobilier/internal/version.Version=1.2.0"
package version

var (
	AppName = "bot-immobilier"
	Version = "dev"
	Commit  = ""
)

// String returns "name version (commit)".
func String() string {
	s := AppName + " " + Version
	if Commit != "" {
		s += " (" + Commit + ")"
	}
	return s
}
