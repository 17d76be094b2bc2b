package shell

import "fmt"

// GenerateInitScript returns the shell snippet for shellType ("bash",
// "zsh", or "fish") that mymake shell-init prints: it exports MYPATH
// from the caller's configuration and registers completion over
// targets, the spec file's parsed target names.
func GenerateInitScript(shellType, mypath string, targets []string) (string, error) {
	switch shellType {
	case "bash":
		return bashInitScript(mypath, targets), nil
	case "zsh":
		return zshInitScript(mypath, targets), nil
	case "fish":
		return fishInitScript(mypath, targets), nil
	default:
		return "", fmt.Errorf("shell: unsupported shell %q (want bash, zsh, or fish)", shellType)
	}
}
