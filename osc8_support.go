package tbrowse

import (
	"os"
	"strconv"
	"strings"
)

const (
	osc8Start = "\x1b]8;;"
	osc8Term  = "\x1b\\"
	osc8End   = osc8Start + osc8Term
)

var osc8TermPrograms = map[string]bool{
	"iTerm.app": true,
	"WezTerm":   true,
	"vscode":    true,
	"ghostty":   true,
}

// DetectOSC8Support returns true if the current environment likely supports
// OSC 8 hyperlinks.
func DetectOSC8Support() bool {
	return detectOSC8(os.Getenv)
}

// DetectOSC8SupportEnv is DetectOSC8Support with a custom variable lookup.
func DetectOSC8SupportEnv(getenv func(string) string) bool {
	return detectOSC8(getenv)
}

func detectOSC8(getenv func(string) string) bool {
	switch getenv("OSC8") {
	case "0":
		return false
	case "1":
		return true
	}
	if getenv("DOMTERM") != "" || getenv("WT_SESSION") != "" {
		return true
	}
	if osc8TermPrograms[getenv("TERM_PROGRAM")] {
		return true
	}
	if strings.Contains(strings.ToLower(getenv("TERM")), "kitty") {
		return true
	}
	if n, err := strconv.Atoi(getenv("VTE_VERSION")); err == nil && n >= 5000 {
		return true
	}
	return false
}
