package botconsole

import "os"

// FirstEnv returns the first non-empty value among the named environment
// variables, or "" when none is set.
func FirstEnv(names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}
