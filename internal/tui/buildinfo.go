package tui

// BuildInfo holds build-time metadata shown in the dashboard footer.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// Label returns the version with a short commit suffix when one is known.
func (b BuildInfo) Label() string {
	v := b.Version
	if v == "" {
		v = "dev"
	}
	if c := b.Commit; c != "" && c != "none" {
		if len(c) > 7 {
			c = c[:7]
		}
		v += " (" + c + ")"
	}
	return v
}
