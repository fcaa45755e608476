package tbrowse

// RenderOption configures rendering behavior.
type RenderOption func(*renderConfig)

type renderConfig struct {
	osc8         bool
	legacyBreaks bool
	maxRows      int
}

func newRenderConfig(opts []RenderOption) renderConfig {
	cfg := renderConfig{maxRows: DefaultMaxRows}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithOSC8 enables or disables OSC 8 hyperlinks in ANSI output.
func WithOSC8(enabled bool) RenderOption {
	return func(cfg *renderConfig) {
		cfg.osc8 = enabled
	}
}

// WithLegacyLineBreaks ends every text run with a row advance, so adjacent
// inline elements land on separate rows.
func WithLegacyLineBreaks(enabled bool) RenderOption {
	return func(cfg *renderConfig) {
		cfg.legacyBreaks = enabled
	}
}

// WithMaxRows bounds the rows of the Grid created by RenderTree.
func WithMaxRows(rows int) RenderOption {
	return func(cfg *renderConfig) {
		if rows > 0 {
			cfg.maxRows = rows
		}
	}
}
