package deckdown

// Option configures a Deckdown instance.
type Option func(*Deckdown)

// WithRenderMode sets the full-page render policy (default RenderAuto).
func WithRenderMode(mode RenderMode) Option {
	return func(d *Deckdown) {
		d.renderMode = mode
	}
}

// WithConfig replaces the classifier and render-policy configuration.
func WithConfig(cfg Config) Option {
	return func(d *Deckdown) {
		d.cfg = cfg
	}
}

// WithDPI sets the resolution of full-page renders (default 120).
func WithDPI(dpi int) Option {
	return func(d *Deckdown) {
		if dpi > 0 {
			d.dpi = dpi
		}
	}
}
