package coords

// DefaultPalette is the marker color cycle. Ordinal n gets
// DefaultPalette[(n-1) % len(DefaultPalette)].
var DefaultPalette = []string{
	"#e6194b",
	"#3cb44b",
	"#ffe119",
	"#4363d8",
	"#f58231",
	"#911eb4",
	"#46f0f0",
	"#f032e6",
	"#bcf60c",
	"#fabebe",
}

func colorFor(palette []string, ordinal int) string {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	return palette[(ordinal-1)%len(palette)]
}
