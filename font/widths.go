package font

import "strings"

// metrics holds the advance widths of a standard font in thousandths of an
// em. Runes without an entry use fallback.
type metrics struct {
	widths   map[rune]float64
	fallback float64
}

// widthTable builds metrics from pairs of width and the runes sharing it.
func widthTable(fallback float64, groups ...any) metrics {
	m := metrics{widths: make(map[rune]float64), fallback: fallback}
	for i := 0; i+1 < len(groups); i += 2 {
		w := groups[i].(float64)
		for _, r := range groups[i+1].(string) {
			m.widths[r] = w
		}
	}
	return m
}

const digits = "0123456789"

var helvetica = widthTable(DefaultWidth,
	191.0, "'",
	222.0, "ijl",
	260.0, "|",
	278.0, ` !,./:;I[\]ft`,
	333.0, "()-`r",
	334.0, "{}",
	355.0, `"`,
	389.0, "*",
	469.0, "^",
	500.0, "Jcksvxyz",
	556.0, digits+"#$?_Labdeghnopqu–",
	584.0, "+<=>~",
	611.0, "FTZøß",
	667.0, "&ABEKPSVXY",
	722.0, "CDHNRUw",
	778.0, "GOQØ",
	833.0, "Mm",
	889.0, "%æ",
	944.0, "W",
	1000.0, "Æ—",
	1015.0, "@",
)

var helveticaBold = widthTable(DefaultWidth,
	278.0, " ,./Iijl",
	333.0, "!-:;ft()",
	389.0, "r",
	500.0, "z",
	556.0, digits+"Jacekvsxy–",
	611.0, "FLTZbdghnopquøß",
	667.0, "EPSVXY",
	722.0, "ABCDHKNRU",
	778.0, "GOQwØ",
	833.0, "M",
	889.0, "mæ",
	944.0, "W",
	1000.0, "Æ—",
)

var times = widthTable(DefaultWidth,
	250.0, " ,.",
	278.0, "/:;ijlt",
	333.0, "!()-Ifr",
	389.0, "Js",
	444.0, "acez",
	500.0, digits+"bdghknopquvxyø–",
	556.0, "FPS",
	611.0, "ELTZ",
	667.0, "BCRæ",
	722.0, "ADGHKNOQUVXYwØ",
	778.0, "m",
	889.0, "MÆ",
	944.0, "W",
	1000.0, "—",
)

var timesBold = widthTable(DefaultWidth,
	250.0, " ,.",
	278.0, "/il",
	333.0, "!()-:;fjt",
	389.0, "Is",
	444.0, "cerz",
	500.0, digits+"Jagovxyø–",
	556.0, "Sbdhknpqu",
	611.0, "FP",
	667.0, "BELTZ",
	722.0, "ACDNRUVXYwæ",
	778.0, "GHKOQØ",
	833.0, "m",
	944.0, "M",
	1000.0, "WÆ—",
)

var courier = metrics{fallback: 600}

// standardFonts maps the standard 14 names to their metrics. Oblique and
// italic faces share the upright widths closely enough for layout.
var standardFonts = map[string]metrics{
	"Helvetica":             helvetica,
	"Helvetica-Bold":        helveticaBold,
	"Helvetica-Oblique":     helvetica,
	"Helvetica-BoldOblique": helveticaBold,
	"Times-Roman":           times,
	"Times-Bold":            timesBold,
	"Times-Italic":          times,
	"Times-BoldItalic":      timesBold,
	"Courier":               courier,
	"Courier-Bold":          courier,
	"Courier-Oblique":       courier,
	"Courier-BoldOblique":   courier,
	"Symbol":                {fallback: DefaultWidth},
	"ZapfDingbats":          {fallback: DefaultWidth},
}

// aliases are the non-embedded names word processors write for the
// standard fonts.
var aliases = map[string]string{
	"Arial":                  "Helvetica",
	"Arial-Bold":             "Helvetica-Bold",
	"Arial-BoldMT":           "Helvetica-Bold",
	"ArialMT":                "Helvetica",
	"Arial-Italic":           "Helvetica-Oblique",
	"Arial-ItalicMT":         "Helvetica-Oblique",
	"Arial-BoldItalic":       "Helvetica-BoldOblique",
	"Arial-BoldItalicMT":     "Helvetica-BoldOblique",
	"TimesNewRoman":          "Times-Roman",
	"TimesNewRomanPSMT":      "Times-Roman",
	"TimesNewRoman-Bold":     "Times-Bold",
	"TimesNewRomanPS-BoldMT": "Times-Bold",
	"CourierNew":             "Courier",
	"CourierNewPSMT":         "Courier",
	"CourierNew-Bold":        "Courier-Bold",
}

// standardName strips a subset prefix ("ABCDEF+") and the ",Bold" style
// suffix form, then resolves aliases.
func standardName(base string) string {
	if i := strings.IndexByte(base, '+'); i == 6 {
		base = base[i+1:]
	}
	base = strings.Replace(base, ",", "-", 1)
	if a, ok := aliases[base]; ok {
		return a
	}
	return base
}

// standardMetrics returns the metrics for a base font name, using
// Helvetica for fonts outside the standard set.
func standardMetrics(base string) metrics {
	if m, ok := standardFonts[standardName(base)]; ok {
		return m
	}
	return helvetica
}
