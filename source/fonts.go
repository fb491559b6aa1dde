package source

import (
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/tsawler/startlist/font"
)

// pageFonts loads the fonts named in a page's resources, keyed by resource
// name. Fonts that cannot be read are left out and measured with the
// extractor's fallback width.
func pageFonts(pc *pdfmodel.Context, pageNr int) map[string]*font.Font {
	pageDict, _, inh, err := pc.PageDict(pageNr, true)
	if err != nil {
		return nil
	}

	r := resolver{pc: pc}
	resources := r.dict(pageDict["Resources"])
	if resources == nil && inh != nil {
		resources = inh.Resources
	}
	fontDict := r.dict(resources["Font"])
	if len(fontDict) == 0 {
		return nil
	}

	fonts := make(map[string]*font.Font, len(fontDict))
	for name, obj := range fontDict {
		if f := r.loadFont(name, obj); f != nil {
			fonts[name] = f
		}
	}
	return fonts
}

// resolver follows indirect references, swallowing errors as missing values.
type resolver struct {
	pc *pdfmodel.Context
}

func (r resolver) object(o types.Object) types.Object {
	if o == nil {
		return nil
	}
	obj, err := r.pc.Dereference(o)
	if err != nil {
		return nil
	}
	return obj
}

func (r resolver) dict(o types.Object) types.Dict {
	switch v := r.object(o).(type) {
	case types.Dict:
		return v
	case types.StreamDict:
		return v.Dict
	}
	return nil
}

func (r resolver) array(o types.Object) types.Array {
	a, _ := r.object(o).(types.Array)
	return a
}

func (r resolver) name(o types.Object) string {
	n, _ := r.object(o).(types.Name)
	return string(n)
}

func (r resolver) number(o types.Object) (float64, bool) {
	switch v := r.object(o).(type) {
	case types.Integer:
		return float64(v), true
	case types.Float:
		return float64(v), true
	}
	return 0, false
}

func (r resolver) numbers(o types.Object) []float64 {
	a := r.array(o)
	out := make([]float64, len(a))
	for i, item := range a {
		out[i], _ = r.number(item)
	}
	return out
}

func (r resolver) stream(o types.Object) []byte {
	sd, ok := r.object(o).(types.StreamDict)
	if !ok {
		return nil
	}
	if err := sd.Decode(); err != nil {
		return nil
	}
	return sd.Content
}

// loadFont reads one font dictionary. Type3 fonts draw glyphs with their
// own procedures and are left to the fallback.
func (r resolver) loadFont(name string, obj types.Object) *font.Font {
	d := r.dict(obj)
	if d == nil {
		return nil
	}
	subtype := r.name(d["Subtype"])
	if subtype == "Type3" {
		return nil
	}

	f := font.NewFont(name, r.name(d["BaseFont"]), subtype)
	switch enc := r.object(d["Encoding"]).(type) {
	case types.Name:
		f.Encoding = string(enc)
	case types.Dict:
		if base := r.name(enc["BaseEncoding"]); base != "" {
			f.Encoding = base
		}
	}
	if data := r.stream(d["ToUnicode"]); data != nil {
		if cm, err := font.ParseCMap(data); err == nil {
			f.ToUnicode = cm
		}
	}

	if f.IsComposite() {
		descendants := r.array(d["DescendantFonts"])
		if len(descendants) == 0 {
			return f
		}
		cid := r.dict(descendants[0])
		if dw, ok := r.number(cid["DW"]); ok {
			f.DW = dw
		}
		f.W = font.ParseW(r.widthItems(cid["W"]))
		return f
	}

	if first, ok := r.number(d["FirstChar"]); ok {
		f.SetWidths(int(first), r.numbers(d["Widths"]))
	}
	if mw, ok := r.number(r.dict(d["FontDescriptor"])["MissingWidth"]); ok {
		f.MissingWidth = mw
	}
	return f
}

// widthItems converts a /W array into the numbers and nested width lists
// font.ParseW expects.
func (r resolver) widthItems(o types.Object) []any {
	a := r.array(o)
	items := make([]any, 0, len(a))
	for _, item := range a {
		if n, ok := r.number(item); ok {
			items = append(items, n)
			continue
		}
		if _, ok := r.object(item).(types.Array); ok {
			items = append(items, r.numbers(item))
		}
	}
	return items
}
