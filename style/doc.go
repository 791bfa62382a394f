// Package style holds the label style properties of labelfmt and resolves
// them for a single map feature.
//
// Every property is a [Value]: unset, a literal, or an expression evaluated
// per feature. A [Defaults] groups the properties of one label (face name,
// text size, fill, halo fill, halo radius and text transform). Resolution
// layers Defaults over each other; an unset property falls through to the
// next layer and finally to the caller's fallback.
//
//	var d style.Defaults
//	d.FaceName.SetLiteral("DejaVu Sans Book")
//	_ = d.Set(style.KeyTextSize, "[RANK < 3 ? 14 : 10]")
//
//	r, err := style.Resolve(attrs, d, style.Builtin())
//
// Literal values are validated when set: a text size must be positive and a
// halo radius must not be negative. Expression results are checked against
// the same constraints at resolve time.
package style
