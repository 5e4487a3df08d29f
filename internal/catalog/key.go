package catalog

import "strings"

// Instrument identifies the instrument a photometric column belongs to.
type Instrument string

const (
	NIRCam Instrument = "nircam"
	NIRISS Instrument = "niriss"
	FGS    Instrument = "fgs"
)

// Instruments lists the supported instruments in a stable order.
func Instruments() []Instrument {
	return []Instrument{NIRCam, NIRISS, FGS}
}

// ParseInstrument matches an instrument token case-insensitively.
func ParseInstrument(s string) (Instrument, bool) {
	switch strings.ToLower(s) {
	case string(NIRCam):
		return NIRCam, true
	case string(NIRISS):
		return NIRISS, true
	case string(FGS):
		return FGS, true
	}
	return "", false
}

// Quantity identifies what a photometric column holds.
type Quantity string

const (
	// QuantityMagnitude marks a catalog magnitude column.
	QuantityMagnitude Quantity = "magnitude"
	// QuantityFlux marks a derived flux-density column in flam units.
	QuantityFlux Quantity = "flam"
)

// ColumnKey is the structured form of a photometric column name. A name like
// nircam_f444w_modb_magnitude decomposes into instrument, filter, an optional
// module qualifier, and the measured quantity; fgs_magnitude carries no
// filter at all. Deriving the key once at parse time keeps the rest of the
// pipeline away from positional string surgery on column names.
type ColumnKey struct {
	Instrument Instrument
	Filter     string
	Module     string
	Quantity   Quantity
}

// ParseColumnKey decomposes a column name. The second return is false when
// the name is not a recognizable photometric column, which is normal for
// bookkeeping columns like index or x_or_RA.
func ParseColumnKey(name string) (ColumnKey, bool) {
	parts := strings.Split(strings.ToLower(name), "_")
	if len(parts) < 2 {
		return ColumnKey{}, false
	}
	inst, ok := ParseInstrument(parts[0])
	if !ok {
		return ColumnKey{}, false
	}
	var quantity Quantity
	switch parts[len(parts)-1] {
	case string(QuantityMagnitude):
		quantity = QuantityMagnitude
	case string(QuantityFlux):
		quantity = QuantityFlux
	default:
		return ColumnKey{}, false
	}
	key := ColumnKey{Instrument: inst, Quantity: quantity}
	var filter []string
	for _, tok := range parts[1 : len(parts)-1] {
		if strings.HasPrefix(tok, "mod") && len(tok) > len("mod") {
			key.Module = strings.TrimPrefix(tok, "mod")
			continue
		}
		filter = append(filter, tok)
	}
	key.Filter = strings.Join(filter, "_")
	return key, true
}

// FlamColumnName maps a magnitude column name onto its flux-density
// counterpart, preserving every other part of the name.
func FlamColumnName(magnitudeColumn string) string {
	return strings.Replace(magnitudeColumn, string(QuantityMagnitude), string(QuantityFlux), 1)
}

// MagnitudeColumnName is the inverse of FlamColumnName.
func MagnitudeColumnName(flamColumn string) string {
	return strings.Replace(flamColumn, string(QuantityFlux), string(QuantityMagnitude), 1)
}
