package placement

import (
	"math"

	"golang.org/x/crypto/blake2b"
	"lukechampine.com/frand"

	"github.com/docstacker/docsign/fsm/config"
	"github.com/docstacker/docsign/types"
)

const (
	autoJitterSteps = 1000
	autoMaxX        = 0.7
	autoMaxY        = 0.85
)

// AutoPlace adds one signature field per roster signer in the lower half of
// the pages. Signer i goes to page min(i, pageCount-1). The jitter comes from
// an RNG seeded with seed, so equal seeds give equal layouts.
func (e *Engine) AutoPlace(seed []byte, pageCount int) ([]types.SignatureField, error) {
	if pageCount < 1 {
		return nil, types.Validationf("page count must be positive")
	}

	key := blake2b.Sum256(seed)
	rng := frand.NewCustom(key[:], 1024, 12)
	jitter := func() float64 {
		return float64(rng.Intn(autoJitterSteps)) / autoJitterSteps * 0.1
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	placed := make([]types.SignatureField, 0, len(e.roster))
	for i, signer := range e.roster {
		xBase := 0.15 + float64(i%3)*0.25
		yBase := 0.55 + float64(i/3)*0.15

		field := types.SignatureField{
			ID:         e.newID(),
			FieldType:  types.FieldSignature,
			PageNumber: int(math.Min(float64(i), float64(pageCount-1))),
			XNorm:      math.Min(xBase+jitter(), autoMaxX),
			YNorm:      math.Min(yBase+jitter(), autoMaxY),
			WidthNorm:  config.AutoFieldWidth,
			HeightNorm: config.AutoFieldHeight,
			SignerRole: signer.ID,
			Required:   true,
		}
		placed = append(placed, field)
	}
	e.fields = append(e.fields, placed...)

	return placed, nil
}
