package chanlun

import "ChanSentinel/internal/model"

// minFractalGap is the minimum separation, in merged-bar positions, between
// the two fractals anchoring a stroke.
const minFractalGap = 2

// BuildStrokes chains alternating fractals into directional strokes. sources
// is the merged-position to original-index mapping from Merge; emitted
// strokes carry original-series indices.
//
// The walk keeps a pending anchor fractal. An opposite-kind fractal that is
// far enough away and price-consistent confirms a stroke; same-kind fractals
// are absorbed by keeping the more extreme of the two. Failed candidates
// re-anchor without emitting, which keeps emitted directions alternating.
func BuildStrokes(fractals []model.Fractal, sources []int) []model.Stroke {
	if len(fractals) < 2 {
		return nil
	}

	var strokes []model.Stroke
	pending := fractals[0]

	for _, f := range fractals[1:] {
		if f.Kind == pending.Kind {
			// Absorb: keep the higher top or the lower bottom.
			if (f.Kind == model.FractalTop && f.Price > pending.Price) ||
				(f.Kind == model.FractalBottom && f.Price < pending.Price) {
				pending = f
			}
			continue
		}

		if f.Position-pending.Position >= minFractalGap {
			if pending.Kind == model.FractalBottom && f.Price > pending.Price {
				strokes = emit(strokes, model.Stroke{
					Direction:  model.StrokeUp,
					StartPrice: pending.Price,
					EndPrice:   f.Price,
					StartIndex: sources[pending.Position],
					EndIndex:   sources[f.Position],
				})
			} else if pending.Kind == model.FractalTop && f.Price < pending.Price {
				strokes = emit(strokes, model.Stroke{
					Direction:  model.StrokeDown,
					StartPrice: pending.Price,
					EndPrice:   f.Price,
					StartIndex: sources[pending.Position],
					EndIndex:   sources[f.Position],
				})
			}
		}
		// Whether or not a stroke was emitted, the new fractal anchors the
		// next candidate.
		pending = f
	}
	return strokes
}

// emit appends s, except when it would repeat the previous stroke's
// direction. A re-anchor can produce that; the list must stay strictly
// alternating, so a same-direction continuation instead extends the previous
// stroke to the more extreme endpoint.
func emit(strokes []model.Stroke, s model.Stroke) []model.Stroke {
	if n := len(strokes); n > 0 && strokes[n-1].Direction == s.Direction {
		last := &strokes[n-1]
		if (s.Direction == model.StrokeUp && s.EndPrice > last.EndPrice) ||
			(s.Direction == model.StrokeDown && s.EndPrice < last.EndPrice) {
			last.EndPrice = s.EndPrice
			last.EndIndex = s.EndIndex
		}
		return strokes
	}
	return append(strokes, s)
}
