// Package stealth implements the Stealth Transformer (spec §4.8): a
// pipeline of composable transformations applied to an outgoing probe
// after packet construction, before transmission. Composition mirrors
// alive.MultiProber's small-interface style but for byte-buffer
// transforms instead of probers.
package stealth

import "fmt"

// ScalarTransform mutates one frame in place and returns exactly one
// frame back — TTL shaping and bad-checksum injection are scalar: they
// never change how many packets the probe becomes on the wire.
type ScalarTransform func(frame []byte) ([]byte, error)

// ExpandTransform turns one frame into N frames to actually transmit.
// Decoy cloning and fragmentation are the two expand stages; both must
// preserve the cookie-carrying field in the one frame that is the real
// probe (spec §4.8 invariant).
type ExpandTransform func(frame []byte) ([][]byte, error)

// Pipeline applies the scalar stages to the real probe first, then
// expands it into decoys (if configured), then fragments every resulting
// frame (if configured) — fragmentation always runs last, since it would
// otherwise force every earlier stage to special-case fragment
// boundaries (spec §9 "composition order matters").
type Pipeline struct {
	ttlShape    ScalarTransform
	badChecksum ScalarTransform
	decoy       ExpandTransform
	fragment    ExpandTransform
}

// NewPipeline builds a pipeline from whichever stages are enabled; a nil
// stage is simply skipped.
func NewPipeline(ttlShape, badChecksum ScalarTransform, decoy, fragment ExpandTransform) *Pipeline {
	return &Pipeline{ttlShape: ttlShape, badChecksum: badChecksum, decoy: decoy, fragment: fragment}
}

// Apply runs the real probe frame through the configured stages and
// returns every frame that must be transmitted.
func (p *Pipeline) Apply(realFrame []byte) ([][]byte, error) {
	cur := realFrame
	if p.ttlShape != nil {
		out, err := p.ttlShape(cur)
		if err != nil {
			return nil, fmt.Errorf("stealth: ttl shape: %w", err)
		}
		cur = out
	}
	if p.badChecksum != nil {
		out, err := p.badChecksum(cur)
		if err != nil {
			return nil, fmt.Errorf("stealth: bad checksum: %w", err)
		}
		cur = out
	}

	frames := [][]byte{cur}
	if p.decoy != nil {
		out, err := p.decoy(cur)
		if err != nil {
			return nil, fmt.Errorf("stealth: decoy: %w", err)
		}
		frames = out
	}

	if p.fragment == nil {
		return frames, nil
	}

	var fragmented [][]byte
	for _, f := range frames {
		frags, err := p.fragment(f)
		if err != nil {
			return nil, fmt.Errorf("stealth: fragment: %w", err)
		}
		fragmented = append(fragmented, frags...)
	}
	return fragmented, nil
}
