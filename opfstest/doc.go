// Package opfstest provides a conformance suite for opfsgo backends plus
// wrappers that simulate hostile hosts (latency, quotas, injected errors).
//
// Backend packages run the shared suite from their own tests:
//
//	func TestConformance(t *testing.T) {
//	    opfstest.Run(t, func(t *testing.T) opfsgo.Directory {
//	        return memory.NewDirectory()
//	    }, opfstest.Profile{TruncatesOnWrite: true})
//	}
//
// The Profile captures the one documented behavioral divergence between
// backends: whether a cursor write truncates content past the written range
// (reference backend) or preserves it (native, web).
package opfstest
