package search

import "sync/atomic"

// NewStopFlag returns a zero-valued flag suitable for passing to
// NewSearcher and Stop/ClearStop. It exists so callers (the uci adapter)
// don't need to import sync/atomic themselves just to share a cancellation
// signal with a running search.
func NewStopFlag() *int32 {
	var flag int32
	return &flag
}

// Stop sets flag so the next polling check inside a running Search call
// unwinds it, per spec §5's cancellation model.
func Stop(flag *int32) { atomic.StoreInt32(flag, 1) }

// ClearStop resets flag ahead of a new search.
func ClearStop(flag *int32) { atomic.StoreInt32(flag, 0) }

func loadStop(flag *int32) bool { return atomic.LoadInt32(flag) != 0 }
