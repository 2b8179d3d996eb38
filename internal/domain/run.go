package domain

// NativeChannels is the channel width of a stored instrument matrix.
// The acquisition package always writes full-width spectra; the configured
// channel range selects a sub-window of this at decode time.
const NativeChannels = 8192

// RunFile identifies one experimental run on disk.
//
// Number is parsed from the trailing digits of the filename. Path is the
// matrix file itself in matrix mode, or the per-run filename prefix
// (directory + pattern tail + run token) in pre-extracted text mode.
type RunFile struct {
	Number int
	Path   string
}

// ChannelRange is the half-open channel window [Low, High) extracted from
// each detector's spectrum.
type ChannelRange struct {
	Low  int
	High int
}

// Width returns the number of channels in the window.
func (r ChannelRange) Width() int {
	return r.High - r.Low
}
