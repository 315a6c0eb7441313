// Package viz renders evoked responses as static figures with gonum/plot.
//
// [PlotChannels] draws one panel per channel comparing the target and
// non-target conditions. [PlotCompare] overlays the channel-mean waveform
// of any number of conditions. Every panel carries a shaded reference band
// marking the expected P300 latency range. Figures are written to PNG, SVG
// or PDF according to the file extension; nothing is displayed.
package viz
