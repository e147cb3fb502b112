// Package analysis summarizes recorded rover runs.
//
//   - [Summarize]: mean, spread and extremes of one channel
//   - [PowerSpectrum]: one-sided spectrum of a uniformly sampled channel
//   - [TrajectoryToASCII]: x-y track plot for the terminal
//
// # Usage
//
//	rec, _ := store.LoadOutputs(runID)
//	s := analysis.Summarize(rec.Column(rover.MeasU))
//	fmt.Println(analysis.TrajectoryToASCII(analysis.Track(rec.Column(rover.MeasX), rec.Column(rover.MeasY)), 60, 20))
package analysis
