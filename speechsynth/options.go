package speechsynth

// Options carries per-announcement voice parameters via
// Utterance.AnnouncerOptions. Zero value uses the platform's defaults.
type Options struct {
	Voice  *Voice
	Pitch  float64
	Rate   float64
	Volume float64
}

func optionsOf(announcerOptions interface{}) Options {
	if o, ok := announcerOptions.(Options); ok {
		return o
	}
	return Options{}
}
