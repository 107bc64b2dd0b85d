package audiomark

// Info describes how a buffer maps onto the codec.
type Info struct {
	SampleRate    int     `json:"sampleRate"`
	Channels      int     `json:"channels"`
	Frames        int     `json:"frames"`
	Duration      float64 `json:"duration"` // seconds
	PayloadLength int     `json:"payloadLength"`
	BlockSize     int     `json:"blockSize"` // samples per payload bit on channel 0
}

func GetInfo(buf *Buffer) Info {
	frames := buf.Frames()
	info := Info{
		SampleRate:    buf.SampleRate,
		Channels:      buf.Channels,
		Frames:        frames,
		PayloadLength: payloadLength(frames),
	}
	if buf.SampleRate > 0 {
		info.Duration = float64(frames) / float64(buf.SampleRate)
	}
	if info.PayloadLength > 0 {
		info.BlockSize = frames / info.PayloadLength
	}
	return info
}
