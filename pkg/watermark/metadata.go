package watermark

import "image"

// Info describes how an image maps onto the codec.
type Info struct {
	Width         int `json:"width"`
	Height        int `json:"height"`
	BlockRows     int `json:"blockRows"`
	BlockCols     int `json:"blockCols"`
	Capacity      int `json:"capacity"`      // mid-frequency coefficients available
	PayloadLength int `json:"payloadLength"` // bits generated for this image
	ComparedBits  int `json:"comparedBits"`  // bits that actually take part in detection
}

func GetInfo(img image.Image) Info {
	b := img.Bounds()
	rows, cols := blockDims(b.Dx(), b.Dy())
	capacity := coefficientCapacity(rows, cols)
	length := payloadLength(rows, cols)
	return Info{
		Width:         b.Dx(),
		Height:        b.Dy(),
		BlockRows:     rows,
		BlockCols:     cols,
		Capacity:      capacity,
		PayloadLength: length,
		ComparedBits:  min(capacity, length),
	}
}

// GetInfoFile is GetInfo for an image on disk.
func GetInfoFile(path string) (*Info, error) {
	img, err := LoadImage(path)
	if err != nil {
		return nil, err
	}
	info := GetInfo(img)
	return &info, nil
}
