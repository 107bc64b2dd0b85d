package main

import (
	"os"
	"path/filepath"
	"strings"
)

type mediaKind int

const (
	kindUnknown mediaKind = iota
	kindImage
	kindAudio
	kindVideo
)

func (k mediaKind) String() string {
	switch k {
	case kindImage:
		return "image"
	case kindAudio:
		return "audio"
	case kindVideo:
		return "video"
	default:
		return "unknown"
	}
}

var extensionKinds = map[string]mediaKind{
	".png": kindImage, ".jpg": kindImage, ".jpeg": kindImage, ".gif": kindImage,
	".bmp": kindImage, ".tif": kindImage, ".tiff": kindImage, ".webp": kindImage,
	".wav": kindAudio, ".wave": kindAudio, ".mp3": kindAudio, ".flac": kindAudio,
	".mp4": kindVideo, ".avi": kindVideo, ".mkv": kindVideo, ".mov": kindVideo, ".webm": kindVideo,
}

// detectKind classifies a path by extension; directories are frame sequences.
func detectKind(path string) mediaKind {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return kindVideo
	}
	return extensionKinds[strings.ToLower(filepath.Ext(path))]
}
