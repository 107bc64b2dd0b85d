package server

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"math/rand"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Madmax729/netra-digital-ownership/pkg/audiomark"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	log.Logger = log.Output(io.Discard)
}

func newTestServer() http.Handler {
	return New(Config{Addr: ":0", AllowOrigins: []string{"http://localhost:3000"}}).Handler()
}

func upload(t *testing.T, h http.Handler, path, filename string, file []byte, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if file != nil {
		part, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func grayPNG(t *testing.T, size int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetNRGBA(x, y, color.NRGBA{128, 128, 128, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func noiseWAV(t *testing.T) []byte {
	t.Helper()
	r := rand.New(rand.NewSource(10))
	samples := make([]float32, 64*4096)
	for i := range samples {
		if r.Intn(2) == 0 {
			samples[i] = 0.1
		} else {
			samples[i] = -0.1
		}
	}
	data, err := audiomark.WAVBytes(&audiomark.Buffer{Samples: samples, SampleRate: 44100, Channels: 1})
	require.NoError(t, err)
	return data
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCORS(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	newTestServer().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestKeys(t *testing.T) {
	h := newTestServer()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/keys?passphrase=alpha", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var report KeyReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, int64(9918), report.Image.Seed)
	assert.Equal(t, "alpha", report.Audio.Seed)
	assert.Equal(t, "aaaaaaaaaaaaaaaa", report.ImagePayload)
	assert.Len(t, report.AudioPayload, 16)
	assert.Equal(t, "28f4", report.AudioPayload[:4])

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/keys", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "passphrase is required")
}

func TestImageEmbedVerify(t *testing.T) {
	h := newTestServer()

	rec := upload(t, h, "/api/v1/image/embed", "photo.png", grayPNG(t, 256), map[string]string{"passphrase": "alpha"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="photo.watermarked.png"`, rec.Header().Get("Content-Disposition"))
	assert.NotEmpty(t, rec.Header().Get(headerPSNR))
	marked := rec.Body.Bytes()

	type result struct {
		IsWatermarked bool    `json:"isWatermarked"`
		Confidence    float64 `json:"confidence"`
	}

	rec = upload(t, h, "/api/v1/image/verify", "marked.png", marked, map[string]string{"passphrase": "alpha"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.IsWatermarked)
	assert.Greater(t, res.Confidence, 0.9)

	rec = upload(t, h, "/api/v1/image/verify", "marked.png", marked, map[string]string{"passphrase": "gamma"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.False(t, res.IsWatermarked)
}

func TestImageBadRequests(t *testing.T) {
	h := newTestServer()
	img := grayPNG(t, 32)

	tests := []struct {
		name   string
		file   []byte
		fields map[string]string
	}{
		{"missing file", nil, map[string]string{"passphrase": "alpha"}},
		{"missing passphrase", img, nil},
		{"not an image", []byte("hello"), map[string]string{"passphrase": "alpha"}},
		{"strength not a number", img, map[string]string{"passphrase": "alpha", "strength": "lots"}},
		{"strength out of range", img, map[string]string{"passphrase": "alpha", "strength": "2"}},
		{"zero alpha", img, map[string]string{"passphrase": "alpha", "alpha": "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := upload(t, h, "/api/v1/image/embed", "in.png", tt.file, tt.fields)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestAudioEmbedVerify(t *testing.T) {
	h := newTestServer()
	original := noiseWAV(t)

	rec := upload(t, h, "/api/v1/audio/embed", "voice.wav", original, map[string]string{"passphrase": "alpha"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "audio/wav", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="voice.watermarked.wav"`, rec.Header().Get("Content-Disposition"))
	assert.NotEmpty(t, rec.Header().Get(headerSNR))
	marked := rec.Body.Bytes()
	assert.Equal(t, len(original), len(marked))

	rec = upload(t, h, "/api/v1/audio/verify", "marked.wav", marked, map[string]string{"passphrase": "alpha"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, true, res["isWatermarked"])
	assert.Contains(t, res, "ber")
	assert.Contains(t, res, "snr")
	scores, ok := res["algorithmScores"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, scores, "spreadSpectrum")

	rec = upload(t, h, "/api/v1/audio/verify", "plain.wav", original, map[string]string{"passphrase": "alpha"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, false, res["isWatermarked"])
}

func TestAudioBadRequests(t *testing.T) {
	h := newTestServer()

	rec := upload(t, h, "/api/v1/audio/verify", "noise.bin", []byte("definitely not audio"), map[string]string{"passphrase": "alpha"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = upload(t, h, "/api/v1/audio/embed", "voice.wav", noiseWAV(t), map[string]string{"passphrase": "alpha", "delay": "soon"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = upload(t, h, "/api/v1/audio/embed", "voice.wav", noiseWAV(t), map[string]string{"passphrase": "alpha", "delay": "0"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- New(Config{Addr: "127.0.0.1:0"}).Run(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
