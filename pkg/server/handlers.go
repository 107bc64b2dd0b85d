package server

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Madmax729/netra-digital-ownership/pkg/audiomark"
	"github.com/Madmax729/netra-digital-ownership/pkg/mark"
	"github.com/Madmax729/netra-digital-ownership/pkg/watermark"
	"github.com/gin-gonic/gin"
)

const (
	headerPSNR = "X-Watermark-PSNR"
	headerSNR  = "X-Watermark-SNR"
)

// errBadRequest marks request errors that are the caller's fault.
var errBadRequest = errors.New("bad request")

// KeyReport is the response of GET /keys.
type KeyReport struct {
	Image        watermark.Key `json:"image"`
	Audio        audiomark.Key `json:"audio"`
	ImagePayload string        `json:"imagePayload"`
	AudioPayload string        `json:"audioPayload"`
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func keys(c *gin.Context) {
	passphrase := c.Query("passphrase")
	if passphrase == "" {
		fail(c, fmt.Errorf("%w: passphrase is required", errBadRequest))
		return
	}

	imageKey := watermark.GenerateKey(passphrase)
	audioKey := audiomark.GenerateKey(passphrase)
	c.JSON(http.StatusOK, KeyReport{
		Image:        imageKey,
		Audio:        audioKey,
		ImagePayload: watermark.GeneratePayload(imageKey, watermark.PayloadLength).Hex(),
		AudioPayload: audiomark.GeneratePayload(audioKey, audiomark.PayloadLength).Hex(),
	})
}

func imageEmbed(c *gin.Context) {
	img, name, err := formImage(c)
	if err != nil {
		fail(c, err)
		return
	}
	key, err := imageKey(c)
	if err != nil {
		fail(c, err)
		return
	}

	marked, err := watermark.Embed(img, key)
	if err != nil {
		fail(c, err)
		return
	}
	var out bytes.Buffer
	if err := png.Encode(&out, marked); err != nil {
		fail(c, err)
		return
	}
	if metrics, _, err := watermark.Compare(img, marked, nil); err == nil {
		c.Header(headerPSNR, strconv.FormatFloat(metrics.PSNR, 'f', 2, 64))
	}

	attach(c, name, ".watermarked.png")
	c.Data(http.StatusOK, "image/png", out.Bytes())
}

func imageVerify(c *gin.Context) {
	img, _, err := formImage(c)
	if err != nil {
		fail(c, err)
		return
	}
	key, err := imageKey(c)
	if err != nil {
		fail(c, err)
		return
	}

	res, err := watermark.Extract(img, key)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func audioEmbed(c *gin.Context) {
	buf, name, err := formAudio(c)
	if err != nil {
		fail(c, err)
		return
	}
	key, err := audioKey(c)
	if err != nil {
		fail(c, err)
		return
	}

	marked, err := audiomark.Embed(buf, key)
	if err != nil {
		fail(c, err)
		return
	}
	data, err := audiomark.WAVBytes(marked)
	if err != nil {
		fail(c, err)
		return
	}
	if metrics, err := audiomark.Analyze(buf, marked); err == nil {
		c.Header(headerSNR, strconv.FormatFloat(metrics.SNR, 'f', 2, 64))
	}

	attach(c, name, ".watermarked.wav")
	c.Data(http.StatusOK, "audio/wav", data)
}

func audioVerify(c *gin.Context) {
	buf, _, err := formAudio(c)
	if err != nil {
		fail(c, err)
		return
	}
	key, err := audioKey(c)
	if err != nil {
		fail(c, err)
		return
	}

	res, err := audiomark.Verify(buf, key)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func formImage(c *gin.Context) (image.Image, string, error) {
	header, err := c.FormFile("file")
	if err != nil {
		return nil, "", fmt.Errorf("%w: file is required", errBadRequest)
	}
	file, err := header.Open()
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", mark.ErrCorruptContainer, err)
	}
	return img, header.Filename, nil
}

func formAudio(c *gin.Context) (*audiomark.Buffer, string, error) {
	header, err := c.FormFile("file")
	if err != nil {
		return nil, "", fmt.Errorf("%w: file is required", errBadRequest)
	}
	file, err := header.Open()
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	buf, err := audiomark.Decode(file, header.Filename)
	if err != nil {
		return nil, "", err
	}
	return buf, header.Filename, nil
}

func imageKey(c *gin.Context) (watermark.Key, error) {
	passphrase, err := formPassphrase(c)
	if err != nil {
		return watermark.Key{}, err
	}
	key := watermark.GenerateKey(passphrase)
	if key.Strength, err = formFloat(c, "strength", key.Strength); err != nil {
		return key, err
	}
	if key.Alpha, err = formFloat(c, "alpha", key.Alpha); err != nil {
		return key, err
	}
	return key, nil
}

func audioKey(c *gin.Context) (audiomark.Key, error) {
	passphrase, err := formPassphrase(c)
	if err != nil {
		return audiomark.Key{}, err
	}
	key := audiomark.GenerateKey(passphrase)
	if key.Strength, err = formFloat(c, "strength", key.Strength); err != nil {
		return key, err
	}
	if raw := c.PostForm("delay"); raw != "" {
		if key.Delay, err = strconv.Atoi(raw); err != nil {
			return key, fmt.Errorf("%w: delay must be an integer", errBadRequest)
		}
	}
	return key, nil
}

func formPassphrase(c *gin.Context) (string, error) {
	passphrase := c.PostForm("passphrase")
	if passphrase == "" {
		return "", fmt.Errorf("%w: passphrase is required", errBadRequest)
	}
	return passphrase, nil
}

func formFloat(c *gin.Context, field string, fallback float64) (float64, error) {
	raw := c.PostForm(field)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", errBadRequest, field)
	}
	return v, nil
}

func attach(c *gin.Context, name, suffix string) {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	if base == "" || base == "." {
		base = "upload"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", base+suffix))
}

// fail maps codec errors to 400 and anything else to 500.
func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, errBadRequest) ||
		errors.Is(err, mark.ErrInvalidInput) ||
		errors.Is(err, mark.ErrUnsupportedChannels) ||
		errors.Is(err, mark.ErrCorruptContainer) {
		status = http.StatusBadRequest
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
