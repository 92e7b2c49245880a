package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
)

type sttResp struct {
	Text string `json:"text"`
}

// STT transcribes a recording through a speech-to-text service. The
// service returns word text only; no timestamps are available, which is
// why word timing is approximated downstream from silence patterns.
type STT struct {
	http *HTTP
	url  string
}

func NewSTT(h *HTTP, url string) *STT { return &STT{http: h, url: url} }

// Transcribe uploads the audio file and returns the transcription text.
func (s *STT) Transcribe(ctx context.Context, audioPath string) (string, error) {
	var b bytes.Buffer
	w := multipart.NewWriter(&b)

	fw, err := w.CreateFormFile("audio", filepath.Base(audioPath))
	if err != nil {
		return "", err
	}
	fd, err := os.Open(audioPath)
	if err != nil {
		return "", err
	}
	defer fd.Close()

	if _, err = io.Copy(fw, fd); err != nil {
		return "", err
	}
	if err = w.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url+"/transcribe", &b)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := s.http.c.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("stt %s: %s", resp.Status, string(body))
	}

	var out sttResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("stt decode: %w", err)
	}
	return out.Text, nil
}
