package rag

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// TextExtractor pulls plain text out of a PDF.
type TextExtractor interface {
	Extract(ctx context.Context, pdf []byte) (string, error)
}

// PDFToText shells out to poppler's pdftotext.
type PDFToText struct {
	Bin     string
	Timeout time.Duration
}

func NewPDFToText() *PDFToText {
	return &PDFToText{Bin: "pdftotext", Timeout: 2 * time.Minute}
}

func (p *PDFToText) Extract(ctx context.Context, pdf []byte) (string, error) {
	if len(pdf) == 0 {
		return "", fmt.Errorf("empty pdf")
	}
	bin := p.Bin
	if bin == "" {
		bin = "pdftotext"
	}
	if _, err := exec.LookPath(bin); err != nil {
		return "", fmt.Errorf("pdftotext not found in PATH: %w", err)
	}
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	tmpDir, err := os.MkdirTemp("", "ta_pdftotext_*")
	if err != nil {
		return "", fmt.Errorf("temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	inPath := filepath.Join(tmpDir, "in.pdf")
	outPath := filepath.Join(tmpDir, "out.txt")
	if err := os.WriteFile(inPath, pdf, 0o600); err != nil {
		return "", fmt.Errorf("write pdf: %w", err)
	}

	cmd := exec.CommandContext(callCtx, bin, "-enc", "UTF-8", "-q", inPath, outPath)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if s := strings.TrimSpace(stderr.String()); s != "" {
			return "", fmt.Errorf("pdftotext failed: %w: %s", err, s)
		}
		return "", fmt.Errorf("pdftotext failed: %w", err)
	}
	b, err := os.ReadFile(outPath)
	if err != nil {
		return "", fmt.Errorf("read pdftotext output: %w", err)
	}
	return string(b), nil
}
