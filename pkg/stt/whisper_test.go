package stt

import (
	"context"
	"path/filepath"
	"testing"
)

func TestNewTranscriberEmptyPath(t *testing.T) {
	if _, err := NewTranscriber(""); err == nil {
		t.Error("NewTranscriber(\"\") should fail")
	}
}

func TestNewTranscriberMissingModel(t *testing.T) {
	if _, err := NewTranscriber(filepath.Join(t.TempDir(), "ggml-none.bin")); err == nil {
		t.Error("NewTranscriber() should fail for a missing model")
	}
}

func TestTranscribeWithoutModel(t *testing.T) {
	tr := &Transcriber{}
	if _, err := tr.TranscribePCM(context.Background(), []float32{0}, Options{}); err == nil {
		t.Error("TranscribePCM() should fail without a model")
	}
	if err := tr.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
