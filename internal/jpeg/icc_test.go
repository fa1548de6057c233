package jpeg

import (
	"bytes"
	"testing"
)

func iccChunk(seq, count byte, data string) []byte {
	m := append([]byte(iccMarkerTag), seq, count)
	return append(m, data...)
}

func TestExtractICC(t *testing.T) {
	markers := [][]byte{
		iccChunk(2, 2, "-tail"),
		[]byte("Exif\x00\x00unrelated"),
		iccChunk(1, 2, "head"),
	}
	icc, err := ExtractICC(markers)
	if err != nil {
		t.Fatalf("ExtractICC: %v", err)
	}
	if !bytes.Equal(icc, []byte("head-tail")) {
		t.Errorf("got %q", icc)
	}
}

func TestExtractICCAbsent(t *testing.T) {
	icc, err := ExtractICC(nil)
	if err != nil || icc != nil {
		t.Fatalf("expected nil profile, got %v, %v", icc, err)
	}
}

func TestExtractICCMissingChunk(t *testing.T) {
	if _, err := ExtractICC([][]byte{iccChunk(1, 3, "a"), iccChunk(3, 3, "c")}); err == nil {
		t.Fatal("expected error for missing chunk")
	}
	if _, err := ExtractICC([][]byte{iccChunk(0, 1, "a")}); err == nil {
		t.Fatal("expected error for zero sequence number")
	}
}
