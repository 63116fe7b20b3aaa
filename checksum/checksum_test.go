package checksum

import (
	"encoding/base64"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/crmarques/jbossctl/faults"
	"github.com/crmarques/jbossctl/management"
)

func TestDecodeServerHash(t *testing.T) {
	t.Parallel()

	got, err := DecodeServerHash(management.BytesValue{Base64: base64.StdEncoding.EncodeToString([]byte{0x01, 0x02})})
	if err != nil {
		t.Fatalf("DecodeServerHash returned error: %v", err)
	}
	if got != "0102" {
		t.Fatalf("expected 0102, got %q", got)
	}

	_, err = DecodeServerHash(management.BytesValue{Base64: "%%%"})
	if !faults.IsCategory(err, faults.OperationError) {
		t.Fatalf("expected OperationError for invalid base64, got %v", err)
	}
}

func TestFileMatchesServerHashOfSameContent(t *testing.T) {
	t.Parallel()

	artifact := filepath.Join(t.TempDir(), "hawtio.war")
	if err := os.WriteFile(artifact, []byte("war-bytes"), 0o644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}

	local, err := File(artifact)
	if err != nil {
		t.Fatalf("File returned error: %v", err)
	}
	want, err := Reader(strings.NewReader("war-bytes"))
	if err != nil {
		t.Fatalf("Reader returned error: %v", err)
	}
	if local != want || len(local) != 40 {
		t.Fatalf("expected 40-char digest %q, got %q", want, local)
	}

	rawDigest := mustHexDecode(t, local)
	remote, err := DecodeServerHash(management.NewBytesValue(rawDigest))
	if err != nil {
		t.Fatalf("DecodeServerHash returned error: %v", err)
	}
	if remote != local {
		t.Fatalf("expected server hash %q to equal local checksum %q", remote, local)
	}
}

func TestFileReportsArtifactError(t *testing.T) {
	t.Parallel()

	_, err := File(filepath.Join(t.TempDir(), "missing.war"))
	if !faults.IsCategory(err, faults.ArtifactError) {
		t.Fatalf("expected ArtifactError, got %v", err)
	}
}

func TestReaderKnownDigest(t *testing.T) {
	t.Parallel()

	got, err := Reader(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Reader returned error: %v", err)
	}
	if got != "da39a3ee5e6b4b0d3255bfef95601890afd80709" {
		t.Fatalf("unexpected empty digest %q", got)
	}
}

func mustHexDecode(t *testing.T, value string) []byte {
	t.Helper()

	decoded, err := hex.DecodeString(value)
	if err != nil {
		t.Fatalf("invalid hex %q: %v", value, err)
	}
	return decoded
}
