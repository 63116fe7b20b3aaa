// Package checksum computes artifact digests in the form the management API
// records for deployment content: SHA-1, compared as lowercase hex.
package checksum

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/crmarques/jbossctl/faults"
	"github.com/crmarques/jbossctl/management"
)

func File(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", faults.NewTypedError(faults.ArtifactError, fmt.Sprintf("artifact %q could not be opened", path), err)
	}
	defer file.Close()

	sum, err := Reader(file)
	if err != nil {
		return "", faults.NewTypedError(faults.ArtifactError, fmt.Sprintf("artifact %q could not be read", path), err)
	}
	return sum, nil
}

func Reader(reader io.Reader) (string, error) {
	hash := sha1.New()
	if _, err := io.Copy(hash, reader); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}

// DecodeServerHash converts a server content hash into the hex form
// returned by File.
func DecodeServerHash(value management.BytesValue) (string, error) {
	sum, err := value.Hex()
	if err != nil {
		return "", faults.NewTypedError(faults.OperationError, "server content hash is not valid base64", err)
	}
	return sum, nil
}
